package board

import (
	"errors"
	"testing"
)

func TestSquareRoundTrip(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		got, err := ParseSquare(sq.String())
		if err != nil {
			t.Fatalf("ParseSquare(%q) error: %v", sq.String(), err)
		}
		if got != sq {
			t.Errorf("ParseSquare(%q) = %d, want %d", sq.String(), got, sq)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	// Every two-byte token that parses must format back to itself.
	for a := 0; a < 256; a++ {
		for c := 0; c < 256; c++ {
			tok := string([]byte{byte(a), byte(c)})
			sq, err := ParseSquare(tok)
			if err != nil {
				continue
			}
			if sq.String() != tok {
				t.Errorf("ParseSquare(%q).String() = %q", tok, sq.String())
			}
		}
	}
}

func TestSquareMapping(t *testing.T) {
	tests := []struct {
		sq         Square
		text       string
		file, rank int
	}{
		{A1, "a1", 0, 0},
		{A2, "a2", 0, 1},
		{A8, "a8", 0, 7},
		{B1, "b1", 1, 0},
		{E4, "e4", 4, 3},
		{H8, "h8", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if int(tt.sq) != tt.file*8+tt.rank {
				t.Errorf("index = %d, want %d", tt.sq, tt.file*8+tt.rank)
			}
			if tt.sq.File() != tt.file || tt.sq.Rank() != tt.rank {
				t.Errorf("File/Rank = %d/%d, want %d/%d", tt.sq.File(), tt.sq.Rank(), tt.file, tt.rank)
			}
			if tt.sq.String() != tt.text {
				t.Errorf("String() = %q, want %q", tt.sq.String(), tt.text)
			}
			if NewSquare(tt.file, tt.rank) != tt.sq {
				t.Errorf("NewSquare(%d, %d) = %s", tt.file, tt.rank, NewSquare(tt.file, tt.rank))
			}
		})
	}
}

func TestParseSquareErrors(t *testing.T) {
	for _, s := range []string{"", "e", "e44", "i1", "a0", "a9", "E4", "=Q", "=q", "11"} {
		if _, err := ParseSquare(s); !errors.Is(err, ErrInvalidNotation) {
			t.Errorf("ParseSquare(%q) error = %v, want ErrInvalidNotation", s, err)
		}
	}
}

func TestPromotionTokens(t *testing.T) {
	tests := []struct {
		text string
		tok  Square
		kind PieceType
	}{
		{"=Q", PromoteQueen, Queen},
		{"=r", PromoteRook, Rook},
		{"=B", PromoteBishop, Bishop},
		{"=n", PromoteKnight, Knight},
	}
	for _, tt := range tests {
		tok, err := ParseToken(tt.text)
		if err != nil {
			t.Fatalf("ParseToken(%q) error: %v", tt.text, err)
		}
		if tok != tt.tok || !tok.IsPromotionToken() || tok.IsValid() {
			t.Errorf("ParseToken(%q) = %d, want selector %d", tt.text, tok, tt.tok)
		}
		if tok.PromotionKind() != tt.kind {
			t.Errorf("%q.PromotionKind() = %s, want %s", tt.text, tok.PromotionKind(), tt.kind)
		}
	}
	if _, err := ParseToken("=K"); !errors.Is(err, ErrInvalidNotation) {
		t.Errorf("ParseToken(=K) error = %v, want ErrInvalidNotation", err)
	}
	if E4.IsPromotionToken() || NoSquare.IsPromotionToken() {
		t.Error("board squares must not be promotion tokens")
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in       string
		from, to Square
		promo    PieceType
		wantErr  bool
	}{
		{in: "e2e4", from: E2, to: E4},
		{in: " g1f3 ", from: G1, to: F3},
		{in: "e7e8=Q", from: E7, to: E8, promo: Queen},
		{in: "b2a1=n", from: B2, to: A1, promo: Knight},
		{in: "e8=R", from: E8, to: E8, promo: Rook},
		{in: "e2e9", wantErr: true},
		{in: "e7e8q", wantErr: true},
		{in: "e7e8e6", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to, promo, err := ParseMove(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNotation) {
					t.Fatalf("ParseMove(%q) error = %v, want ErrInvalidNotation", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMove(%q) error: %v", tt.in, err)
			}
			if from != tt.from || to != tt.to || promo != tt.promo {
				t.Errorf("ParseMove(%q) = %s %s %s, want %s %s %s", tt.in, from, to, promo, tt.from, tt.to, tt.promo)
			}
		})
	}
}

func TestFormatMove(t *testing.T) {
	tests := []struct {
		m    Move
		want string
	}{
		{Move{From: E2, To: E4}, "e2e4"},
		{Move{From: E7, To: E8, Promotion: Queen}, "e7e8=Q"},
		{Move{From: A8, To: A8, Promotion: Knight}, "a8=N"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("Move.String() = %q, want %q", got, tt.want)
		}
		from, to, promo, err := ParseMove(tt.want)
		if err != nil || (Move{From: from, To: to, Promotion: promo}) != tt.m {
			t.Errorf("ParseMove(%q) = %s %s %s, %v", tt.want, from, to, promo, err)
		}
	}
}
