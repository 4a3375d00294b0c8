package netplay

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chessrelay/internal/board"
)

func TestFrameBytes(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  []byte
	}{
		{"request", RequestFrame(0x1234), []byte{0, 0x12, 0x34, 0, 0}},
		{"hash", HashFrame(0x9517c72b), []byte{1, 0x95, 0x17, 0xc7, 0x2b}},
		{"game over", Frame{Header: GameOver}, []byte{3, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteFrame(&buf, tt.frame); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, buf.Bytes()); diff != "" {
				t.Errorf("WriteFrame mismatch (-want +got):\n%s", diff)
			}
			got, err := ReadFrame(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.frame {
				t.Errorf("ReadFrame = %+v, want %+v", got, tt.frame)
			}
		})
	}
}

func TestFrameAccessors(t *testing.T) {
	if got := RequestFrame(42).UID(); got != 42 {
		t.Errorf("UID() = %d", got)
	}
	if got := HashFrame(0xdeadbeef).Hash(); got != 0xdeadbeef {
		t.Errorf("Hash() = %08x", got)
	}
}

func TestReadFrameShort(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{2, 'e', '2'}))
	if err != io.ErrUnexpectedEOF {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestMoveFrames(t *testing.T) {
	tests := []struct {
		move string
		want []string
	}{
		{"e2e4", []string{"e2e4"}},
		{"e8=Q", []string{"e8=Q"}},
		{"e7e8=N", []string{"e7e8", "e8=N"}},
	}
	for _, tt := range tests {
		t.Run(tt.move, func(t *testing.T) {
			from, to, promo, err := board.ParseMove(tt.move)
			if err != nil {
				t.Fatal(err)
			}
			frames, err := MoveFrames(board.Move{From: from, To: to, Promotion: promo})
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, f := range frames {
				if f.Header != MoveFrame {
					t.Errorf("header = %s", f.Header)
				}
				m, err := f.Move()
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, m.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MoveFrames(%s) mismatch (-want +got):\n%s", tt.move, diff)
			}
		})
	}
}

func TestFrameMoveInvalid(t *testing.T) {
	f := Frame{Header: MoveFrame, Body: [4]byte{'z', '9', 'e', '4'}}
	if _, err := f.Move(); err == nil {
		t.Error("Move() accepted z9e4")
	}
}
