package netplay

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hailam/chessrelay/internal/board"
)

// Header says what a frame carries.
type Header byte

const (
	ConnectionRequest Header = iota
	BoardHash
	MoveFrame
	GameOver
	Reject
	Disconnect
)

func (h Header) String() string {
	switch h {
	case ConnectionRequest:
		return "connection-request"
	case BoardHash:
		return "board-hash"
	case MoveFrame:
		return "move"
	case GameOver:
		return "game-over"
	case Reject:
		return "reject"
	case Disconnect:
		return "disconnect"
	}
	return fmt.Sprintf("header(%d)", byte(h))
}

// FrameSize is the size of every frame on the wire.
const FrameSize = 5

// Frame is one message: a header byte and a 4-byte body.
type Frame struct {
	Header Header
	Body   [4]byte
}

// RequestFrame asks the host to join the game with the given id.
func RequestFrame(uid uint16) Frame {
	f := Frame{Header: ConnectionRequest}
	binary.BigEndian.PutUint16(f.Body[:2], uid)
	return f
}

// UID returns the id of a connection request.
func (f Frame) UID() uint16 {
	return binary.BigEndian.Uint16(f.Body[:2])
}

// HashFrame carries a board fingerprint.
func HashFrame(fp uint32) Frame {
	f := Frame{Header: BoardHash}
	binary.BigEndian.PutUint32(f.Body[:], fp)
	return f
}

// Hash returns the fingerprint of a BoardHash frame.
func (f Frame) Hash() uint32 {
	return binary.BigEndian.Uint32(f.Body[:])
}

// MoveFrames encodes a move. Each body is a 4-character token, so a move
// that promotes with a selector goes out as the pawn move followed by the
// selector for the new square.
func MoveFrames(m board.Move) ([]Frame, error) {
	if m.Promotion == board.NoPieceType || m.From == m.To {
		f, err := moveFrame(board.FormatMove(m.From, m.To, m.Promotion))
		if err != nil {
			return nil, err
		}
		return []Frame{f}, nil
	}
	step, err := moveFrame(board.FormatMove(m.From, m.To, board.NoPieceType))
	if err != nil {
		return nil, err
	}
	sel, err := moveFrame(board.FormatMove(m.To, m.To, m.Promotion))
	if err != nil {
		return nil, err
	}
	return []Frame{step, sel}, nil
}

func moveFrame(tok string) (Frame, error) {
	f := Frame{Header: MoveFrame}
	if len(tok) != len(f.Body) {
		return f, fmt.Errorf("netplay: move token %q is not 4 bytes", tok)
	}
	copy(f.Body[:], tok)
	return f, nil
}

// Move decodes the body of a MoveFrame.
func (f Frame) Move() (board.Move, error) {
	from, to, promo, err := board.ParseMove(string(f.Body[:]))
	if err != nil {
		return board.Move{}, err
	}
	return board.Move{From: from, To: to, Promotion: promo}, nil
}

// WriteFrame writes f as exactly FrameSize bytes.
func WriteFrame(w io.Writer, f Frame) error {
	var buf [FrameSize]byte
	buf[0] = byte(f.Header)
	copy(buf[1:], f.Body[:])
	_, err := w.Write(buf[:])
	return err
}

// ReadFrame reads one frame.
func ReadFrame(r io.Reader) (Frame, error) {
	var buf [FrameSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Frame{}, err
	}
	f := Frame{Header: Header(buf[0])}
	copy(f.Body[:], buf[1:])
	return f, nil
}
