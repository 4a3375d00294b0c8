package netplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/hailam/chessrelay/internal/board"
)

var (
	ErrHashMismatch = errors.New("board fingerprints differ")
	ErrBadRequest   = errors.New("bad connection request")
	ErrRefused      = errors.New("host refused the connection")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrRejected     = errors.New("peer rejected the move")
	ErrDisconnected = errors.New("peer disconnected")
	ErrGameOver     = errors.New("game over")
)

// closeTimeout bounds the courtesy frames written while tearing down.
const closeTimeout = time.Second

// Event is something the remote side did, as reported by Receive.
type Event struct {
	Header  Header
	Move    board.Move
	Outcome board.Outcome
	Hash    uint32
}

// Peer is one end of a relayed game. The host plays White and the joining
// side plays Black. Moves from both sides are serialized on one board.
type Peer struct {
	mu    sync.Mutex
	conn  net.Conn
	b     *board.Board
	side  board.Color
	start string
	moves []string
	done  bool

	// remoteFP is the fingerprint after the last committed remote move;
	// the remote's next BoardHash frame is checked against it.
	remoteFP   uint32
	expectHash bool

	log *log.Logger
}

func newPeer(conn net.Conn, b *board.Board, side board.Color, logger *log.Logger) *Peer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Peer{conn: conn, b: b, side: side, start: b.FEN(), log: logger}
}

// watch closes conn if ctx ends before the returned stop func is called.
func watch(ctx context.Context, c io.Closer) (stop func() bool) {
	return context.AfterFunc(ctx, func() { c.Close() })
}

// Host accepts connections on ln until one presents uid, sends it the board
// fingerprint and returns the peer. Requests with the wrong id are refused
// and the host keeps listening. ln is closed if ctx ends first.
func Host(ctx context.Context, ln net.Listener, uid uint16, b *board.Board, logger *log.Logger) (*Peer, error) {
	stop := watch(ctx, ln)
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		p, err := Accept(ctx, conn, uid, b, logger)
		if errors.Is(err, ErrBadRequest) {
			if logger != nil {
				logger.Printf("netplay: %v from %s", err, conn.RemoteAddr())
			}
			continue
		}
		return p, err
	}
}

// Accept runs the host half of the handshake on conn.
func Accept(ctx context.Context, conn net.Conn, uid uint16, b *board.Board, logger *log.Logger) (*Peer, error) {
	stop := watch(ctx, conn)
	defer stop()

	f, err := ReadFrame(conn)
	if err != nil {
		conn.Close()
		return nil, handshakeErr(ctx, err)
	}
	if f.Header != ConnectionRequest || f.UID() != uid {
		conn.SetWriteDeadline(time.Now().Add(closeTimeout))
		WriteFrame(conn, Frame{Header: Reject})
		conn.Close()
		return nil, fmt.Errorf("%w: %s with id %d", ErrBadRequest, f.Header, f.UID())
	}
	if err := WriteFrame(conn, HashFrame(b.Fingerprint())); err != nil {
		conn.Close()
		return nil, handshakeErr(ctx, err)
	}
	return newPeer(conn, b, board.White, logger), nil
}

// Join runs the joining half of the handshake on conn. The host's
// fingerprint must match b, otherwise the connection is dropped.
func Join(ctx context.Context, conn net.Conn, uid uint16, b *board.Board, logger *log.Logger) (*Peer, error) {
	stop := watch(ctx, conn)
	defer stop()

	if err := WriteFrame(conn, RequestFrame(uid)); err != nil {
		conn.Close()
		return nil, handshakeErr(ctx, err)
	}
	f, err := ReadFrame(conn)
	if err != nil {
		conn.Close()
		return nil, handshakeErr(ctx, err)
	}
	switch {
	case f.Header == Reject:
		conn.Close()
		return nil, ErrRefused
	case f.Header != BoardHash:
		conn.Close()
		return nil, fmt.Errorf("netplay: expected %s, got %s", BoardHash, f.Header)
	case f.Hash() != b.Fingerprint():
		conn.SetWriteDeadline(time.Now().Add(closeTimeout))
		WriteFrame(conn, Frame{Header: Disconnect})
		conn.Close()
		return nil, fmt.Errorf("%w: host %08x, local %08x", ErrHashMismatch, f.Hash(), b.Fingerprint())
	}
	return newPeer(conn, b, board.Black, logger), nil
}

// Dial connects to the host a game code points at and joins.
func Dial(ctx context.Context, code string, b *board.Board, logger *log.Logger) (*Peer, error) {
	c, err := DecodeCode(code)
	if err != nil {
		return nil, err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp4", c.Addr())
	if err != nil {
		return nil, err
	}
	return Join(ctx, conn, c.UID, b, logger)
}

func handshakeErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("netplay handshake: %w", err)
}

// Side returns the color this end plays.
func (p *Peer) Side() board.Color {
	return p.side
}

// Play applies a local move and sends it, followed by the new fingerprint
// once the move is committed.
func (p *Peer) Play(m board.Move) (board.Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return board.Rejected, ErrGameOver
	}
	if p.b.Turn() != p.side {
		return board.Rejected, ErrNotYourTurn
	}
	frames, err := MoveFrames(m)
	if err != nil {
		return board.Rejected, err
	}
	out, err := p.b.Play(m)
	if out == board.Rejected {
		return out, err
	}
	p.moves = append(p.moves, m.String())

	if out == board.Applied {
		frames = append(frames, HashFrame(p.b.Fingerprint()))
	}
	for _, f := range frames {
		if err := WriteFrame(p.conn, f); err != nil {
			return out, fmt.Errorf("send %s: %w", m, err)
		}
	}
	return out, nil
}

// Receive blocks for the next frame from the remote side and applies it.
// A remote move that this board rejects is answered with Reject and
// returned as an error, as is a fingerprint that does not match.
func (p *Peer) Receive() (Event, error) {
	f, err := ReadFrame(p.conn)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
			return Event{}, ErrDisconnected
		}
		return Event{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ev := Event{Header: f.Header}
	switch f.Header {
	case MoveFrame:
		m, err := f.Move()
		if err != nil {
			return ev, p.reject(err)
		}
		ev.Move = m
		if p.b.Turn() == p.side {
			return ev, p.reject(fmt.Errorf("%s moved out of turn", p.side.Other()))
		}
		out, err := p.b.Play(m)
		ev.Outcome = out
		if out == board.Rejected {
			return ev, p.reject(err)
		}
		p.moves = append(p.moves, m.String())
		if out == board.Applied {
			p.remoteFP = p.b.Fingerprint()
			p.expectHash = true
		}
		p.log.Printf("netplay: remote %s %s", m, out)
		return ev, nil

	case BoardHash:
		ev.Hash = f.Hash()
		// A local reply may already have been played on top of the
		// remote move this hash describes.
		local := p.b.Fingerprint()
		if p.expectHash {
			local = p.remoteFP
			p.expectHash = false
		}
		if ev.Hash != local {
			return ev, fmt.Errorf("%w: remote %08x, local %08x", ErrHashMismatch, ev.Hash, local)
		}
		return ev, nil

	case GameOver:
		p.done = true
		return ev, ErrGameOver

	case Reject:
		return ev, ErrRejected

	case Disconnect:
		p.done = true
		return ev, ErrDisconnected
	}
	return ev, fmt.Errorf("netplay: unknown frame %s", f.Header)
}

// reject answers the last remote move with a Reject frame. Caller holds mu.
func (p *Peer) reject(cause error) error {
	if err := WriteFrame(p.conn, Frame{Header: Reject}); err != nil {
		p.log.Printf("netplay: send reject: %v", err)
	}
	return fmt.Errorf("remote move: %w", cause)
}

// Serve calls Receive until it fails or ctx ends, handing each event to fn.
// Once Serve returns the game is over and Play refuses further moves.
func (p *Peer) Serve(ctx context.Context, fn func(Event)) error {
	stop := watch(ctx, p.conn)
	defer stop()

	for {
		ev, err := p.Receive()
		if err != nil {
			p.mu.Lock()
			p.done = true
			p.mu.Unlock()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if fn != nil {
			fn(ev)
		}
	}
}

// Snapshot returns a copy of the shared board.
func (p *Peer) Snapshot() *board.Board {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.b.Clone()
}

// History returns the start position and every move applied by either side.
func (p *Peer) History() (string, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.start, append([]string(nil), p.moves...)
}

// Resign tells the remote side the game is over.
func (p *Peer) Resign() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
	return WriteFrame(p.conn, Frame{Header: GameOver})
}

// Close sends Disconnect and closes the connection.
func (p *Peer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
	p.conn.SetWriteDeadline(time.Now().Add(closeTimeout))
	WriteFrame(p.conn, Frame{Header: Disconnect})
	return p.conn.Close()
}
