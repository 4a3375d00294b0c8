package board

import (
	"errors"
	"fmt"
)

var (
	// Input errors.
	ErrInvalidNotation = errors.New("invalid notation")
	ErrInvalidSquare   = errors.New("square off the board")

	// Move rejections. A rejected move never changes the board.
	ErrNoPieceAtSource         = errors.New("no piece of the side to move at source")
	ErrIllegalForPiece         = errors.New("move is illegal for the piece")
	ErrCastleNotAllowed        = fmt.Errorf("%w: castling not allowed", ErrIllegalForPiece)
	ErrSelfCheck               = errors.New("move leaves own king in check")
	ErrInvalidPromotionContext = errors.New("invalid promotion context")

	// Internal consistency. These are unreachable through ApplyMove.
	ErrCorruptPiece = errors.New("corrupt piece tag")
	ErrInvariant    = errors.New("board invariant violated")
)
