package tui

import (
	"errors"

	"github.com/hailam/chessrelay/internal/board"
	"github.com/hailam/chessrelay/internal/netplay"
)

// InvalidMoveReason represents why a move was rejected.
type InvalidMoveReason int

const (
	ReasonUnknown InvalidMoveReason = iota
	ReasonWouldLeaveKingInCheck
	ReasonNoPiece
	ReasonInvalidPieceMovement
	ReasonCastling
	ReasonPromotion
	ReasonNotation
	ReasonNotYourTurn
)

// Reason classifies a move error.
func Reason(err error) InvalidMoveReason {
	switch {
	case errors.Is(err, board.ErrSelfCheck):
		return ReasonWouldLeaveKingInCheck
	case errors.Is(err, board.ErrNoPieceAtSource):
		return ReasonNoPiece
	case errors.Is(err, board.ErrCastleNotAllowed):
		return ReasonCastling
	case errors.Is(err, board.ErrIllegalForPiece):
		return ReasonInvalidPieceMovement
	case errors.Is(err, board.ErrInvalidPromotionContext):
		return ReasonPromotion
	case errors.Is(err, board.ErrInvalidNotation), errors.Is(err, board.ErrInvalidSquare):
		return ReasonNotation
	case errors.Is(err, netplay.ErrNotYourTurn):
		return ReasonNotYourTurn
	}
	return ReasonUnknown
}

// Message returns the status line text for a failed command.
func Message(err error) string {
	switch Reason(err) {
	case ReasonWouldLeaveKingInCheck:
		return "Illegal move - King would be in check"
	case ReasonNoPiece:
		return "No piece of yours on that square"
	case ReasonCastling:
		return "Castling not allowed"
	case ReasonInvalidPieceMovement:
		return "Invalid move for this piece"
	case ReasonPromotion:
		return "Choose a promotion: =Q =R =B =N"
	case ReasonNotation:
		return "Moves look like e2e4 or e7e8=Q"
	case ReasonNotYourTurn:
		return "Not your turn"
	}
	return err.Error()
}
