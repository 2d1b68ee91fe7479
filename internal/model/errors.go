package model

import "errors"

var (
	// ErrIllegalMove covers every rejection from the legality chain:
	// wrong geometry, blocked path, self-capture, or exposing the king.
	ErrIllegalMove = errors.New("illegal move")
	ErrNoPiece     = errors.New("no piece at from square")
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameOver    = errors.New("game is over")
	// ErrInvalidFEN marks decode failures so callers can tell bad data
	// apart from a legal-move rejection.
	ErrInvalidFEN = errors.New("invalid FEN")
)
