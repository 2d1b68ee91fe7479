package model

import "github.com/google/uuid"

// WSMove is a move request as received from a client.
type WSMove struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply is the record of one accepted move. It is built once by ApplyMove and
// never modified afterwards; Piece and CapturedPiece are pre-move snapshots.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	IsCastle       bool            `json:"isCastle"`
	IsEnPassant    bool            `json:"isEnPassant"`
	Promotion      PieceType       `json:"promotion"`
	IsCheck        bool            `json:"isCheck"`
	IsCheckmate    bool            `json:"isCheckmate"`
	IsStalemate    bool            `json:"isStalemate"`
	Notation       string          `json:"notation"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func newPiece(pieceType PieceType, color PlayerColor, position Position) *Piece {
	return &Piece{
		Type:     pieceType,
		Color:    color,
		ID:       uuid.New().String(),
		Position: position,
		HasMoved: false,
	}
}

// movedPiece returns a copy of p relocated to position with HasMoved set.
// The ID carries over so clients can follow the piece across the move.
func movedPiece(p *Piece, position Position) *Piece {
	return &Piece{
		Type:     p.Type,
		Color:    p.Color,
		ID:       p.ID,
		Position: position,
		HasMoved: true,
	}
}

func promotedPiece(p *Piece, pieceType PieceType) *Piece {
	return &Piece{
		Type:     pieceType,
		Color:    p.Color,
		ID:       p.ID,
		Position: p.Position,
		HasMoved: true,
	}
}
