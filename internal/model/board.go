package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// Piece is a board occupant. ID is stable for the lifetime of the piece so
// clients can track it across moves; promotion changes Type but keeps ID.
type Piece struct {
	Type     PieceType   `json:"type"`
	Color    PlayerColor `json:"color"`
	ID       string      `json:"id"`
	Position Position    `json:"position"`
	HasMoved bool        `json:"hasMoved"`
}

// Position is a square on the grid: X is the file (0 = a), Y is the row
// counted from black's back rank (0 = rank 8, 7 = rank 1).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

// ParseSquare is the inverse of getSquareNotation: "e4" -> {4, 4}.
func ParseSquare(s string) (Position, bool) {
	if len(s) != 2 {
		return Position{}, false
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, false
	}
	return Position{X: int(s[0] - 'a'), Y: int('8' - s[1])}, true
}

// BoardState is the 8x8 grid plus cached king locations. The grid is a
// value array so assignment copies it; pieces themselves are never mutated
// in place, which makes the shared pointers safe across copies.
type BoardState struct {
	Board             [8][8]*Piece `json:"board"`
	BlackKingPosition Position     `json:"blackKingPosition"`
	WhiteKingPosition Position     `json:"whiteKingPosition"`
}

func boundaryCheck(position Position) bool {
	return position.X >= 0 && position.X < 8 && position.Y >= 0 && position.Y < 8
}

// pieceAt returns nil for empty or out-of-bounds squares.
func (b *BoardState) pieceAt(position Position) *Piece {
	if !boundaryCheck(position) {
		return nil
	}
	return b.Board[position.Y][position.X]
}

func (b *BoardState) kingPosition(color PlayerColor) Position {
	if color == PlayerColorWhite {
		return b.WhiteKingPosition
	}
	return b.BlackKingPosition
}

func (b *BoardState) setKingPosition(color PlayerColor, position Position) {
	if color == PlayerColorWhite {
		b.WhiteKingPosition = position
	} else {
		b.BlackKingPosition = position
	}
}

func newBoard() BoardState {
	board := BoardState{}
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, pieceType := range backRank {
		board.Board[0][x] = newPiece(pieceType, PlayerColorBlack, Position{X: x, Y: 0})
		board.Board[7][x] = newPiece(pieceType, PlayerColorWhite, Position{X: x, Y: 7})
	}
	for x := 0; x < 8; x++ {
		board.Board[1][x] = newPiece(Pawn, PlayerColorBlack, Position{X: x, Y: 1})
		board.Board[6][x] = newPiece(Pawn, PlayerColorWhite, Position{X: x, Y: 6})
	}
	board.BlackKingPosition = Position{X: 4, Y: 0}
	board.WhiteKingPosition = Position{X: 4, Y: 7}
	return board
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
