package model

type GameStatus string

const (
	StatusOngoing   GameStatus = "ongoing"
	StatusCheck     GameStatus = "check"
	StatusCheckmate GameStatus = "checkmate"
	StatusStalemate GameStatus = "stalemate"
	StatusDraw      GameStatus = "draw"
	StatusResigned  GameStatus = "resigned"
)

// CastlingRights are the four per-side, per-wing eligibility flags. They
// only ever transition from true to false.
type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func (c CastlingRights) allows(color PlayerColor, kingside bool) bool {
	if color == PlayerColorWhite {
		if kingside {
			return c.WhiteKingside
		}
		return c.WhiteQueenside
	}
	if kingside {
		return c.BlackKingside
	}
	return c.BlackQueenside
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// GameState is one immutable snapshot of a game. ApplyMove never modifies
// its receiver; every accepted move produces a whole new value, which is
// what lets the check-safety simulation work on throwaway copies with no
// rollback logic anywhere.
type GameState struct {
	Board           BoardState     `json:"boardState"`
	ToMove          PlayerColor    `json:"toMove"`
	MoveHistory     []Ply          `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	Status          GameStatus     `json:"status"`
	Winner          PlayerColor    `json:"winner,omitempty"`
	LastMove        *SimpleMove    `json:"lastMove"`
	EnPassantTarget *Position      `json:"enPassantTarget"`
	Castling        CastlingRights `json:"castlingRights"`
}

func NewGameState() *GameState {
	return &GameState{
		Board:          newBoard(),
		ToMove:         PlayerColorWhite,
		MoveHistory:    make([]Ply, 0),
		CapturedPieces: newCapturedPieces(),
		Status:         StatusOngoing,
		Castling: CastlingRights{
			WhiteKingside:  true,
			WhiteQueenside: true,
			BlackKingside:  true,
			BlackQueenside: true,
		},
	}
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// clone copies everything a successor state may change. The board array
// copies by value; pieces are shared because they are never mutated.
func (gs *GameState) clone() *GameState {
	next := *gs
	next.MoveHistory = append(make([]Ply, 0, len(gs.MoveHistory)+1), gs.MoveHistory...)
	next.CapturedPieces = CapturedPieces{
		White: append(make([]Piece, 0, len(gs.CapturedPieces.White)), gs.CapturedPieces.White...),
		Black: append(make([]Piece, 0, len(gs.CapturedPieces.Black)), gs.CapturedPieces.Black...),
	}
	if gs.EnPassantTarget != nil {
		target := *gs.EnPassantTarget
		next.EnPassantTarget = &target
	}
	if gs.LastMove != nil {
		last := *gs.LastMove
		next.LastMove = &last
	}
	return &next
}

// IsOver reports whether no further moves are accepted.
func (gs *GameState) IsOver() bool {
	switch gs.Status {
	case StatusCheckmate, StatusStalemate, StatusDraw, StatusResigned:
		return true
	}
	return false
}

// ApplyMove validates the move and, if legal, returns the successor state
// together with the completed Ply record appended to its history. The
// receiver is left untouched on every path.
func (gs *GameState) ApplyMove(move WSMove) (*GameState, error) {
	if gs.IsOver() {
		return nil, ErrGameOver
	}
	piece := gs.Board.pieceAt(move.From)
	if piece == nil {
		return nil, ErrNoPiece
	}
	if piece.Color != gs.ToMove {
		return nil, ErrNotYourTurn
	}
	if !gs.IsLegal(move.From, move.To) {
		return nil, ErrIllegalMove
	}

	captured := gs.Board.pieceAt(move.To)
	isCastle := piece.Type == King && abs(move.To.X-move.From.X) == 2
	isEnPassant := piece.Type == Pawn && abs(move.To.X-move.From.X) == 1 &&
		captured == nil && gs.EnPassantTarget != nil && move.To == *gs.EnPassantTarget

	promotion := PieceType("")
	if piece.Type == Pawn && (move.To.Y == 0 || move.To.Y == 7) {
		promotion = move.Promotion
		if promotion == "" {
			promotion = Queen
		}
		switch promotion {
		case Queen, Rook, Bishop, Knight:
		default:
			return nil, ErrIllegalMove
		}
	}

	next := gs.clone()

	moved := movedPiece(piece, move.To)
	if promotion != "" {
		moved = promotedPiece(moved, promotion)
	}
	next.Board.Board[move.To.Y][move.To.X] = moved
	next.Board.Board[move.From.Y][move.From.X] = nil
	if piece.Type == King {
		next.Board.setKingPosition(piece.Color, move.To)
	}

	var rookMove *CastleRookMove
	if isCastle {
		rookMove = next.castleRook(move)
	}
	if isEnPassant {
		captured = next.captureEnPassant(move, piece.Color)
	}

	next.updateCastlingRights(piece, move.From)
	if captured != nil {
		next.updateCastlingRights(captured, captured.Position)
	}
	next.updateEnPassantTarget(piece, move)

	var capturedSnapshot *Piece
	if captured != nil {
		snapshot := *captured
		capturedSnapshot = &snapshot
		if piece.Color == PlayerColorWhite {
			next.CapturedPieces.White = append(next.CapturedPieces.White, snapshot)
		} else {
			next.CapturedPieces.Black = append(next.CapturedPieces.Black, snapshot)
		}
	}

	next.ToMove = gs.ToMove.Opponent()
	next.LastMove = &SimpleMove{From: move.From, To: move.To}
	next.deriveStatus()

	ply := Ply{
		Piece:          *piece,
		From:           move.From,
		To:             move.To,
		CapturedPiece:  capturedSnapshot,
		CastleRookMove: rookMove,
		IsCastle:       isCastle,
		IsEnPassant:    isEnPassant,
		Promotion:      promotion,
		IsCheck:        next.Status == StatusCheck || next.Status == StatusCheckmate,
		IsCheckmate:    next.Status == StatusCheckmate,
		IsStalemate:    next.Status == StatusStalemate,
	}
	ply.Notation = notationFor(ply)
	next.MoveHistory = append(next.MoveHistory, ply)

	return next, nil
}

// castleRook relocates the rook that accompanies an accepted castle. The
// caller already moved the king.
func (gs *GameState) castleRook(move WSMove) *CastleRookMove {
	var rookFrom, rookTo Position
	switch move.To.X {
	case 2:
		rookFrom = Position{X: 0, Y: move.From.Y}
		rookTo = Position{X: 3, Y: move.From.Y}
	case 6:
		rookFrom = Position{X: 7, Y: move.From.Y}
		rookTo = Position{X: 5, Y: move.From.Y}
	default:
		return nil
	}
	rook := gs.Board.pieceAt(rookFrom)
	gs.Board.Board[rookTo.Y][rookTo.X] = movedPiece(rook, rookTo)
	gs.Board.Board[rookFrom.Y][rookFrom.X] = nil
	return &CastleRookMove{From: rookFrom, To: rookTo}
}

// captureEnPassant removes the double-stepped pawn, which sits behind the
// destination square along the opponent's forward direction, and returns it.
func (gs *GameState) captureEnPassant(move WSMove, moverColor PlayerColor) *Piece {
	capturedPos := Position{X: move.To.X, Y: move.To.Y - pawnDirection(moverColor)}
	captured := gs.Board.pieceAt(capturedPos)
	gs.Board.Board[capturedPos.Y][capturedPos.X] = nil
	return captured
}

// updateCastlingRights clears rights lost by this move. Moving the king
// forfeits both wings; a rook moved off or captured on its home corner
// forfeits its wing, so the caller passes the captured piece through here
// too. Rights are never re-granted.
func (gs *GameState) updateCastlingRights(piece *Piece, at Position) {
	homeRow := 7
	if piece.Color == PlayerColorBlack {
		homeRow = 0
	}
	switch piece.Type {
	case King:
		if piece.Color == PlayerColorWhite {
			gs.Castling.WhiteKingside = false
			gs.Castling.WhiteQueenside = false
		} else {
			gs.Castling.BlackKingside = false
			gs.Castling.BlackQueenside = false
		}
	case Rook:
		if at.Y != homeRow {
			return
		}
		switch at.X {
		case 0:
			if piece.Color == PlayerColorWhite {
				gs.Castling.WhiteQueenside = false
			} else {
				gs.Castling.BlackQueenside = false
			}
		case 7:
			if piece.Color == PlayerColorWhite {
				gs.Castling.WhiteKingside = false
			} else {
				gs.Castling.BlackKingside = false
			}
		}
	}
}

// updateEnPassantTarget sets the skipped square after a pawn double step
// and clears any previous target otherwise; the target lives for exactly
// one reply.
func (gs *GameState) updateEnPassantTarget(piece *Piece, move WSMove) {
	if piece.Type == Pawn && abs(move.To.Y-move.From.Y) == 2 {
		gs.EnPassantTarget = &Position{X: move.From.X, Y: (move.From.Y + move.To.Y) / 2}
		return
	}
	gs.EnPassantTarget = nil
}

// deriveStatus classifies the position for the side now to move and sets
// the winner on checkmate.
func (gs *GameState) deriveStatus() {
	inCheck := isKingInCheck(&gs.Board, gs.ToMove)
	if gs.HasLegalMoves() {
		if inCheck {
			gs.Status = StatusCheck
		} else {
			gs.Status = StatusOngoing
		}
		gs.Winner = ""
		return
	}
	if inCheck {
		gs.Status = StatusCheckmate
		gs.Winner = gs.ToMove.Opponent()
		return
	}
	gs.Status = StatusStalemate
	gs.Winner = ""
}
