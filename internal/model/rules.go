package model

// pawnDirection is the row delta a pawn of the given color advances by.
// White sits on rows 6-7 and moves toward row 0.
func pawnDirection(color PlayerColor) int {
	if color == PlayerColorWhite {
		return -1
	}
	return 1
}

// IsLegal reports whether moving the piece on from to to is legal for the
// side to move. The checks run cheapest-first; the check-safety simulation
// is last because it needs a full attack scan.
func (gs *GameState) IsLegal(from, to Position) bool {
	piece := gs.Board.pieceAt(from)
	if piece == nil || piece.Color != gs.ToMove {
		return false
	}
	if !boundaryCheck(to) {
		return false
	}
	if target := gs.Board.pieceAt(to); target != nil && target.Color == piece.Color {
		return false
	}
	if piece.Type == King && from.Y == to.Y && abs(to.X-from.X) == 2 {
		if !gs.canCastle(piece, from, to) {
			return false
		}
	} else if !canPieceReach(&gs.Board, piece, from, to, gs.EnPassantTarget) {
		return false
	}
	return !gs.wouldLeaveKingInCheck(piece, from, to)
}

// canPieceReach is the per-kind movement predicate. It assumes bounds and
// self-capture were already ruled out. Castling is not handled here; the
// king case covers single steps only.
func canPieceReach(b *BoardState, piece *Piece, from, to Position, enPassant *Position) bool {
	dx := to.X - from.X
	dy := to.Y - from.Y
	switch piece.Type {
	case Pawn:
		dir := pawnDirection(piece.Color)
		if dx == 0 && dy == dir {
			return b.pieceAt(to) == nil
		}
		if dx == 0 && dy == 2*dir {
			return !piece.HasMoved &&
				b.pieceAt(Position{X: from.X, Y: from.Y + dir}) == nil &&
				b.pieceAt(to) == nil
		}
		if abs(dx) == 1 && dy == dir {
			if target := b.pieceAt(to); target != nil {
				return target.Color != piece.Color
			}
			return enPassant != nil && to == *enPassant
		}
		return false
	case Knight:
		return (abs(dx) == 1 && abs(dy) == 2) || (abs(dx) == 2 && abs(dy) == 1)
	case Bishop:
		return abs(dx) == abs(dy) && dx != 0 && pathClear(b, from, to)
	case Rook:
		return (dx == 0) != (dy == 0) && pathClear(b, from, to)
	case Queen:
		if abs(dx) == abs(dy) && dx != 0 {
			return pathClear(b, from, to)
		}
		return (dx == 0) != (dy == 0) && pathClear(b, from, to)
	case King:
		return abs(dx) <= 1 && abs(dy) <= 1 && (dx != 0 || dy != 0)
	}
	return false
}

// pathClear walks the squares strictly between from and to along a rank,
// file or diagonal and reports whether they are all empty.
func pathClear(b *BoardState, from, to Position) bool {
	step := Position{X: sign(to.X - from.X), Y: sign(to.Y - from.Y)}
	cur := Position{X: from.X + step.X, Y: from.Y + step.Y}
	for cur != to {
		if b.pieceAt(cur) != nil {
			return false
		}
		cur = Position{X: cur.X + step.X, Y: cur.Y + step.Y}
	}
	return true
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// canCastle evaluates a king move of two columns as a castling attempt
// against the pre-move board: both pieces unmoved, the right still held,
// the corridor empty, and none of the king's transit squares attacked.
func (gs *GameState) canCastle(king *Piece, from, to Position) bool {
	if king.HasMoved {
		return false
	}
	kingside := to.X > from.X
	if !gs.Castling.allows(king.Color, kingside) {
		return false
	}
	rookX := 0
	if kingside {
		rookX = 7
	}
	rook := gs.Board.pieceAt(Position{X: rookX, Y: from.Y})
	if rook == nil || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
		return false
	}
	lo, hi := from.X, rookX
	if lo > hi {
		lo, hi = hi, lo
	}
	for x := lo + 1; x < hi; x++ {
		if gs.Board.pieceAt(Position{X: x, Y: from.Y}) != nil {
			return false
		}
	}
	// The king may not castle out of, through, or into an attack.
	mid := Position{X: (from.X + to.X) / 2, Y: from.Y}
	opponent := king.Color.Opponent()
	for _, sq := range []Position{from, mid, to} {
		if isSquareAttacked(&gs.Board, opponent, sq) {
			return false
		}
	}
	return true
}

// wouldLeaveKingInCheck simulates the bare board substitution (relocate the
// piece, clear the origin, no special-move side effects) on a throwaway
// copy and reports whether the mover's king ends up attacked.
func (gs *GameState) wouldLeaveKingInCheck(piece *Piece, from, to Position) bool {
	board := gs.Board
	board.Board[to.Y][to.X] = piece
	board.Board[from.Y][from.X] = nil
	if piece.Type == King {
		board.setKingPosition(piece.Color, to)
	}
	return isKingInCheck(&board, piece.Color)
}

func isKingInCheck(b *BoardState, color PlayerColor) bool {
	return isSquareAttacked(b, color.Opponent(), b.kingPosition(color))
}

// isSquareAttacked scans every piece of attackingColor. Pawns get their own
// pattern because a pawn threatens its two forward diagonals whether or not
// they are occupied; every other kind attacks exactly the squares its
// movement predicate can reach.
func isSquareAttacked(b *BoardState, attackingColor PlayerColor, target Position) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := b.Board[y][x]
			if piece == nil || piece.Color != attackingColor {
				continue
			}
			from := Position{X: x, Y: y}
			if piece.Type == Pawn {
				dir := pawnDirection(piece.Color)
				if target.Y == y+dir && abs(target.X-x) == 1 {
					return true
				}
				continue
			}
			if canPieceReach(b, piece, from, target, nil) {
				return true
			}
		}
	}
	return false
}

// LegalMovesFrom enumerates every legal destination for the piece on from.
func (gs *GameState) LegalMovesFrom(from Position) []SimpleMove {
	moves := []SimpleMove{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			to := Position{X: x, Y: y}
			if gs.IsLegal(from, to) {
				moves = append(moves, SimpleMove{From: from, To: to})
			}
		}
	}
	return moves
}

// LegalMoves enumerates every legal move for the side to move, scanning
// origins in row-major order.
func (gs *GameState) LegalMoves() []SimpleMove {
	moves := []SimpleMove{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := gs.Board.Board[y][x]
			if piece == nil || piece.Color != gs.ToMove {
				continue
			}
			moves = append(moves, gs.LegalMovesFrom(Position{X: x, Y: y})...)
		}
	}
	return moves
}

// HasLegalMoves is LegalMoves with an early exit; one move is enough to
// settle the ongoing-vs-terminal question.
func (gs *GameState) HasLegalMoves() bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := gs.Board.Board[y][x]
			if piece == nil || piece.Color != gs.ToMove {
				continue
			}
			from := Position{X: x, Y: y}
			for ty := 0; ty < 8; ty++ {
				for tx := 0; tx < 8; tx++ {
					if gs.IsLegal(from, Position{X: tx, Y: ty}) {
						return true
					}
				}
			}
		}
	}
	return false
}
