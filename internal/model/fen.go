package model

import (
	"fmt"
	"strconv"
	"strings"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func fenLetter(piece *Piece) byte {
	var letter byte
	switch piece.Type {
	case King:
		letter = 'k'
	case Queen:
		letter = 'q'
	case Rook:
		letter = 'r'
	case Bishop:
		letter = 'b'
	case Knight:
		letter = 'n'
	case Pawn:
		letter = 'p'
	}
	if piece.Color == PlayerColorWhite {
		letter -= 'a' - 'A'
	}
	return letter
}

func pieceTypeFromLetter(letter byte) (PieceType, bool) {
	switch letter {
	case 'k':
		return King, true
	case 'q':
		return Queen, true
	case 'r':
		return Rook, true
	case 'b':
		return Bishop, true
	case 'n':
		return Knight, true
	case 'p':
		return Pawn, true
	}
	return "", false
}

// ToFEN serializes the position in the standard six-field layout. The
// halfmove clock is a placeholder and always written as 0; the fullmove
// number is derived from the history length.
func (gs *GameState) ToFEN() string {
	var sb strings.Builder
	for y := 0; y < 8; y++ {
		run := 0
		for x := 0; x < 8; x++ {
			piece := gs.Board.Board[y][x]
			if piece == nil {
				run++
				continue
			}
			if run > 0 {
				sb.WriteString(strconv.Itoa(run))
				run = 0
			}
			sb.WriteByte(fenLetter(piece))
		}
		if run > 0 {
			sb.WriteString(strconv.Itoa(run))
		}
		if y < 7 {
			sb.WriteByte('/')
		}
	}

	if gs.ToMove == PlayerColorWhite {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	castling := ""
	if gs.Castling.WhiteKingside {
		castling += "K"
	}
	if gs.Castling.WhiteQueenside {
		castling += "Q"
	}
	if gs.Castling.BlackKingside {
		castling += "k"
	}
	if gs.Castling.BlackQueenside {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	if gs.EnPassantTarget != nil {
		sb.WriteString(" " + gs.EnPassantTarget.getSquareNotation())
	} else {
		sb.WriteString(" -")
	}

	fullmove := len(gs.MoveHistory)/2 + 1
	sb.WriteString(" 0 " + strconv.Itoa(fullmove))
	return sb.String()
}

// ParseFEN decodes the six-field layout into a fresh position with empty
// history. Piece IDs are rebuilt deterministically from letter and square
// so parsing the same text twice yields equal boards; moved-flags are not
// carried by the format and reset to false.
func ParseFEN(fen string) (*GameState, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	gs := &GameState{
		MoveHistory:    make([]Ply, 0),
		CapturedPieces: newCapturedPieces(),
	}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	whiteKings, blackKings := 0, 0
	for y := 0; y < 8; y++ {
		x := 0
		for i := 0; i < len(ranks[y]); i++ {
			ch := ranks[y][i]
			if ch >= '1' && ch <= '8' {
				x += int(ch - '0')
				continue
			}
			pieceType, ok := pieceTypeFromLetter(ch | 0x20)
			if !ok {
				return nil, fmt.Errorf("%w: unrecognized piece letter %q", ErrInvalidFEN, ch)
			}
			if x >= 8 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, 8-y)
			}
			color := PlayerColorBlack
			if ch >= 'A' && ch <= 'Z' {
				color = PlayerColorWhite
			}
			position := Position{X: x, Y: y}
			gs.Board.Board[y][x] = &Piece{
				Type:     pieceType,
				Color:    color,
				ID:       fmt.Sprintf("%c%s", ch, position.getSquareNotation()),
				Position: position,
				HasMoved: false,
			}
			if pieceType == King {
				gs.Board.setKingPosition(color, position)
				if color == PlayerColorWhite {
					whiteKings++
				} else {
					blackKings++
				}
			}
			x++
		}
		if x != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, 8-y, x)
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}

	switch parts[1] {
	case "w":
		gs.ToMove = PlayerColorWhite
	case "b":
		gs.ToMove = PlayerColorBlack
	default:
		return nil, fmt.Errorf("%w: active side must be 'w' or 'b'", ErrInvalidFEN)
	}

	if parts[2] != "-" {
		for i := 0; i < len(parts[2]); i++ {
			switch parts[2][i] {
			case 'K':
				gs.Castling.WhiteKingside = true
			case 'Q':
				gs.Castling.WhiteQueenside = true
			case 'k':
				gs.Castling.BlackKingside = true
			case 'q':
				gs.Castling.BlackQueenside = true
			default:
				return nil, fmt.Errorf("%w: bad castling flag %q", ErrInvalidFEN, parts[2][i])
			}
		}
	}
	gs.dropImpossibleCastlingRights()

	if parts[3] != "-" {
		target, ok := ParseSquare(parts[3])
		if !ok {
			return nil, fmt.Errorf("%w: bad en passant square %q", ErrInvalidFEN, parts[3])
		}
		gs.EnPassantTarget = &target
	}

	// The halfmove clock is not tracked; both counters are only validated.
	for _, counter := range parts[4:6] {
		n, err := strconv.Atoi(counter)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad move counter %q", ErrInvalidFEN, counter)
		}
	}

	gs.deriveStatus()
	return gs, nil
}

// dropImpossibleCastlingRights clears flags whose king or rook is off its
// home square. Castle execution assumes the fixed corner columns, so a
// right that contradicts the board must not survive the parse.
func (gs *GameState) dropImpossibleCastlingRights() {
	whiteKingHome := gs.pieceIs(Position{X: 4, Y: 7}, King, PlayerColorWhite)
	blackKingHome := gs.pieceIs(Position{X: 4, Y: 0}, King, PlayerColorBlack)
	gs.Castling.WhiteKingside = gs.Castling.WhiteKingside && whiteKingHome &&
		gs.pieceIs(Position{X: 7, Y: 7}, Rook, PlayerColorWhite)
	gs.Castling.WhiteQueenside = gs.Castling.WhiteQueenside && whiteKingHome &&
		gs.pieceIs(Position{X: 0, Y: 7}, Rook, PlayerColorWhite)
	gs.Castling.BlackKingside = gs.Castling.BlackKingside && blackKingHome &&
		gs.pieceIs(Position{X: 7, Y: 0}, Rook, PlayerColorBlack)
	gs.Castling.BlackQueenside = gs.Castling.BlackQueenside && blackKingHome &&
		gs.pieceIs(Position{X: 0, Y: 0}, Rook, PlayerColorBlack)
}

func (gs *GameState) pieceIs(position Position, pieceType PieceType, color PlayerColor) bool {
	piece := gs.Board.pieceAt(position)
	return piece != nil && piece.Type == pieceType && piece.Color == color
}
