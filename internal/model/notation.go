package model

import "strings"

// notationFor renders the completed ply in this system's notation dialect:
// the origin square is always written and same-kind pieces are never
// disambiguated further, e.g. "Ng1f3", "e4xd5", "e7e8=Q", "Qd8h4#".
func notationFor(ply Ply) string {
	if ply.IsCastle {
		notation := "O-O"
		if ply.To.X == 2 {
			notation = "O-O-O"
		}
		return notation + statusSuffix(ply)
	}

	var sb strings.Builder
	sb.WriteString(ply.Piece.Type.getPieceNotation())
	sb.WriteString(ply.From.getSquareNotation())
	if ply.CapturedPiece != nil {
		sb.WriteString("x")
	}
	sb.WriteString(ply.To.getSquareNotation())
	if ply.Promotion != "" {
		sb.WriteString("=")
		sb.WriteString(ply.Promotion.getPieceNotation())
	}
	sb.WriteString(statusSuffix(ply))
	return sb.String()
}

func statusSuffix(ply Ply) string {
	switch {
	case ply.IsCheckmate:
		return "#"
	case ply.IsCheck:
		return "+"
	}
	return ""
}
