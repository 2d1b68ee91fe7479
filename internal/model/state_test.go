package model

import (
	"errors"
	"testing"
)

func TestApplyMoveLeavesReceiverUntouched(t *testing.T) {
	gs := NewGameState()
	before := gs.ToFEN()

	next, err := gs.ApplyMove(WSMove{From: mustSquare(t, "e2"), To: mustSquare(t, "e4")})
	if err != nil {
		t.Fatalf("move rejected: %v", err)
	}
	if gs.ToFEN() != before {
		t.Fatal("ApplyMove mutated its receiver")
	}
	if next.ToFEN() == before {
		t.Fatal("successor state must differ")
	}
	if len(gs.MoveHistory) != 0 || len(next.MoveHistory) != 1 {
		t.Fatalf("history lengths: got %d and %d, want 0 and 1",
			len(gs.MoveHistory), len(next.MoveHistory))
	}
}

func TestApplyMoveRejections(t *testing.T) {
	gs := NewGameState()
	tests := []struct {
		name string
		move WSMove
		want error
	}{
		{"empty origin", WSMove{From: mustSquare(t, "e4"), To: mustSquare(t, "e5")}, ErrNoPiece},
		{"opponent piece", WSMove{From: mustSquare(t, "e7"), To: mustSquare(t, "e5")}, ErrNotYourTurn},
		{"bad geometry", WSMove{From: mustSquare(t, "e2"), To: mustSquare(t, "e5")}, ErrIllegalMove},
		{"off board", WSMove{From: mustSquare(t, "e2"), To: Position{X: 4, Y: -1}}, ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := gs.ApplyMove(tt.move); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCapturedPiecesAppend(t *testing.T) {
	gs := playMoves(t, NewGameState(),
		[2]string{"e2", "e4"},
		[2]string{"d7", "d5"},
		[2]string{"e4", "d5"},
		[2]string{"d8", "d5"},
	)
	if len(gs.CapturedPieces.White) != 1 || gs.CapturedPieces.White[0].Type != Pawn {
		t.Fatalf("white's capture list = %+v, want one black pawn", gs.CapturedPieces.White)
	}
	if len(gs.CapturedPieces.Black) != 1 || gs.CapturedPieces.Black[0].Type != Pawn {
		t.Fatalf("black's capture list = %+v, want one white pawn", gs.CapturedPieces.Black)
	}
}

func TestPieceIdentitySurvivesMovesAndPromotion(t *testing.T) {
	gs := NewGameState()
	pawnID := gs.Board.pieceAt(mustSquare(t, "e2")).ID

	next := playMoves(t, gs, [2]string{"e2", "e4"})
	moved := next.Board.pieceAt(mustSquare(t, "e4"))
	if moved.ID != pawnID {
		t.Fatal("identity must survive a relocation")
	}
	if !moved.HasMoved {
		t.Fatal("relocation must set the moved-flag")
	}

	promo := mustParseFEN(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	promoPawnID := promo.Board.pieceAt(mustSquare(t, "a7")).ID
	after, err := promo.ApplyMove(WSMove{From: mustSquare(t, "a7"), To: mustSquare(t, "a8")})
	if err != nil {
		t.Fatalf("promotion rejected: %v", err)
	}
	queen := after.Board.pieceAt(mustSquare(t, "a8"))
	if queen.Type != Queen {
		t.Fatalf("promotion without an explicit kind defaults to queen, got %s", queen.Type)
	}
	if queen.ID != promoPawnID {
		t.Fatal("identity must survive promotion")
	}
}

func TestPromotionKindValidated(t *testing.T) {
	gs := mustParseFEN(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	move := WSMove{From: mustSquare(t, "a7"), To: mustSquare(t, "a8"), Promotion: King}
	if _, err := gs.ApplyMove(move); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("promotion to king: got %v, want ErrIllegalMove", err)
	}
}

func TestCapturedHomeRookForfeitsCastlingRight(t *testing.T) {
	gs := mustParseFEN(t, "4k3/8/8/8/8/6n1/8/4K2R b K - 0 1")
	next, err := gs.ApplyMove(WSMove{From: mustSquare(t, "g3"), To: mustSquare(t, "h1")})
	if err != nil {
		t.Fatalf("rook capture rejected: %v", err)
	}
	if next.Castling.WhiteKingside {
		t.Fatal("capturing the h1 rook must clear white's kingside right")
	}
	reparsed := mustParseFEN(t, next.ToFEN())
	if reparsed.Castling != next.Castling {
		t.Fatalf("castling rights lost in the round trip: state=%+v reparsed=%+v",
			next.Castling, reparsed.Castling)
	}
}

func TestCapturedRookOffHomeCornerKeepsRights(t *testing.T) {
	// The captured rook wandered to h2 first; the right was already gone
	// when it moved, and the capture must not disturb the other wing.
	gs := mustParseFEN(t, "r3k2r/8/8/8/8/5n2/7R/R3K3 b Qkq - 0 1")
	next, err := gs.ApplyMove(WSMove{From: mustSquare(t, "f3"), To: mustSquare(t, "h2")})
	if err != nil {
		t.Fatalf("rook capture rejected: %v", err)
	}
	if !next.Castling.WhiteQueenside {
		t.Fatal("capturing a rook away from its corner must not touch the queenside right")
	}
	if !next.Castling.BlackKingside || !next.Castling.BlackQueenside {
		t.Fatal("the capture must not touch black's rights")
	}
}

func TestLastMoveTracked(t *testing.T) {
	gs := playMoves(t, NewGameState(), [2]string{"g1", "f3"})
	want := SimpleMove{From: mustSquare(t, "g1"), To: mustSquare(t, "f3")}
	if gs.LastMove == nil || *gs.LastMove != want {
		t.Fatalf("last move = %+v, want %+v", gs.LastMove, want)
	}
}

func TestGameOverRejectsFurtherMoves(t *testing.T) {
	gs := mustParseFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if _, err := gs.ApplyMove(WSMove{From: mustSquare(t, "h8"), To: mustSquare(t, "h7")}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("got %v, want ErrGameOver", err)
	}
}
