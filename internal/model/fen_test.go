package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// boardDiff compares occupancy, kind and color; IDs and moved-flags are
// outside the codec's fidelity (IDs are rebuilt, moved-flags reset).
func boardDiff(a, b *GameState) string {
	return cmp.Diff(a.Board, b.Board, cmpopts.IgnoreFields(Piece{}, "ID", "HasMoved"))
}

func TestStartingPositionFEN(t *testing.T) {
	got := NewGameState().ToFEN()
	if got != StartingFEN {
		t.Fatalf("ToFEN() = %q, want %q", got, StartingFEN)
	}
}

func TestFENAfterOpeningMoves(t *testing.T) {
	gs := playMoves(t, NewGameState(), [2]string{"e2", "e4"})
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := gs.ToFEN(); got != want {
		t.Fatalf("ToFEN() = %q, want %q", got, want)
	}

	gs = playMoves(t, gs, [2]string{"c7", "c5"}, [2]string{"g1", "f3"})
	want = "rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 0 2"
	if got := gs.ToFEN(); got != want {
		t.Fatalf("ToFEN() = %q, want %q", got, want)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartingFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"8/P6k/8/8/8/8/8/K7 w - - 0 1",
	}
	for _, fen := range fens {
		gs, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q) failed: %v", fen, err)
		}
		if got := gs.ToFEN(); got != fen {
			t.Errorf("round trip of %q produced %q", fen, got)
		}
	}
}

func TestReachablePositionsRoundTrip(t *testing.T) {
	gs := playMoves(t, NewGameState(),
		[2]string{"e2", "e4"},
		[2]string{"e7", "e5"},
		[2]string{"g1", "f3"},
		[2]string{"b8", "c6"},
		[2]string{"f1", "b5"},
	)
	reparsed, err := ParseFEN(gs.ToFEN())
	if err != nil {
		t.Fatalf("ParseFEN of reachable position failed: %v", err)
	}
	if diff := boardDiff(gs, reparsed); diff != "" {
		t.Errorf("board occupancy mismatch (-want +got):\n%s", diff)
	}
	if reparsed.ToMove != gs.ToMove {
		t.Errorf("side to move: got %s, want %s", reparsed.ToMove, gs.ToMove)
	}
	if reparsed.Castling != gs.Castling {
		t.Errorf("castling rights: got %+v, want %+v", reparsed.Castling, gs.Castling)
	}
	if diff := cmp.Diff(gs.EnPassantTarget, reparsed.EnPassantTarget); diff != "" {
		t.Errorf("en passant target mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFENDeterministicIdentity(t *testing.T) {
	first := mustParseFEN(t, StartingFEN)
	second := mustParseFEN(t, StartingFEN)
	if diff := cmp.Diff(first.Board, second.Board); diff != "" {
		t.Errorf("two parses of the same text differ (-first +second):\n%s", diff)
	}
}

func TestParseFENResetsMovedFlags(t *testing.T) {
	gs := playMoves(t, NewGameState(), [2]string{"e2", "e4"})
	reparsed := mustParseFEN(t, gs.ToFEN())
	pawn := reparsed.Board.pieceAt(mustSquare(t, "e4"))
	if pawn == nil || pawn.HasMoved {
		t.Fatal("moved-flags are not carried by the text format")
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few fields", "8/8/8/8/8/8/8/8 w - -"},
		{"bad piece letter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQXBNR w KQkq - 0 1"},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"seven ranks", "rnbqkbnr/8/8/8/8/8/RNBQKBNR w KQkq - 0 1"},
		{"bad side", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"bad castling flag", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KZkq - 0 1"},
		{"bad en passant", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1"},
		{"bad halfmove", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1"},
		{"bad fullmove", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 -1"},
		{"missing king", "rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFEN(tt.fen); !errors.Is(err, ErrInvalidFEN) {
				t.Fatalf("ParseFEN(%q) = %v, want ErrInvalidFEN", tt.fen, err)
			}
		})
	}
}

func TestParseFENDropsContradictoryCastlingRights(t *testing.T) {
	// Rights claim both wings but the h1 rook is gone and the a1 rook has
	// wandered; only flags matching the board survive.
	gs := mustParseFEN(t, "r3k2r/8/8/8/8/8/R7/4K3 w KQkq - 0 1")
	if gs.Castling.WhiteKingside || gs.Castling.WhiteQueenside {
		t.Fatalf("white rights must be dropped, got %+v", gs.Castling)
	}
	if !gs.Castling.BlackKingside || !gs.Castling.BlackQueenside {
		t.Fatalf("black rights must survive, got %+v", gs.Castling)
	}
}

func TestFullmoveDerivedFromHistory(t *testing.T) {
	gs := NewGameState()
	moves := [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}, {"b8", "c6"}}
	wantFullmove := []string{"1", "2", "2", "3"}
	for i, mv := range moves {
		gs = playMoves(t, gs, mv)
		got := gs.ToFEN()
		if got[len(got)-1:] != wantFullmove[i] {
			t.Errorf("after %d plies fullmove = %s, want %s", i+1, got[len(got)-1:], wantFullmove[i])
		}
	}
}
