package bot

import (
	"math/rand"
	"regexp"

	"github.com/castlegate/chess-backend/internal/model"
)

// Suggester is an opaque move oracle: it proposes a candidate move for the
// side to move, or reports that it has nothing usable. The rules engine
// stays the only authority on legality.
type Suggester interface {
	Suggest(state *model.GameState) (model.SimpleMove, bool)
}

// tokenRegex recognizes simplified move tokens: an optional piece letter,
// optional origin hints, capture marker, destination square and promotion,
// or one of the two castling tokens.
var tokenRegex = regexp.MustCompile(`^(?:([KQRBN]?)([a-h]?)([1-8]?)(x?)([a-h][1-8])(=[QRBN])?|(O-O(?:-O)?))[+#]?$`)

// ParseToken resolves a move token to a (from, to) pair. Only two forms
// resolve deterministically: a bare destination square, which picks the
// first piece of the side to move with a legal move there in row-major
// scan order, and the castling tokens. Disambiguated piece moves,
// captures and promotions are recognized but left to richer collaborators.
func ParseToken(token string, state *model.GameState) (model.SimpleMove, bool) {
	groups := tokenRegex.FindStringSubmatch(token)
	if groups == nil {
		return model.SimpleMove{}, false
	}

	if castle := groups[7]; castle != "" {
		return resolveCastle(castle, state)
	}

	bare := groups[1] == "" && groups[2] == "" && groups[3] == "" &&
		groups[4] == "" && groups[6] == ""
	if !bare {
		return model.SimpleMove{}, false
	}

	to, ok := model.ParseSquare(groups[5])
	if !ok {
		return model.SimpleMove{}, false
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			from := model.Position{X: x, Y: y}
			if state.IsLegal(from, to) {
				return model.SimpleMove{From: from, To: to}, true
			}
		}
	}
	return model.SimpleMove{}, false
}

func resolveCastle(token string, state *model.GameState) (model.SimpleMove, bool) {
	homeRow := 7
	if state.ToMove == model.PlayerColorBlack {
		homeRow = 0
	}
	from := model.Position{X: 4, Y: homeRow}
	to := model.Position{X: 6, Y: homeRow}
	if token == "O-O-O" {
		to = model.Position{X: 2, Y: homeRow}
	}
	if !state.IsLegal(from, to) {
		return model.SimpleMove{}, false
	}
	return model.SimpleMove{From: from, To: to}, true
}

// Fallback picks an arbitrary legal move using the caller's random source.
// Randomness is injected so the core stays deterministic under test.
func Fallback(state *model.GameState, rng *rand.Rand) (model.SimpleMove, bool) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return model.SimpleMove{}, false
	}
	return moves[rng.Intn(len(moves))], true
}

// Resolve turns an external suggestion into a usable move: the token when
// it resolves and is legal, otherwise a random legal fallback. The second
// return is false only in terminal positions.
func Resolve(token string, state *model.GameState, rng *rand.Rand) (model.SimpleMove, bool) {
	if move, ok := ParseToken(token, state); ok {
		return move, true
	}
	return Fallback(state, rng)
}

// RandomSuggester is the trivial Suggester: it always falls back.
type RandomSuggester struct {
	Rng *rand.Rand
}

func (s RandomSuggester) Suggest(state *model.GameState) (model.SimpleMove, bool) {
	return Fallback(state, s.Rng)
}
