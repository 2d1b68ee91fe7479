package service

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/castlegate/chess-backend/internal/bot"
	"github.com/castlegate/chess-backend/internal/model"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
	rngMu       sync.Mutex
	rng         *rand.Rand
}

// NewGameService wires the manager with the random source used for
// suggestion fallbacks. The source is injected so tests can seed it.
func NewGameService(gameManager *GameManager, rng *rand.Rand) *GameService {
	return &GameService{
		gameManager: gameManager,
		rng:         rng,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}

func (gs *GameService) GetGameView(gameID string) (model.GameView, error) {
	return gs.gameManager.GetGameView(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

// HandleSuggestion plays an externally suggested move token on behalf of
// playerID. An unusable token falls back to a random legal move; only a
// terminal position yields an error.
func (gs *GameService) HandleSuggestion(gameID string, playerID string, token string) (model.SimpleMove, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.SimpleMove{}, err
	}

	state := game.State()
	gs.rngMu.Lock()
	move, ok := bot.Resolve(token, state, gs.rng)
	gs.rngMu.Unlock()
	if !ok {
		return model.SimpleMove{}, model.ErrGameOver
	}

	if err := game.MakeMove(playerID, model.WSMove{From: move.From, To: move.To}); err != nil {
		return model.SimpleMove{}, err
	}
	return move, nil
}

func (gs *GameService) HandleResign(gameID string, playerID string) error {
	return gs.gameManager.Resign(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}
