package model

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/castlegate/chess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// GameConnections holds the websocket connections observing one game.
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// Game wraps the immutable GameState for the server: it owns the mutex,
// players, clocks and observers, and swaps in a whole new state on every
// accepted move.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       *GameState
	players     Players
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// GameView is the snapshot broadcast to clients.
type GameView struct {
	Game    *GameState `json:"game"`
	Players Players    `json:"players"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		state:       NewGameState(),
		connections: NewGameConnections(),
		whiteClock:  NewClock(600 * time.Second),
		blackClock:  NewClock(600 * time.Second),
	}
}

func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{
			ID:       playerID,
			Color:    string(PlayerColorWhite),
			TimeLeft: 6000,
		}
		return PlayerColorWhite, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{
			ID:       playerID,
			Color:    string(PlayerColorBlack),
			TimeLeft: 6000,
		}
		return PlayerColorBlack, nil
	}
	return "", errors.New("game is full")
}

// State returns the current immutable position. Callers may hold on to it;
// it will never change underneath them.
func (g *Game) State() *GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Game) GetView() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GameView{Game: g.state, Players: g.players}
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	if g.players.White.ID != "" && g.players.White.ID == playerID {
		return true
	}
	if g.players.Black.ID != "" && g.players.Black.ID == playerID {
		return true
	}
	return false
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

// playerColor resolves which side playerID controls, if any.
func (g *Game) playerColor(playerID string) (PlayerColor, bool) {
	if g.players.White.ID == playerID {
		return PlayerColorWhite, true
	}
	if g.players.Black.ID == playerID {
		return PlayerColorBlack, true
	}
	return "", false
}

// MakeMove validates that playerID owns the side to move, applies the move
// through the rules engine and, on success, swaps in the successor state,
// switches the clocks and broadcasts the new view.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.playerColor(playerID)
	if !ok {
		return errors.New("player not in game")
	}
	if color != g.state.ToMove {
		return ErrNotYourTurn
	}

	next, err := g.state.ApplyMove(move)
	if err != nil {
		return err
	}

	if g.state.ToMove == PlayerColorWhite {
		g.whiteClock.Stop()
	} else {
		g.blackClock.Stop()
	}
	g.state = next
	if !next.IsOver() {
		if next.ToMove == PlayerColorWhite {
			g.whiteClock.Start()
		} else {
			g.blackClock.Start()
		}
	}

	g.players.White.TimeLeft = int(g.whiteClock.GetTimeLeft().Milliseconds() / 100)
	g.players.Black.TimeLeft = int(g.blackClock.GetTimeLeft().Milliseconds() / 100)

	go g.broadcastState()

	return nil
}

// Resign ends the game in favor of the resigner's opponent and stops both
// clocks.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.playerColor(playerID)
	if !ok {
		return errors.New("player not in game")
	}
	if g.state.IsOver() {
		return ErrGameOver
	}

	next := g.state.clone()
	next.Status = StatusResigned
	next.Winner = color.Opponent()
	g.state = next

	g.whiteClock.Stop()
	g.blackClock.Stop()

	go g.broadcastState()
	return nil
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the existing healthy connection and reject the new one.
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	delete(g.connections.connections, playerID)
}

func (g *Game) broadcastState() {
	view := g.GetView()
	payload, err := json.Marshal(view)
	if err != nil {
		log.Printf("marshal game view: %v", err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Printf("send state to player %s: %v", playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
