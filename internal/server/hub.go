package server

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/TheApo/compile-sub002/internal/game"
)

// WSMessage is the envelope for everything crossing a websocket connection.
type WSMessage struct {
	Type    string             `json:"type"`
	MatchID string             `json:"match_id,omitempty"`
	Seat    *game.Seat         `json:"seat,omitempty"`
	P1      []string           `json:"p1_protocols,omitempty"`
	P2      []string           `json:"p2_protocols,omitempty"`
	Seed    int64              `json:"seed,omitempty"`
	Action  *game.PlayerAction `json:"action,omitempty"`
	Error   string             `json:"error,omitempty"`
	Data    any                `json:"data,omitempty"`
}

// Hub routes websocket clients to matches. Registration and broadcast run on
// a single goroutine so the client set needs no lock.
type Hub struct {
	log        *zap.Logger
	matches    *MatchManager
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan string
}

// NewHub creates the hub around a match manager.
func NewHub(logger *zap.Logger, matches *MatchManager) *Hub {
	return &Hub{
		log:        logger,
		matches:    matches,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan string, 16),
	}
}

// Run processes client registration until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug("client registered")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Debug("client unregistered",
					zap.String("match_id", client.matchID))
			}
		case matchID := <-h.broadcast:
			h.broadcastMatch(matchID)
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// handleMessage dispatches one parsed client message.
func (h *Hub) handleMessage(ctx context.Context, client *Client, msg WSMessage) {
	switch msg.Type {
	case "create_match":
		h.handleCreate(client, msg)
	case "join_match":
		h.handleJoin(client, msg)
	case "action":
		h.handleAction(ctx, client, msg)
	case "state":
		h.sendState(client)
	default:
		client.sendError("unknown message type: " + msg.Type)
	}
}

func (h *Hub) handleCreate(client *Client, msg WSMessage) {
	var p1, p2 [game.LaneCount]string
	if len(msg.P1) != game.LaneCount || len(msg.P2) != game.LaneCount {
		client.sendError("each player picks exactly three protocols")
		return
	}
	copy(p1[:], msg.P1)
	copy(p2[:], msg.P2)

	match, err := h.matches.Create(p1, p2, msg.Seed)
	if err != nil {
		client.sendError(err.Error())
		return
	}
	client.matchID = match.ID
	client.seat = game.SeatOne
	h.sendState(client)
}

func (h *Hub) handleJoin(client *Client, msg WSMessage) {
	if _, ok := h.matches.Get(msg.MatchID); !ok {
		client.sendError("no such match: " + msg.MatchID)
		return
	}
	client.matchID = msg.MatchID
	client.seat = game.SeatTwo
	if msg.Seat != nil {
		client.seat = *msg.Seat
	}
	h.sendState(client)
}

func (h *Hub) handleAction(ctx context.Context, client *Client, msg WSMessage) {
	if client.matchID == "" || msg.Action == nil {
		client.sendError("join a match and include an action")
		return
	}
	act := *msg.Action
	// The connection's seat is authoritative; a client cannot act for the
	// other player by forging the field.
	act.Seat = client.seat

	if _, err := h.matches.Apply(ctx, client.matchID, act); err != nil {
		client.sendError(err.Error())
		return
	}
	h.broadcast <- client.matchID
}

// sendState pushes the client its current redacted view.
func (h *Hub) sendState(client *Client) {
	st, err := h.matches.State(client.matchID)
	if err != nil {
		client.sendError(err.Error())
		return
	}
	view := BuildView(client.matchID, st, client.seat)
	data, err := json.Marshal(WSMessage{Type: "match_state", MatchID: client.matchID, Data: view})
	if err != nil {
		h.log.Error("failed to encode view", zap.Error(err))
		return
	}
	client.trySend(data)
}

// broadcastMatch pushes fresh per-seat views to every client in the match.
func (h *Hub) broadcastMatch(matchID string) {
	st, err := h.matches.State(matchID)
	if err != nil {
		return
	}
	for client := range h.clients {
		if client.matchID != matchID {
			continue
		}
		view := BuildView(matchID, st, client.seat)
		data, err := json.Marshal(WSMessage{Type: "match_state", MatchID: matchID, Data: view})
		if err != nil {
			continue
		}
		client.trySend(data)
	}
}
