package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TheApo/compile-sub002/internal/game"
	"github.com/TheApo/compile-sub002/internal/protocols"
	"github.com/TheApo/compile-sub002/internal/repository"
)

// Match is one running game: its engine, its authoritative state and the
// replay record. All access goes through the manager's per-match lock.
type Match struct {
	ID     string
	engine *game.Engine
	state  *game.GameState
	replay *game.Replay
	mu     sync.Mutex
}

// MatchManager creates and drives matches. Persistence is optional: with a
// nil repository matches live in memory only.
type MatchManager struct {
	log        *zap.Logger
	library    *protocols.Library
	repo       *repository.MatchRepository
	useControl bool
	maxMatches int

	mu      sync.RWMutex
	matches map[string]*Match
}

// NewMatchManager creates the manager. repo may be nil.
func NewMatchManager(logger *zap.Logger, library *protocols.Library, repo *repository.MatchRepository, useControl bool, maxMatches int) *MatchManager {
	return &MatchManager{
		log:        logger,
		library:    library,
		repo:       repo,
		useControl: useControl,
		maxMatches: maxMatches,
		matches:    make(map[string]*Match),
	}
}

// Create deals a new match from the two protocol picks and runs the opening
// turn progression.
func (m *MatchManager) Create(p1, p2 [game.LaneCount]string, seed int64) (*Match, error) {
	for _, name := range append(p1[:], p2[:]...) {
		if !m.library.Has(name) {
			return nil, fmt.Errorf("server: unknown protocol %q", name)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxMatches > 0 && len(m.matches) >= m.maxMatches {
		return nil, fmt.Errorf("server: match limit reached")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	id := uuid.NewString()
	engine := m.newEngine(id, seed)
	st := engine.NewGame(p1, p2, m.useControl)
	st = engine.AdvanceAutomatically(st)

	match := &Match{
		ID:     id,
		engine: engine,
		state:  st,
		replay: game.NewReplay(id, seed, p1, p2, m.useControl),
	}
	m.matches[id] = match
	m.log.Info("match created",
		zap.String("match_id", id),
		zap.Int64("seed", seed),
		zap.Strings("p1_protocols", p1[:]),
		zap.Strings("p2_protocols", p2[:]))
	return match, nil
}

func (m *MatchManager) newEngine(matchID string, seed int64) *game.Engine {
	return game.NewEngine(
		m.log.Named("engine").With(zap.String("match_id", matchID)),
		game.NewRand(seed),
		m.library,
	)
}

// Get looks up a running match.
func (m *MatchManager) Get(id string) (*Match, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	match, ok := m.matches[id]
	return match, ok
}

// Apply runs one player action against a match, advances the turn machinery
// as far as it will go on its own, and persists the result when it settles.
func (m *MatchManager) Apply(ctx context.Context, matchID string, act game.PlayerAction) (*game.GameState, error) {
	match, ok := m.Get(matchID)
	if !ok {
		return nil, fmt.Errorf("server: no such match %s", matchID)
	}
	match.mu.Lock()
	defer match.mu.Unlock()

	st := match.engine.ApplyPlayerAction(match.state, act)
	st = match.engine.AdvanceAutomatically(st)
	match.state = st
	match.replay.RecordAction(act)

	if st.Winner != nil {
		match.replay.Seal(st)
		m.log.Info("match finished",
			zap.String("match_id", matchID),
			zap.String("winner", st.Winner.String()))
	}
	m.persist(ctx, matchID, st)
	return st, nil
}

// State returns the current authoritative state of a match.
func (m *MatchManager) State(matchID string) (*game.GameState, error) {
	match, ok := m.Get(matchID)
	if !ok {
		return nil, fmt.Errorf("server: no such match %s", matchID)
	}
	match.mu.Lock()
	defer match.mu.Unlock()
	return match.state, nil
}

// Replay returns the replay record of a match.
func (m *MatchManager) Replay(matchID string) (*game.Replay, error) {
	match, ok := m.Get(matchID)
	if !ok {
		return nil, fmt.Errorf("server: no such match %s", matchID)
	}
	return match.replay, nil
}

// Remove drops a match from memory.
func (m *MatchManager) Remove(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, matchID)
}

// Count returns the number of running matches.
func (m *MatchManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matches)
}

// persist snapshots the match when the state is settled. Mid-resolution
// states are skipped silently; persistence catches up at the next settle.
func (m *MatchManager) persist(ctx context.Context, matchID string, st *game.GameState) {
	if m.repo == nil {
		return
	}
	if err := m.repo.Save(ctx, matchID, st); err != nil {
		if errors.Is(err, game.ErrUnsettledState) {
			return
		}
		m.log.Warn("failed to persist match",
			zap.String("match_id", matchID), zap.Error(err))
	}
}
