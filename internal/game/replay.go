package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Replay records a match as its inputs: the deal (seed and protocol picks)
// plus the sequence of player actions. With the engine's deterministic RNG
// the whole match can be rebuilt from this record, and intermediate states
// can be stepped through for spectating or debugging.
type Replay struct {
	MatchID      string
	Seed         int64
	UseControl   bool
	P1Protocols  [LaneCount]string
	P2Protocols  [LaneCount]string
	Actions      []PlayerAction
	FinalDigest  string
	currentIndex int
	mu           sync.RWMutex
}

// NewReplay starts recording a match played from the given deal.
func NewReplay(matchID string, seed int64, p1, p2 [LaneCount]string, useControl bool) *Replay {
	return &Replay{
		MatchID:     matchID,
		Seed:        seed,
		UseControl:  useControl,
		P1Protocols: p1,
		P2Protocols: p2,
	}
}

// RecordAction appends one applied player action.
func (r *Replay) RecordAction(act PlayerAction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Actions = append(r.Actions, act)
}

// Seal stores the digest of the final state so a later rebuild can verify it
// reproduced the recorded match.
func (r *Replay) Seal(final *GameState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinalDigest = Checksum(final)
}

// Size returns the number of recorded actions.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Actions)
}

// Rebuild replays the full match and returns the final state. The engine is
// constructed fresh from the recorded seed; a digest mismatch against the
// sealed record is reported as an error but the rebuilt state is still
// returned.
func (r *Replay) Rebuild(logger *zap.Logger, library CardLibrary) (*GameState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e := NewEngine(logger, NewRand(r.Seed), library)
	st := e.NewGame(r.P1Protocols, r.P2Protocols, r.UseControl)
	st = e.AdvanceAutomatically(st)
	for _, act := range r.Actions {
		st = e.ApplyPlayerAction(st, act)
		st = e.AdvanceAutomatically(st)
	}
	if r.FinalDigest != "" && Checksum(st) != r.FinalDigest {
		return st, fmt.Errorf("game: replay %s diverged from recorded match", r.MatchID)
	}
	return st, nil
}

// StateAt replays the first n actions and returns the resulting state.
func (r *Replay) StateAt(n int, logger *zap.Logger, library CardLibrary) *GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n > len(r.Actions) {
		n = len(r.Actions)
	}
	e := NewEngine(logger, NewRand(r.Seed), library)
	st := e.NewGame(r.P1Protocols, r.P2Protocols, r.UseControl)
	st = e.AdvanceAutomatically(st)
	for _, act := range r.Actions[:n] {
		st = e.ApplyPlayerAction(st, act)
		st = e.AdvanceAutomatically(st)
	}
	return st
}

// Start resets the step cursor to the beginning.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentIndex = 0
}

// Next advances the cursor one action and rebuilds the state there.
func (r *Replay) Next(logger *zap.Logger, library CardLibrary) *GameState {
	r.mu.Lock()
	if r.currentIndex < len(r.Actions) {
		r.currentIndex++
	}
	n := r.currentIndex
	r.mu.Unlock()
	return r.StateAt(n, logger, library)
}

// Previous steps the cursor back one action and rebuilds the state there.
func (r *Replay) Previous(logger *zap.Logger, library CardLibrary) *GameState {
	r.mu.Lock()
	if r.currentIndex > 0 {
		r.currentIndex--
	}
	n := r.currentIndex
	r.mu.Unlock()
	return r.StateAt(n, logger, library)
}

// replayRecord is the on-disk form; the cursor and lock stay out of it.
type replayRecord struct {
	MatchID     string
	Seed        int64
	UseControl  bool
	P1Protocols [LaneCount]string
	P2Protocols [LaneCount]string
	Actions     []PlayerAction
	FinalDigest string
}

// SaveToFile writes the replay to a gzipped gob file in the directory.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	rec := replayRecord{
		MatchID:     r.MatchID,
		Seed:        r.Seed,
		UseControl:  r.UseControl,
		P1Protocols: r.P1Protocols,
		P2Protocols: r.P2Protocols,
		Actions:     append([]PlayerAction(nil), r.Actions...),
		FinalDigest: r.FinalDigest,
	}
	r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("game: create replay directory: %w", err)
	}
	path := filepath.Join(directory, rec.MatchID+".replay.gz")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("game: create replay file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(&rec); err != nil {
		zw.Close()
		return fmt.Errorf("game: encode replay: %w", err)
	}
	return zw.Close()
}

// LoadReplayFromFile reads a replay previously written by SaveToFile.
func LoadReplayFromFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("game: open replay file: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("game: read replay file: %w", err)
	}
	defer zr.Close()

	var rec replayRecord
	if err := gob.NewDecoder(zr).Decode(&rec); err != nil {
		return nil, fmt.Errorf("game: decode replay: %w", err)
	}
	return &Replay{
		MatchID:     rec.MatchID,
		Seed:        rec.Seed,
		UseControl:  rec.UseControl,
		P1Protocols: rec.P1Protocols,
		P2Protocols: rec.P2Protocols,
		Actions:     rec.Actions,
		FinalDigest: rec.FinalDigest,
	}, nil
}
