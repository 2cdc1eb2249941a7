package game

import (
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RNG is the random source used for shuffling and "take a random card"
// effects. It is an interface so tests can inject a deterministic source.
type RNG interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a math/rand backed RNG seeded with the given seed.
func NewRand(seed int64) RNG {
	return rand.New(rand.NewSource(seed))
}

// CardLibrary resolves a protocol name and face value to the printed ability
// set, used when anonymous discarded cards re-enter play as deck cards.
type CardLibrary interface {
	AbilitySetFor(protocol string, value int) *AbilitySet
}

// Engine evaluates player actions against game states. It holds no match
// state of its own: every operation takes a GameState value and returns a new
// one, leaving the input untouched.
type Engine struct {
	log     *zap.Logger
	rng     RNG
	library CardLibrary
}

// NewEngine creates an engine with the given diagnostic logger, random
// source and card library. A nil logger is replaced with a no-op logger.
func NewEngine(logger *zap.Logger, rng RNG, library CardLibrary) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{log: logger, rng: rng, library: library}
}

// newCard mints a card instance with a fresh id and its printed abilities.
// Ids are drawn from the match RNG so a replay rebuilt from the same seed
// reproduces them and recorded actions stay addressable.
func (e *Engine) newCard(protocol string, value int) *Card {
	c := &Card{ID: e.newCardID(), Protocol: protocol, Value: value}
	if e.library != nil {
		c.Ability = e.library.AbilitySetFor(protocol, value)
	}
	return c
}

func (e *Engine) newCardID() string {
	var b [16]byte
	for i := range b {
		b[i] = byte(e.rng.Intn(256))
	}
	u, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}
