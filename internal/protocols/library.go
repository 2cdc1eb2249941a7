// Package protocols holds the printed card content: the built-in protocol
// sets and a loader for custom ones. The game engine itself never hard-codes
// an ability; everything it resolves comes from a Library.
package protocols

import (
	"fmt"
	"sort"
	"sync"

	"github.com/TheApo/compile-sub002/internal/game"
)

// CardsPerProtocol is the number of cards a protocol contributes to a deck,
// one per face value 0 through 5.
const CardsPerProtocol = 6

// Library maps protocol names to their per-value ability sets. It implements
// game.CardLibrary and is safe for concurrent use once built.
type Library struct {
	mu   sync.RWMutex
	sets map[string][CardsPerProtocol]*game.AbilitySet
}

// NewLibrary returns a library preloaded with the built-in protocols.
func NewLibrary() *Library {
	return &Library{sets: builtin()}
}

// AbilitySetFor returns the printed ability set for one card, or nil for an
// unknown protocol or out-of-range value. Unknown cards end up vanilla,
// which is the engine's fail-soft expectation.
func (l *Library) AbilitySetFor(protocol string, value int) *game.AbilitySet {
	if value < 0 || value >= CardsPerProtocol {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	set, ok := l.sets[protocol]
	if !ok {
		return nil
	}
	return set[value]
}

// Register adds or replaces a protocol. The set must define all six values.
func (l *Library) Register(name string, cards [CardsPerProtocol]*game.AbilitySet) error {
	if name == "" {
		return fmt.Errorf("protocols: protocol name must not be empty")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sets[name] = cards
	return nil
}

// Names lists every known protocol in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.sets))
	for name := range l.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the protocol is known.
func (l *Library) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.sets[name]
	return ok
}
