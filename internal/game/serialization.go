package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsettledState is returned when a snapshot is requested while a player
// choice or queued work is still outstanding. Pending actions hold live
// closures over the resolution flow and are not meant to cross a process
// boundary; callers persist between settled states instead.
var ErrUnsettledState = errors.New("game: cannot snapshot an unsettled state")

// Snapshot is the persistable form of a settled game state.
type Snapshot struct {
	Version    int             `json:"version"`
	Players    [2]playerRecord `json:"players"`
	Turn       Seat            `json:"turn"`
	Phase      Phase           `json:"phase"`
	Winner     *Seat           `json:"winner,omitempty"`
	UseControl bool            `json:"use_control"`
	Control    *Seat           `json:"control,omitempty"`
	Log        []LogEntry      `json:"log"`
}

type playerRecord struct {
	Hand          []*Card            `json:"hand"`
	Deck          []*Card            `json:"deck"`
	Discard       []DiscardedCard    `json:"discard"`
	Lanes         [LaneCount][]*Card `json:"lanes"`
	Protocols     [LaneCount]string  `json:"protocols"`
	Compiled      [LaneCount]bool    `json:"compiled"`
	CannotCompile bool               `json:"cannot_compile"`
	Stats         Stats              `json:"stats"`
}

const snapshotVersion = 1

// TakeSnapshot captures a settled state for persistence.
func TakeSnapshot(st *GameState) (*Snapshot, error) {
	if st.ActionRequired != nil || len(st.Queued) > 0 || st.QueuedOnPlay != nil || st.PendingCompileLane != nil {
		return nil, ErrUnsettledState
	}
	cp := st.Clone()
	snap := &Snapshot{
		Version:    snapshotVersion,
		Turn:       cp.Turn,
		Phase:      cp.Phase,
		Winner:     cp.Winner,
		UseControl: cp.UseControl,
		Control:    cp.Control,
		Log:        cp.Log,
	}
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		ps := cp.Players[seat]
		snap.Players[seat] = playerRecord{
			Hand:          ps.Hand,
			Deck:          ps.Deck,
			Discard:       ps.Discard,
			Lanes:         ps.Lanes,
			Protocols:     ps.Protocols,
			Compiled:      ps.Compiled,
			CannotCompile: ps.CannotCompile,
			Stats:         ps.Stats,
		}
	}
	return snap, nil
}

// RestoreSnapshot rebuilds a playable state from a snapshot. Derived lane
// values are recomputed rather than trusted from the stored form.
func RestoreSnapshot(snap *Snapshot) (*GameState, error) {
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("game: unsupported snapshot version %d", snap.Version)
	}
	st := &GameState{
		Turn:       snap.Turn,
		Phase:      snap.Phase,
		Winner:     snap.Winner,
		UseControl: snap.UseControl,
		Control:    snap.Control,
		Log:        snap.Log,
	}
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		rec := snap.Players[seat]
		st.Players[seat] = &PlayerState{
			Hand:          rec.Hand,
			Deck:          rec.Deck,
			Discard:       rec.Discard,
			Lanes:         rec.Lanes,
			Protocols:     rec.Protocols,
			Compiled:      rec.Compiled,
			CannotCompile: rec.CannotCompile,
			Stats:         rec.Stats,
		}
	}
	recalculateAllLaneValues(st)
	return st.Clone(), nil
}

// Encode serializes the snapshot to JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses a snapshot previously produced by Encode.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("game: decode snapshot: %w", err)
	}
	return &snap, nil
}

// Checksum computes a deterministic digest of the game-relevant state, used
// to detect divergence between replayed and recorded matches. The match log
// and stats are excluded: two states that play identically hash identically.
func Checksum(st *GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "GAME:%s|%s", st.Turn, st.Phase)
	if st.Winner != nil {
		fmt.Fprintf(&b, "|W=%s", *st.Winner)
	}
	if st.Control != nil {
		fmt.Fprintf(&b, "|C=%s", *st.Control)
	}
	b.WriteString("\n")
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		ps := st.Players[seat]
		fmt.Fprintf(&b, "SEAT:%s|%v|%v|%t\n", seat, ps.Protocols, ps.Compiled, ps.CannotCompile)
		writeCardList(&b, "HAND", ps.Hand)
		writeCardList(&b, "DECK", ps.Deck)
		for _, d := range ps.Discard {
			fmt.Fprintf(&b, "  DISCARD:%s|%d\n", d.Protocol, d.Value)
		}
		for lane := 0; lane < LaneCount; lane++ {
			writeCardList(&b, fmt.Sprintf("LANE%d", lane), ps.Lanes[lane])
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeCardList(b *strings.Builder, zone string, cards []*Card) {
	for _, c := range cards {
		fmt.Fprintf(b, "  %s:%s|%d|%t\n", zone, c.Protocol, c.Value, c.FaceUp)
	}
}
