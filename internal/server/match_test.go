package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TheApo/compile-sub002/internal/game"
	"github.com/TheApo/compile-sub002/internal/protocols"
)

var (
	testP1 = [game.LaneCount]string{"Fire", "Water", "Life"}
	testP2 = [game.LaneCount]string{"Death", "Speed", "Metal"}
)

func newTestManager(maxMatches int) *MatchManager {
	return NewMatchManager(zap.NewNop(), protocols.NewLibrary(), nil, false, maxMatches)
}

func TestCreateRejectsUnknownProtocol(t *testing.T) {
	m := newTestManager(0)
	_, err := m.Create([game.LaneCount]string{"Fire", "Water", "Nonsense"}, testP2, 1)
	assert.ErrorContains(t, err, "unknown protocol")
}

func TestCreateAndApply(t *testing.T) {
	m := newTestManager(0)
	match, err := m.Create(testP1, testP2, 42)
	require.NoError(t, err)

	st, err := m.State(match.ID)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseAction, st.Phase)
	assert.Equal(t, game.SeatOne, st.Turn)
	require.Len(t, st.Players[game.SeatOne].Hand, game.OpeningHandSize)

	act := game.PlayerAction{
		Type:     game.ActionPlayCard,
		Seat:     game.SeatOne,
		CardID:   st.Players[game.SeatOne].Hand[0].ID,
		Lane:     0,
		FaceDown: true,
	}
	next, err := m.Apply(context.Background(), match.ID, act)
	require.NoError(t, err)
	assert.Len(t, next.Players[game.SeatOne].Hand, game.OpeningHandSize-1,
		"the played card must leave the hand")

	rep, err := m.Replay(match.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Size())
}

func TestApplyUnknownMatch(t *testing.T) {
	m := newTestManager(0)
	_, err := m.Apply(context.Background(), "missing", game.PlayerAction{})
	assert.ErrorContains(t, err, "no such match")
}

func TestMatchLimit(t *testing.T) {
	m := newTestManager(1)
	_, err := m.Create(testP1, testP2, 1)
	require.NoError(t, err)

	_, err = m.Create(testP1, testP2, 2)
	assert.ErrorContains(t, err, "match limit")
}

func TestRemoveAndCount(t *testing.T) {
	m := newTestManager(0)
	match, err := m.Create(testP1, testP2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	m.Remove(match.ID)
	assert.Equal(t, 0, m.Count())
	_, ok := m.Get(match.ID)
	assert.False(t, ok)
}
