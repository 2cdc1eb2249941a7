package game

import (
	"path/filepath"
	"testing"
)

var (
	replayP1 = [LaneCount]string{"Alpha", "Beta", "Gamma"}
	replayP2 = [LaneCount]string{"Delta", "Epsilon", "Zeta"}
)

// playRecordedMatch plays a short deterministic match, recording every action
// into a sealed replay, and returns the replay with the final state.
func playRecordedMatch(t *testing.T, seed int64, moves int) (*Replay, *GameState) {
	t.Helper()
	e := NewEngine(nil, NewRand(seed), nil)
	st := e.NewGame(replayP1, replayP2, false)
	st = e.AdvanceAutomatically(st)
	rep := NewReplay("match-1", seed, replayP1, replayP2, false)

	for i := 0; i < moves; i++ {
		hand := st.Players[st.Turn].Hand
		if len(hand) == 0 {
			t.Fatal("ran out of cards mid-script")
		}
		act := PlayerAction{
			Type:     ActionPlayCard,
			Seat:     st.Turn,
			CardID:   hand[0].ID,
			Lane:     i % LaneCount,
			FaceDown: true,
		}
		st = e.ApplyPlayerAction(st, act)
		st = e.AdvanceAutomatically(st)
		rep.RecordAction(act)
	}
	rep.Seal(st)
	return rep, st
}

func TestReplayRebuildReproducesMatch(t *testing.T) {
	rep, final := playRecordedMatch(t, 42, 6)

	rebuilt, err := rep.Rebuild(nil, nil)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if Checksum(rebuilt) != Checksum(final) {
		t.Fatal("the rebuilt match diverged from the recorded one")
	}
}

func TestReplayRebuildDetectsDivergence(t *testing.T) {
	rep, _ := playRecordedMatch(t, 42, 4)
	rep.FinalDigest = "tampered"

	if _, err := rep.Rebuild(nil, nil); err == nil {
		t.Fatal("a digest mismatch must be reported")
	}
}

func TestReplaySaveLoadRoundTrip(t *testing.T) {
	rep, final := playRecordedMatch(t, 7, 4)
	dir := t.TempDir()

	if err := rep.SaveToFile(dir); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	loaded, err := LoadReplayFromFile(filepath.Join(dir, "match-1.replay.gz"))
	if err != nil {
		t.Fatalf("LoadReplayFromFile: %v", err)
	}

	if loaded.MatchID != rep.MatchID || loaded.Seed != rep.Seed || loaded.Size() != rep.Size() {
		t.Fatal("the loaded replay does not match the saved one")
	}
	rebuilt, err := loaded.Rebuild(nil, nil)
	if err != nil {
		t.Fatalf("Rebuild after load: %v", err)
	}
	if Checksum(rebuilt) != Checksum(final) {
		t.Fatal("the loaded replay does not reproduce the match")
	}
}

func TestReplayCursorStepping(t *testing.T) {
	rep, _ := playRecordedMatch(t, 11, 3)
	rep.Start()

	one := rep.Next(nil, nil)
	if Checksum(one) != Checksum(rep.StateAt(1, nil, nil)) {
		t.Fatal("Next did not land on the first action")
	}
	rep.Next(nil, nil)
	three := rep.Next(nil, nil)
	if Checksum(three) != Checksum(rep.StateAt(3, nil, nil)) {
		t.Fatal("the cursor must walk forward one action at a time")
	}
	if Checksum(rep.Next(nil, nil)) != Checksum(three) {
		t.Fatal("the cursor must stop at the final action")
	}
	back := rep.Previous(nil, nil)
	if Checksum(back) != Checksum(rep.StateAt(2, nil, nil)) {
		t.Fatal("Previous did not step the cursor back")
	}
}
