package game

import "testing"

func TestFaceDownCountsAsBaseValue(t *testing.T) {
	st := emptyState()
	place(st, SeatOne, 0, card("Alpha", 4, true, nil))
	place(st, SeatOne, 0, card("Alpha", 5, false, nil))

	if got := LaneTotal(st, SeatOne, 0); got != 6 {
		t.Fatalf("lane total = %d, want 6 (4 face-up + 2 face-down)", got)
	}
}

func TestSetToFixedModifierOverridesFaceDown(t *testing.T) {
	st := emptyState()
	mod := modifierAbility(PositionTop, ValueModifier{
		Kind:      ModifierSetToFixed,
		Value:     4,
		AppliesTo: OwnerSelf,
	})
	place(st, SeatOne, 0, card("Alpha", 3, true, mod))
	place(st, SeatOne, 0, card("Alpha", 1, false, nil))
	place(st, SeatTwo, 0, card("Delta", 1, false, nil))

	if got := LaneTotal(st, SeatOne, 0); got != 7 {
		t.Fatalf("own lane total = %d, want 7 (3 + fixed 4)", got)
	}
	if got := LaneTotal(st, SeatTwo, 0); got != 2 {
		t.Fatalf("opposing lane total = %d, want 2 (modifier applies to own side only)", got)
	}
}

func TestAddPerFaceDownModifier(t *testing.T) {
	st := emptyState()
	mod := modifierAbility(PositionTop, ValueModifier{
		Kind:      ModifierAddPerCondition,
		Value:     1,
		Condition: CondFaceDownInLane,
	})
	place(st, SeatOne, 1, card("Beta", 0, false, nil))
	place(st, SeatOne, 1, card("Beta", 1, false, nil))
	place(st, SeatOne, 1, card("Beta", 2, true, mod))

	// Two face-down at 2 each, the face-up 2, plus 1 per face-down.
	if got := LaneTotal(st, SeatOne, 1); got != 8 {
		t.Fatalf("lane total = %d, want 8", got)
	}
}

func TestAddToTotalRequiresCoveredAlly(t *testing.T) {
	st := emptyState()
	mod := modifierAbility(PositionTop, ValueModifier{
		Kind:                ModifierAddToTotal,
		Value:               1,
		RequiresCoveredAlly: true,
	})

	st1 := st.Clone()
	place(st1, SeatOne, 0, card("Alpha", 2, true, mod))
	if got := LaneTotal(st1, SeatOne, 0); got != 2 {
		t.Fatalf("alone: lane total = %d, want 2 (bonus needs an ally)", got)
	}

	st2 := st.Clone()
	place(st2, SeatOne, 0, card("Beta", 3, true, nil))
	place(st2, SeatOne, 0, card("Alpha", 2, true, mod))
	if got := LaneTotal(st2, SeatOne, 0); got != 6 {
		t.Fatalf("with ally: lane total = %d, want 6 (3 + 2 + 1)", got)
	}
}

func TestLaneValueClampedAtZero(t *testing.T) {
	st := emptyState()
	mod := modifierAbility(PositionTop, ValueModifier{
		Kind:  ModifierAddToTotal,
		Value: -5,
	})
	place(st, SeatOne, 2, card("Gamma", 1, true, mod))

	if got := LaneTotal(st, SeatOne, 2); got != 0 {
		t.Fatalf("lane total = %d, want 0 (clamped)", got)
	}
}

func TestCoveredMiddleModifierIsDormant(t *testing.T) {
	st := emptyState()
	mod := modifierAbility(PositionMiddle, ValueModifier{
		Kind:  ModifierAddToTotal,
		Value: 3,
	})
	place(st, SeatOne, 0, card("Alpha", 2, true, mod))

	if got := LaneTotal(st, SeatOne, 0); got != 5 {
		t.Fatalf("uncovered: lane total = %d, want 5", got)
	}

	place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	if got := LaneTotal(st, SeatOne, 0); got != 3 {
		t.Fatalf("covered: lane total = %d, want 3 (middle box is dormant)", got)
	}
}

func TestFaceDownModifierSourceContributesNothing(t *testing.T) {
	st := emptyState()
	mod := modifierAbility(PositionTop, ValueModifier{
		Kind:  ModifierAddToTotal,
		Value: 2,
	})
	place(st, SeatOne, 0, card("Alpha", 5, false, mod))

	if got := LaneTotal(st, SeatOne, 0); got != 2 {
		t.Fatalf("lane total = %d, want 2 (face-down card is a 2, modifier off)", got)
	}
}

func TestEffectiveCardValueForPresentation(t *testing.T) {
	st := emptyState()
	up := place(st, SeatOne, 0, card("Alpha", 5, true, nil))
	down := place(st, SeatTwo, 0, card("Delta", 5, false, nil))

	if got := EffectiveCardValue(st, up.ID); got != 5 {
		t.Fatalf("face-up value = %d, want 5", got)
	}
	if got := EffectiveCardValue(st, down.ID); got != FaceDownValue {
		t.Fatalf("face-down value = %d, want %d", got, FaceDownValue)
	}
	if got := EffectiveCardValue(st, "no-such-card"); got != 0 {
		t.Fatalf("missing card value = %d, want 0", got)
	}
}
