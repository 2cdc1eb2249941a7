package protocols

import "github.com/TheApo/compile-sub002/internal/game"

// Shorthand constructors for authoring ability definitions. The engine fills
// in box positions when it reads a set, so only kind, trigger and params are
// given here.

func eff(kind game.EffectKind, trig game.Trigger, p game.EffectParams) game.EffectDefinition {
	return game.EffectDefinition{Kind: kind, Trigger: trig, Params: p}
}

func then(primary, followUp game.EffectDefinition) game.EffectDefinition {
	primary.Conditional = &game.Conditional{Type: game.ConditionalThen, Effect: &followUp}
	return primary
}

func ifExecuted(primary, followUp game.EffectDefinition) game.EffectDefinition {
	primary.Conditional = &game.Conditional{Type: game.ConditionalIfExecuted, Effect: &followUp}
	return primary
}

func top(defs ...game.EffectDefinition) *game.AbilitySet {
	return &game.AbilitySet{Top: defs}
}

func middle(defs ...game.EffectDefinition) *game.AbilitySet {
	return &game.AbilitySet{Middle: defs}
}

func bottom(defs ...game.EffectDefinition) *game.AbilitySet {
	return &game.AbilitySet{Bottom: defs}
}

func passiveModifier(m game.ValueModifier) game.EffectDefinition {
	return game.EffectDefinition{
		Kind:    game.KindValueModifier,
		Trigger: game.TriggerPassive,
		Params:  game.EffectParams{Modifier: &m},
	}
}

// builtin returns the stock protocol sets. Card values run 0..5; index in
// the array is the card's face value.
func builtin() map[string][CardsPerProtocol]*game.AbilitySet {
	return map[string][CardsPerProtocol]*game.AbilitySet{
		"Fire":     fireProtocol(),
		"Water":    waterProtocol(),
		"Life":     lifeProtocol(),
		"Death":    deathProtocol(),
		"Speed":    speedProtocol(),
		"Metal":    metalProtocol(),
		"Plague":   plagueProtocol(),
		"Psychic":  psychicProtocol(),
		"Darkness": darknessProtocol(),
		"Light":    lightProtocol(),
	}
}

func fireProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: Draw 1. Then flip 1 card.
		middle(then(
			eff(game.KindDraw, game.TriggerOnPlay, game.EffectParams{Count: 1}),
			eff(game.KindFlip, game.TriggerOnPlay, game.EffectParams{Count: 1}),
		)),
		// 1: Your opponent discards 2 cards.
		middle(eff(game.KindDiscard, game.TriggerOnPlay, game.EffectParams{
			Count: 2, Actor: game.OwnerOpponent,
		})),
		// 2: You may delete 1 face-down card.
		middle(eff(game.KindDelete, game.TriggerOnPlay, game.EffectParams{
			Count: 1, Optional: true,
			Target: game.TargetFilter{Face: game.FaceDown},
		})),
		// 3: End of turn: draw 1 card.
		bottom(eff(game.KindDraw, game.TriggerEndOfTurn, game.EffectParams{Count: 1})),
		// 4: Discard up to 3 cards. Then draw that many.
		middle(then(
			eff(game.KindDiscard, game.TriggerOnPlay, game.EffectParams{
				Count: 3, CountMode: game.CountUpTo,
			}),
			eff(game.KindDraw, game.TriggerOnPlay, game.EffectParams{
				CountMode: game.CountDiscarded,
			}),
		)),
		// 5: Delete 1 card in this lane.
		middle(eff(game.KindDelete, game.TriggerOnPlay, game.EffectParams{
			Count: 1, Scope: game.ScopeThisLane,
		})),
	}
}

func waterProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: Return 1 card.
		middle(eff(game.KindReturn, game.TriggerOnPlay, game.EffectParams{Count: 1})),
		// 1: Shift 1 of your face-down cards.
		middle(eff(game.KindShift, game.TriggerOnPlay, game.EffectParams{
			Count:  1,
			Target: game.TargetFilter{Owner: game.OwnerSelf, Face: game.FaceDown},
		})),
		// 2: Your face-down cards in this lane count as 4.
		top(passiveModifier(game.ValueModifier{
			Kind: game.ModifierSetToFixed, Value: 4, AppliesTo: game.OwnerSelf,
		})),
		// 3: When this card is covered: draw 1 card.
		bottom(eff(game.KindDraw, game.TriggerOnCover, game.EffectParams{Count: 1})),
		// 4: Play the top card of your deck face-down in another lane.
		middle(eff(game.KindPlay, game.TriggerOnPlay, game.EffectParams{
			FromDeck: true, FaceDown: true, Scope: game.ScopeOtherLanes,
		})),
		// 5: Return up to 2 cards.
		middle(eff(game.KindReturn, game.TriggerOnPlay, game.EffectParams{
			Count: 2, CountMode: game.CountUpTo,
		})),
	}
}

func lifeProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: Flip 1 card. If you do, draw 1 card.
		middle(ifExecuted(
			eff(game.KindFlip, game.TriggerOnPlay, game.EffectParams{Count: 1}),
			eff(game.KindDraw, game.TriggerOnPlay, game.EffectParams{Count: 1}),
		)),
		// 1: Start of turn: you may play the top card of your deck face-down
		// in this lane.
		middle(eff(game.KindPlay, game.TriggerStartOfTurn, game.EffectParams{
			FromDeck: true, FaceDown: true, Optional: true, Scope: game.ScopeThisLane,
		})),
		// 2: Reveal your opponent's hand.
		middle(eff(game.KindReveal, game.TriggerOnPlay, game.EffectParams{})),
		// 3: This lane counts +1 while you have another protocol's face-up
		// card beneath a card in it.
		top(passiveModifier(game.ValueModifier{
			Kind: game.ModifierAddToTotal, Value: 1, RequiresCoveredAlly: true,
		})),
		// 4: After your opponent draws: draw 1 card.
		bottom(eff(game.KindDraw, game.TriggerAfterDraw, game.EffectParams{Count: 1})),
		// 5: Take the top card of your opponent's deck.
		middle(eff(game.KindTake, game.TriggerOnPlay, game.EffectParams{FromDeck: true})),
	}
}

func deathProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: Delete 1 card.
		middle(eff(game.KindDelete, game.TriggerOnPlay, game.EffectParams{Count: 1})),
		// 1: You may delete the highest-value opposing card.
		middle(eff(game.KindDelete, game.TriggerOnPlay, game.EffectParams{
			Count: 1, Optional: true, Auto: true,
			Target: game.TargetFilter{Owner: game.OwnerOpponent, Selector: game.SelectHighest},
		})),
		// 2: After a card of yours is deleted by the opponent: draw 1 card.
		bottom(eff(game.KindDraw, game.TriggerAfterDelete, game.EffectParams{Count: 1})),
		// 3: Name a value. Delete every face-up card of that value.
		middle(eff(game.KindDelete, game.TriggerOnPlay, game.EffectParams{
			AskValue: true, CountMode: game.CountAll,
			Target: game.TargetFilter{Face: game.FaceUp, Selector: game.SelectEquals},
		})),
		// 4: Before this lane's compile deletes it: delete 1 opposing card.
		bottom(eff(game.KindDelete, game.TriggerBeforeCompileDelete, game.EffectParams{
			Count: 1, Target: game.TargetFilter{Owner: game.OwnerOpponent},
		})),
		// 5: Delete all cards in 1 lane of your choice.
		middle(eff(game.KindDeleteAllInLane, game.TriggerOnPlay, game.EffectParams{})),
	}
}

func speedProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: Shift 1 card.
		middle(eff(game.KindShift, game.TriggerOnPlay, game.EffectParams{Count: 1})),
		// 1: When this lane compiles, this card shifts instead of being
		// deleted.
		top(game.EffectDefinition{Kind: game.KindCompileShift, Trigger: game.TriggerPassive}),
		// 2: Shift 1 opposing card. Then flip it.
		middle(then(
			eff(game.KindShift, game.TriggerOnPlay, game.EffectParams{
				Count: 1, Target: game.TargetFilter{Owner: game.OwnerOpponent},
			}),
			eff(game.KindFlip, game.TriggerOnPlay, game.EffectParams{UsePrevTarget: true}),
		)),
		// 3: You have no hand limit.
		middle(game.EffectDefinition{Kind: game.KindExemptHandLimit, Trigger: game.TriggerPassive}),
		// 4: Play 1 card from your hand face-down in another lane.
		middle(eff(game.KindPlay, game.TriggerOnPlay, game.EffectParams{
			FaceDown: true, Scope: game.ScopeOtherLanes,
		})),
		// 5: Start of turn: you may shift 1 of your cards.
		middle(eff(game.KindShift, game.TriggerStartOfTurn, game.EffectParams{
			Count: 1, Optional: true, Target: game.TargetFilter{Owner: game.OwnerSelf},
		})),
	}
}

func metalProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: This lane counts +2.
		top(passiveModifier(game.ValueModifier{
			Kind: game.ModifierAddToTotal, Value: 2,
		})),
		// 1: Your opponent cannot compile this turn.
		middle(eff(game.KindBlockCompile, game.TriggerOnPlay, game.EffectParams{})),
		// 2: When this card is covered: your opponent discards 1 card.
		bottom(eff(game.KindDiscard, game.TriggerOnCover, game.EffectParams{
			Count: 1, Actor: game.OwnerOpponent,
		})),
		// 3: Either draw 1 card per face-down card, or flip 1 card.
		middle(eff(game.KindChoice, game.TriggerOnPlay, game.EffectParams{
			Branches: [2]*game.EffectDefinition{
				{Kind: game.KindDraw, Trigger: game.TriggerOnPlay,
					Params: game.EffectParams{CountMode: game.CountPerFaceDown}},
				{Kind: game.KindFlip, Trigger: game.TriggerOnPlay,
					Params: game.EffectParams{Count: 1}},
			},
			Labels: [2]string{"Draw per face-down card", "Flip 1 card"},
		})),
		// 4: This lane counts +1 per face-down card in it.
		top(passiveModifier(game.ValueModifier{
			Kind: game.ModifierAddPerCondition, Value: 1, Condition: game.CondFaceDownInLane,
		})),
		// 5: Swap 2 of your protocols.
		middle(eff(game.KindSwapProtocols, game.TriggerOnPlay, game.EffectParams{
			Target: game.TargetFilter{Owner: game.OwnerSelf},
		})),
	}
}

func plagueProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: Your opponent discards 1 card. If they do, you draw 1 card.
		middle(ifExecuted(
			eff(game.KindDiscard, game.TriggerOnPlay, game.EffectParams{
				Count: 1, Actor: game.OwnerOpponent,
			}),
			eff(game.KindDraw, game.TriggerOnPlay, game.EffectParams{Count: 1}),
		)),
		// 1: After your opponent discards: delete 1 of their face-down cards.
		bottom(eff(game.KindDelete, game.TriggerAfterDiscard, game.EffectParams{
			Count: 1, Target: game.TargetFilter{Owner: game.OwnerOpponent, Face: game.FaceDown},
		})),
		// 2: Your opponent discards 1 card at random.
		middle(eff(game.KindDiscard, game.TriggerOnPlay, game.EffectParams{
			Count: 1, Actor: game.OwnerOpponent, Random: true,
		})),
		// 3: End of turn: your opponent discards 1 card.
		bottom(eff(game.KindDiscard, game.TriggerEndOfTurn, game.EffectParams{
			Count: 1, Actor: game.OwnerOpponent,
		})),
		// 4: Give 1 card to your opponent. Then draw 2 cards.
		middle(then(
			eff(game.KindGive, game.TriggerOnPlay, game.EffectParams{Count: 1}),
			eff(game.KindDraw, game.TriggerOnPlay, game.EffectParams{Count: 2}),
		)),
		// 5: Delete 1 card in each other lane.
		middle(eff(game.KindDelete, game.TriggerOnPlay, game.EffectParams{
			Count: 1, Scope: game.ScopeEachOtherLane,
		})),
	}
}

func psychicProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: Reveal your opponent's hand.
		middle(eff(game.KindReveal, game.TriggerOnPlay, game.EffectParams{})),
		// 1: Name a protocol. Return every face-up card of that protocol.
		middle(eff(game.KindReturn, game.TriggerOnPlay, game.EffectParams{
			AskProtocol: true, CountMode: game.CountAll,
			Target: game.TargetFilter{Face: game.FaceUp},
		})),
		// 2: Rearrange your opponent's protocols.
		middle(eff(game.KindRearrangeProtocols, game.TriggerOnPlay, game.EffectParams{
			Target: game.TargetFilter{Owner: game.OwnerOpponent},
		})),
		// 3: Take 1 random card from your opponent's hand.
		middle(eff(game.KindTake, game.TriggerOnPlay, game.EffectParams{})),
		// 4: Reveal 1 face-down card. Then you may flip it.
		middle(then(
			eff(game.KindReveal, game.TriggerOnPlay, game.EffectParams{
				Count: 1, Target: game.TargetFilter{Face: game.FaceDown},
			}),
			eff(game.KindFlip, game.TriggerOnPlay, game.EffectParams{
				Count: 1, Optional: true, Target: game.TargetFilter{Face: game.FaceDown},
			}),
		)),
		// 5: Rearrange your protocols.
		middle(eff(game.KindRearrangeProtocols, game.TriggerOnPlay, game.EffectParams{
			Target: game.TargetFilter{Owner: game.OwnerSelf},
		})),
	}
}

func darknessProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: Flip 1 card face-down.
		middle(eff(game.KindFlip, game.TriggerOnPlay, game.EffectParams{
			Count: 1, Directed: true, FaceDown: true,
			Target: game.TargetFilter{Face: game.FaceUp},
		})),
		// 1: You may flip 1 opposing face-up card face-down.
		middle(eff(game.KindFlip, game.TriggerOnPlay, game.EffectParams{
			Count: 1, Optional: true, Directed: true, FaceDown: true,
			Target: game.TargetFilter{Owner: game.OwnerOpponent, Face: game.FaceUp},
		})),
		// 2: Your face-down cards in this lane count as 3.
		top(passiveModifier(game.ValueModifier{
			Kind: game.ModifierSetToFixed, Value: 3, AppliesTo: game.OwnerSelf,
		})),
		// 3: Flip cards equal to this card's value.
		middle(eff(game.KindFlip, game.TriggerOnPlay, game.EffectParams{
			CountMode: game.CountEqualValue,
		})),
		// 4: After your opponent compiles: draw 2 cards.
		bottom(eff(game.KindDraw, game.TriggerAfterOpponentCompile, game.EffectParams{Count: 2})),
		// 5: Delete 1 face-down card. If you do, draw 1 card.
		middle(ifExecuted(
			eff(game.KindDelete, game.TriggerOnPlay, game.EffectParams{
				Count: 1, Target: game.TargetFilter{Face: game.FaceDown},
			}),
			eff(game.KindDraw, game.TriggerOnPlay, game.EffectParams{Count: 1}),
		)),
	}
}

func lightProtocol() [CardsPerProtocol]*game.AbilitySet {
	return [CardsPerProtocol]*game.AbilitySet{
		// 0: Flip 1 face-down card face-up.
		middle(eff(game.KindFlip, game.TriggerOnPlay, game.EffectParams{
			Count: 1, Directed: true,
			Target: game.TargetFilter{Face: game.FaceDown},
		})),
		// 1: Reveal 1 face-down card.
		middle(eff(game.KindReveal, game.TriggerOnPlay, game.EffectParams{
			Count: 1, Target: game.TargetFilter{Face: game.FaceDown},
		})),
		// 2: Start of turn: draw 1 card. Then discard 1 card.
		middle(then(
			eff(game.KindDraw, game.TriggerStartOfTurn, game.EffectParams{Count: 1}),
			eff(game.KindDiscard, game.TriggerStartOfTurn, game.EffectParams{Count: 1}),
		)),
		// 3: After you compile: draw 2 cards.
		bottom(eff(game.KindDraw, game.TriggerAfterCompile, game.EffectParams{Count: 2})),
		// 4: Flip every face-down card in this lane.
		middle(eff(game.KindFlip, game.TriggerOnPlay, game.EffectParams{
			CountMode: game.CountAll, Scope: game.ScopeThisLane,
			Target: game.TargetFilter{Face: game.FaceDown},
		})),
		// 5: Either your opponent discards 2 cards, or you draw 2 cards.
		middle(eff(game.KindChoice, game.TriggerOnPlay, game.EffectParams{
			Branches: [2]*game.EffectDefinition{
				{Kind: game.KindDiscard, Trigger: game.TriggerOnPlay,
					Params: game.EffectParams{Count: 2, Actor: game.OwnerOpponent}},
				{Kind: game.KindDraw, Trigger: game.TriggerOnPlay,
					Params: game.EffectParams{Count: 2}},
			},
			Labels: [2]string{"Opponent discards 2", "Draw 2"},
		})),
	}
}
