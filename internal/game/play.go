package game

import (
	"fmt"

	"go.uber.org/zap"
)

// PlayerActionType discriminates the PlayerAction union.
type PlayerActionType string

const (
	// Turn actions, legal only for the active player with nothing pending.
	ActionPlayCard PlayerActionType = "play_card"
	ActionRefresh  PlayerActionType = "refresh"
	ActionCompile  PlayerActionType = "compile"

	// Resolution actions, each answering the matching pending action.
	ActionSelectCards    PlayerActionType = "select_cards"
	ActionSelectLane     PlayerActionType = "select_lane"
	ActionConfirm        PlayerActionType = "confirm"
	ActionSelectBranch   PlayerActionType = "select_branch"
	ActionNameNumber     PlayerActionType = "name_number"
	ActionNameProtocol   PlayerActionType = "name_protocol"
	ActionRearrange      PlayerActionType = "rearrange"
	ActionSwapProtocols  PlayerActionType = "swap_protocols"
	ActionDiscardToLimit PlayerActionType = "discard_to_limit"
)

// PlayerAction is one player input. Only the fields relevant to Type are
// read; the rest are ignored.
type PlayerAction struct {
	Type PlayerActionType `json:"type"`
	Seat Seat             `json:"seat"`

	CardID   string `json:"card_id,omitempty"`
	Lane     int    `json:"lane,omitempty"`
	FaceDown bool   `json:"face_down,omitempty"`

	CardIDs  []string       `json:"card_ids,omitempty"`
	Accept   bool           `json:"accept,omitempty"`
	Choice   int            `json:"choice,omitempty"`
	Number   int            `json:"number,omitempty"`
	Protocol string         `json:"protocol,omitempty"`
	Target   Seat           `json:"target,omitempty"`
	Order    [LaneCount]int `json:"order,omitempty"`
	Slots    [2]int         `json:"slots,omitempty"`
}

// ApplyPlayerAction applies one player input to the state and returns the
// resulting state. The input state is never mutated. An action that is not
// legal right now is a logged no-op: the same state content comes back and
// the caller can re-prompt. Turn progression is NOT driven here; callers
// advance explicitly with AdvanceAutomatically.
func (e *Engine) ApplyPlayerAction(state *GameState, act PlayerAction) *GameState {
	st := state.Clone()
	if st.Winner != nil {
		st.addSystemLog("The match is over; no further actions are accepted.")
		return st
	}

	switch act.Type {
	case ActionPlayCard, ActionRefresh, ActionCompile:
		if st.ActionRequired != nil {
			st.addSystemLog("Action rejected: a choice is still pending.")
			return st
		}
		if act.Seat != st.Turn {
			st.addSystemLog("Action rejected: it is not that player's turn.")
			return st
		}
		switch act.Type {
		case ActionPlayCard:
			e.playCard(st, act.Seat, act.CardID, act.Lane, act.FaceDown)
		case ActionRefresh:
			e.refresh(st, act.Seat)
		case ActionCompile:
			if st.Phase != PhaseCompile {
				st.addSystemLog("Compile rejected: not in the compile phase.")
				return st
			}
			e.compileLane(st, act.Lane)
		}
		return st
	}

	if st.ActionRequired == nil {
		st.addSystemLog("Choice rejected: nothing is pending.")
		return st
	}
	if act.Seat != st.ActionRequired.Actor() {
		st.addSystemLog("Choice rejected: it belongs to the other player.")
		return st
	}

	switch act.Type {
	case ActionSelectCards:
		e.resolveSelectCards(st, act.CardIDs)
	case ActionSelectLane:
		e.resolveSelectLane(st, act.Lane)
	case ActionConfirm:
		e.resolveConfirm(st, act.Accept)
	case ActionSelectBranch:
		e.resolveBranch(st, act.Choice)
	case ActionNameNumber:
		e.resolveNumber(st, act.Number)
	case ActionNameProtocol:
		e.resolveProtocol(st, act.Protocol)
	case ActionRearrange:
		e.resolveRearrange(st, act.Target, act.Order)
	case ActionSwapProtocols:
		e.resolveSwap(st, act.Slots[0], act.Slots[1])
	case ActionDiscardToLimit:
		e.resolveDiscardToLimit(st, act.CardIDs)
	default:
		e.log.Warn("unknown player action type", zap.String("type", string(act.Type)))
		st.addSystemLog("Unknown action type; ignored.")
	}
	return st
}

// playCard is the active player's main move: one card from hand onto a lane.
// Face-up plays must match the protocol of the player's own lane; face-down
// plays go anywhere.
func (e *Engine) playCard(st *GameState, seat Seat, cardID string, lane int, faceDown bool) {
	if st.Phase != PhaseAction {
		st.addSystemLog("Play rejected: not in the action phase.")
		return
	}
	if lane < 0 || lane >= LaneCount {
		st.addSystemLog("Play rejected: no such lane.")
		return
	}
	ps := st.Players[seat]
	i, c, ok := ps.findInHand(cardID)
	if !ok {
		st.addSystemLog("Play rejected: that card is not in hand.")
		return
	}
	if !faceDown && c.Protocol != ps.Protocols[lane] {
		st.addSystemLog(fmt.Sprintf("Play rejected: %s cards cannot be played face-up on %s.",
			c.Protocol, ps.Protocols[lane]))
		return
	}

	card := ps.removeFromHand(i)
	e.placeOnLane(st, seat, lane, card, !faceDown)
	ps.Stats.CardsPlayed++
	st.addLog(seat, fmt.Sprintf("%s played a card into lane %d.", seat, lane+1))

	if card.FaceUp {
		if st.ActionRequired != nil {
			// An on-cover reaction pre-empted the on-play trigger; it fires
			// once the board settles.
			st.QueuedOnPlay = &QueuedOnPlay{CardID: card.ID, Owner: seat, Lane: lane}
		} else {
			e.runCardTrigger(st, card.ID, TriggerOnPlay)
		}
	}
	e.settleBoard(st)
}

// refresh is the alternative move: draw back up to a full hand.
func (e *Engine) refresh(st *GameState, seat Seat) {
	if st.Phase != PhaseAction {
		st.addSystemLog("Refresh rejected: not in the action phase.")
		return
	}
	need := OpeningHandSize - len(st.Players[seat].Hand)
	if need <= 0 {
		st.addSystemLog("Refresh rejected: hand is already full.")
		return
	}
	st.addLog(seat, fmt.Sprintf("%s refreshed.", seat))
	e.drawCards(st, seat, need)
	e.settleBoard(st)
}
