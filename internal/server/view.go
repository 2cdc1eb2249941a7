package server

import (
	"github.com/TheApo/compile-sub002/internal/game"
)

// CardView is a card as one player is allowed to see it. Opposing face-down
// board cards and all deck cards keep their identity hidden.
type CardView struct {
	ID       string `json:"id"`
	Protocol string `json:"protocol,omitempty"`
	Value    int    `json:"value"`
	FaceUp   bool   `json:"face_up"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// SideView is one seat's public board plus whatever private zones the
// viewing player may see.
type SideView struct {
	Protocols  [game.LaneCount]string     `json:"protocols"`
	Compiled   [game.LaneCount]bool       `json:"compiled"`
	LaneValues [game.LaneCount]int        `json:"lane_values"`
	Lanes      [game.LaneCount][]CardView `json:"lanes"`
	Hand       []CardView                 `json:"hand,omitempty"`
	HandCount  int                        `json:"hand_count"`
	DeckCount  int                        `json:"deck_count"`
	Discard    []game.DiscardedCard       `json:"discard"`
	Stats      game.Stats                 `json:"stats"`
}

// PendingView describes the choice the match is waiting on. Choice details
// are only included for the player who must make it.
type PendingView struct {
	Actor        string   `json:"actor"`
	Yours        bool     `json:"yours"`
	Type         string   `json:"type,omitempty"`
	Candidates   []string `json:"candidates,omitempty"`
	Count        int      `json:"count,omitempty"`
	UpTo         bool     `json:"up_to,omitempty"`
	AllowedLanes []int    `json:"allowed_lanes,omitempty"`
	Labels       []string `json:"labels,omitempty"`
}

// MatchView is the full redacted state sent to one connected player.
type MatchView struct {
	MatchID string          `json:"match_id"`
	Seat    game.Seat       `json:"seat"`
	Turn    game.Seat       `json:"turn"`
	Phase   string          `json:"phase"`
	Winner  *game.Seat      `json:"winner,omitempty"`
	Control *game.Seat      `json:"control,omitempty"`
	You     SideView        `json:"you"`
	Foe     SideView        `json:"opponent"`
	Pending *PendingView    `json:"pending,omitempty"`
	Log     []game.LogEntry `json:"log"`
}

// BuildView projects the authoritative state into what one seat may see.
func BuildView(matchID string, st *game.GameState, seat game.Seat) MatchView {
	view := MatchView{
		MatchID: matchID,
		Seat:    seat,
		Turn:    st.Turn,
		Phase:   st.Phase.String(),
		Winner:  st.Winner,
		Control: st.Control,
		You:     sideView(st, seat, seat),
		Foe:     sideView(st, seat.Other(), seat),
		Log:     st.Log,
	}
	if st.ActionRequired != nil {
		view.Pending = pendingView(st.ActionRequired, seat)
	}
	return view
}

func sideView(st *game.GameState, side, viewer game.Seat) SideView {
	ps := st.Player(side)
	sv := SideView{
		Protocols:  ps.Protocols,
		Compiled:   ps.Compiled,
		LaneValues: ps.LaneValues,
		HandCount:  len(ps.Hand),
		DeckCount:  len(ps.Deck),
		Discard:    append([]game.DiscardedCard(nil), ps.Discard...),
		Stats:      ps.Stats,
	}
	for lane := 0; lane < game.LaneCount; lane++ {
		views := make([]CardView, 0, len(ps.Lanes[lane]))
		for _, c := range ps.Lanes[lane] {
			views = append(views, boardCardView(st, c, side, viewer))
		}
		sv.Lanes[lane] = views
	}
	if side == viewer {
		for _, c := range ps.Hand {
			sv.Hand = append(sv.Hand, CardView{
				ID: c.ID, Protocol: c.Protocol, Value: c.Value,
			})
		}
	}
	return sv
}

// boardCardView hides the identity of opposing face-down cards; their lane
// contribution stays visible through the effective value.
func boardCardView(st *game.GameState, c *game.Card, owner, viewer game.Seat) CardView {
	if c.FaceUp || owner == viewer {
		return CardView{
			ID: c.ID, Protocol: c.Protocol,
			Value: game.EffectiveCardValue(st, c.ID), FaceUp: c.FaceUp,
		}
	}
	return CardView{
		ID: c.ID, Value: game.EffectiveCardValue(st, c.ID), Hidden: true,
	}
}

func pendingView(ar game.ActionRequired, viewer game.Seat) *PendingView {
	pv := &PendingView{
		Actor: ar.Actor().String(),
		Yours: ar.Actor() == viewer,
	}
	if !pv.Yours {
		return pv
	}
	switch p := ar.(type) {
	case *game.SelectCardsRequired:
		pv.Type = "select_cards"
		pv.Candidates = p.Candidates
		pv.Count = p.Count
		pv.UpTo = p.UpTo
	case *game.SelectLaneRequired:
		pv.Type = "select_lane"
		pv.AllowedLanes = p.AllowedLanes
	case *game.ConfirmRequired:
		pv.Type = "confirm"
	case *game.BranchRequired:
		pv.Type = "select_branch"
		pv.Labels = p.Labels[:]
	case *game.NumberRequired:
		pv.Type = "name_number"
	case *game.ProtocolRequired:
		pv.Type = "name_protocol"
	case *game.RearrangeRequired:
		pv.Type = "rearrange"
	case *game.SwapRequired:
		pv.Type = "swap_protocols"
	case *game.DiscardToLimitRequired:
		pv.Type = "discard_to_limit"
		pv.Count = p.Count
	}
	return pv
}
