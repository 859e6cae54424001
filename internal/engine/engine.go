package engine

import (
	"github.com/DoyleJ11/mst-sync/internal/bracket"
	"github.com/DoyleJ11/mst-sync/internal/catalog"
	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

type State struct {
	Board   scoreboard.Scoreboard
	Tracked scoreboard.Tracked
}

type Options struct {
	SponsorDisplay bool
	SkinDisplay    bool
}

// Side is one competitor as resolved from a replay lineup.
type Side struct {
	EntrantID scoreboard.EntrantID
	Name      string
	Team      string
	Character catalog.Character
	Skin      catalog.Skin
}

// SetSnapshot is what the bracket already knows about the set being played.
type SetSnapshot struct {
	ID      scoreboard.SetID
	P1Score int
	P2Score int
	P1WL    scoreboard.WL
	P2WL    scoreboard.WL
	BestOf  int
	Round   string
}

type NewFile struct {
	P1  Side
	P2  Side
	Set *SetSnapshot
}

type GameEnd struct {
	P1 bool
	P2 bool
}

// Effects are requests a transition makes of the outside world.
type Effects struct {
	// RequestBracketData is set when the board lost its set context and
	// fresh pending sets should be fetched.
	RequestBracketData bool
}

func ApplyNewFile(s State, u NewFile, opts Options) (State, Effects) {
	var effects Effects
	newState := s
	b := &newState.Board

	var incomingSet scoreboard.SetID
	if u.Set != nil {
		incomingSet = u.Set.ID
	}
	entrantsChanged := s.Tracked.P1EntrantID != u.P1.EntrantID || s.Tracked.P2EntrantID != u.P2.EntrantID
	setChanged := s.Tracked.SetID != incomingSet
	changed := entrantsChanged || setChanged

	b.P1.Character, b.P1.Skin = u.P1.Character, u.P1.Skin
	b.P2.Character, b.P2.Skin = u.P2.Character, u.P2.Skin

	b.P1.Name = mergeText(b.P1.Name, u.P1.Name, changed)
	b.P2.Name = mergeText(b.P2.Name, u.P2.Name, changed)
	if opts.SponsorDisplay {
		b.P1.Team = mergeText(b.P1.Team, u.P1.Team, changed)
		b.P2.Team = mergeText(b.P2.Team, u.P2.Team, changed)
	} else {
		b.P1.Team, b.P2.Team = "", ""
	}

	if u.Set != nil {
		b.P1.WL, b.P2.WL = u.Set.P1WL, u.Set.P2WL
		b.BestOf = u.Set.BestOf
		b.Round = u.Set.Round
		b.P1.Score = mergeScore(b.P1.Score, u.Set.P1Score, setChanged)
		b.P2.Score = mergeScore(b.P2.Score, u.Set.P2Score, setChanged)
	} else if changed {
		b.P1.Score, b.P2.Score = 0, 0
		b.P1.WL, b.P2.WL = scoreboard.WLNone, scoreboard.WLNone
		b.Round = ""
		effects.RequestBracketData = true
	}

	newState.Tracked = scoreboard.Tracked{
		P1EntrantID: u.P1.EntrantID,
		P2EntrantID: u.P2.EntrantID,
		SetID:       incomingSet,
	}
	return newState, effects
}

// ApplyPendingSets advances the board to the one set both tracked entrants
// are waiting on. ok is false when nothing changed.
func ApplyPendingSets(s State, pending bracket.Pending, opts Options) (State, bool) {
	p1ID, p2ID := s.Tracked.P1EntrantID, s.Tracked.P2EntrantID
	if p1ID == 0 || p2ID == 0 {
		return s, false
	}
	set, ok := bracket.FindSharedSet(pending, p1ID, p2ID)
	if !ok {
		return s, false
	}

	// The p2 branch can't be reached while both ids are required above; it
	// is kept to match the bracket tool's slot matching.
	var p1IsEntrant1 bool
	if p1ID != 0 {
		p1IsEntrant1 = set.Entrant1ID == p1ID
	} else {
		p1IsEntrant1 = set.Entrant2ID == p2ID
	}

	newState := s
	b := &newState.Board
	b.Round = set.FullRoundText
	b.BestOf = scoreboard.BestOfFromAPI(set.BestOf)

	first := slot{name: set.Entrant1Name, team: set.Entrant1Prefix, score: set.Entrant1Score}
	second := slot{name: set.Entrant2Name, team: set.Entrant2Prefix, score: set.Entrant2Score}
	p1, p2 := first, second
	if !p1IsEntrant1 {
		p1, p2 = second, first
	}

	b.P1.Name, b.P2.Name = p1.name, p2.name
	if opts.SponsorDisplay {
		b.P1.Team, b.P2.Team = p1.team, p2.team
	} else {
		b.P1.Team, b.P2.Team = "", ""
	}

	b.P1.WL, b.P2.WL = grandFinalTags(set.FullRoundText, p1IsEntrant1)

	setChanged := s.Tracked.SetID != set.ID
	b.P1.Score = mergeScore(b.P1.Score, p1.score, setChanged)
	b.P2.Score = mergeScore(b.P2.Score, p2.score, setChanged)
	newState.Tracked.SetID = set.ID
	return newState, true
}

// ApplyGameEnd bumps the winner's score. Clamping happens in Finalize.
func ApplyGameEnd(s State, u GameEnd) State {
	newState := s
	if u.P1 {
		newState.Board.P1.Score++
	} else if u.P2 {
		newState.Board.P2.Score++
	}
	return newState
}

// ApplyManual replaces the whole board. Tracking is left alone.
func ApplyManual(s State, board scoreboard.Scoreboard) State {
	newState := s
	newState.Board = board
	return newState
}

// Finalize enforces the board invariants. display keeps Sheik as Sheik for
// the UI; persisted folds her into Zelda for the output file.
func Finalize(board scoreboard.Scoreboard, opts Options) (display, persisted scoreboard.Scoreboard) {
	display = board
	for _, c := range []*scoreboard.Competitor{&display.P1, &display.P2} {
		c.Character, c.Skin = catalog.FromPersisted(c.Character, c.Skin)
		if c.Character != "" && (!opts.SkinDisplay || !catalog.ValidSkin(c.Character, c.Skin)) {
			c.Skin = catalog.DefaultSkin(c.Character)
		}
		c.Score = scoreboard.ClampScore(c.Score, display.BestOf)
		if !scoreboard.IsGrandFinal(display.Round) {
			c.WL = scoreboard.WLNone
		}
	}

	persisted = display
	persisted.P1.Character, persisted.P1.Skin = catalog.ToPersisted(display.P1.Character, display.P1.Skin)
	persisted.P2.Character, persisted.P2.Skin = catalog.ToPersisted(display.P2.Character, display.P2.Skin)
	return display, persisted
}

// SnapshotFromSet describes a pending set from the side of the board where
// p1 is the given entrant.
func SnapshotFromSet(set bracket.PendingSet, p1 scoreboard.EntrantID) SetSnapshot {
	snap := SetSnapshot{
		ID:      set.ID,
		P1Score: set.Entrant1Score,
		P2Score: set.Entrant2Score,
		BestOf:  scoreboard.BestOfFromAPI(set.BestOf),
		Round:   set.FullRoundText,
	}
	p1IsEntrant1 := set.Entrant1ID == p1
	if !p1IsEntrant1 {
		snap.P1Score, snap.P2Score = snap.P2Score, snap.P1Score
	}
	snap.P1WL, snap.P2WL = grandFinalTags(set.FullRoundText, p1IsEntrant1)
	return snap
}

// grandFinalTags marks the winners-side entrant (entrant 1) W in a grand
// final and leaves both neutral otherwise.
func grandFinalTags(round string, p1IsEntrant1 bool) (p1, p2 scoreboard.WL) {
	if round != "Grand Final" {
		return scoreboard.WLNone, scoreboard.WLNone
	}
	if p1IsEntrant1 {
		return scoreboard.WLWin, scoreboard.WLLoss
	}
	return scoreboard.WLLoss, scoreboard.WLWin
}

type slot struct {
	name  string
	team  string
	score int
}

func mergeText(existing, incoming string, changed bool) string {
	if incoming != "" {
		return incoming
	}
	if changed {
		return ""
	}
	return existing
}

// Scores never go down within a set; a new set starts from the bracket's count.
func mergeScore(existing, incoming int, setChanged bool) int {
	if setChanged {
		return incoming
	}
	return max(existing, incoming)
}
