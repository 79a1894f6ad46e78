package roster

import (
	"errors"
	"fmt"
	"sort"
)

// MaxCompare is the most players a head-to-head radar holds.
const MaxCompare = 3

var ErrCompareCount = errors.New("roster: compare takes between 1 and 3 distinct players")

// RadarAxis is one spoke of the comparison radar. Values are keyed by player
// name and already scaled to the axis.
type RadarAxis struct {
	Subject  string             `json:"subject"`
	FullMark float64            `json:"fullMark"`
	Values   map[string]float64 `json:"values"`
}

type Comparison struct {
	Players []Player    `json:"players"`
	Axes    []RadarAxis `json:"axes"`
}

type radarSpoke struct {
	subject  string
	fullMark float64
	value    func(Stats) float64
}

var spokes = []radarSpoke{
	{"Strike Rate", 200, func(s Stats) float64 { return s.StrikeRate }},
	{"Average", 60, func(s Stats) float64 { return s.Average }},
	{"Runs (x100)", 100, func(s Stats) float64 { return float64(s.Runs) / 100 }},
	{"Matches", 300, func(s Stats) float64 { return float64(s.Matches) }},
	{"Highest Score", 150, func(s Stats) float64 { return float64(s.HighestScore) }},
}

// Compare builds the head-to-head radar for 1 to MaxCompare players.
func (r *Roster) Compare(ids []string) (Comparison, error) {
	if len(ids) == 0 || len(ids) > MaxCompare {
		return Comparison{}, ErrCompareCount
	}
	seen := make(map[string]bool, len(ids))
	players := make([]Player, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return Comparison{}, fmt.Errorf("%w: %q repeated", ErrCompareCount, id)
		}
		seen[id] = true
		p, err := r.Player(id)
		if err != nil {
			return Comparison{}, err
		}
		players = append(players, p)
	}
	axes := make([]RadarAxis, 0, len(spokes))
	for _, sp := range spokes {
		ax := RadarAxis{Subject: sp.subject, FullMark: sp.fullMark, Values: make(map[string]float64, len(players))}
		for _, p := range players {
			ax.Values[p.Name] = sp.value(p.Stats)
		}
		axes = append(axes, ax)
	}
	return Comparison{Players: players, Axes: axes}, nil
}

type DreamTeam struct {
	TopOrder []Player `json:"topOrder"`
	Middle   []Player `json:"middle"`
	Lower    []Player `json:"lower"`
	Attack   []Player `json:"attack"`
}

// DreamTeam picks the best XI from the roster. Players are ranked by
// strike rate plus average; the attack is ranked by wickets.
func (r *Roster) DreamTeam() DreamTeam {
	ranked := r.Players()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Stats.StrikeRate+ranked[i].Stats.Average > ranked[j].Stats.StrikeRate+ranked[j].Stats.Average
	})
	batsmen := filterRole(ranked, RoleBatsman)

	team := DreamTeam{
		TopOrder: window(batsmen, 0, 2),
		Middle:   window(batsmen, 2, 4),
		Lower:    window(filterRole(ranked, RoleAllRounder), 0, 2),
	}
	if keepers := filterRole(ranked, RoleWicketkeeper); len(keepers) > 0 {
		team.Middle = append(team.Middle, keepers[0])
	} else if len(ranked) > 0 {
		team.Middle = append(team.Middle, ranked[0])
	}

	byWickets := r.Players()
	sort.SliceStable(byWickets, func(i, j int) bool { return byWickets[i].Stats.Wickets > byWickets[j].Stats.Wickets })
	team.Attack = window(filterRole(byWickets, RoleBowler), 0, 4)
	return team
}

func filterRole(players []Player, role Role) []Player {
	out := []Player{}
	for _, p := range players {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

func window(players []Player, from, to int) []Player {
	if from > len(players) {
		from = len(players)
	}
	if to > len(players) {
		to = len(players)
	}
	return append([]Player{}, players[from:to]...)
}

// TeamAnalysis is a franchise's record together with its listed players.
type TeamAnalysis struct {
	Team
	WinPercentage float64  `json:"winPercentage"`
	Players       []Player `json:"players"`
}

// Team returns the record and players for a team label.
func (r *Roster) Team(label string) (TeamAnalysis, error) {
	i, ok := r.byTeam[label]
	if !ok {
		return TeamAnalysis{}, fmt.Errorf("%w: %q", ErrUnknownTeam, label)
	}
	t := r.teams[i]
	players := []Player{}
	for _, p := range r.players {
		if p.Team == label {
			players = append(players, p)
		}
	}
	return TeamAnalysis{Team: t, WinPercentage: t.WinPercentage(), Players: players}, nil
}
