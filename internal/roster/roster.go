// Package roster serves the static player and season data behind the
// dashboard views and the clustering request.
package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"iplinsight/internal/advisory"
)

//go:embed roster.yaml
var embedded []byte

type Role string

const (
	RoleBatsman      Role = "Batsman"
	RoleBowler       Role = "Bowler"
	RoleAllRounder   Role = "All-rounder"
	RoleWicketkeeper Role = "Wicketkeeper"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBatsman, RoleBowler, RoleAllRounder, RoleWicketkeeper:
		return true
	}
	return false
}

var (
	ErrUnknownPlayer = errors.New("roster: unknown player")
	ErrUnknownSort   = errors.New("roster: unknown sort key")
	ErrUnknownRole   = errors.New("roster: unknown role")
	ErrUnknownTeam   = errors.New("roster: unknown team")
)

type Stats struct {
	Runs         int     `yaml:"runs" json:"runs"`
	Wickets      int     `yaml:"wickets" json:"wickets"`
	Average      float64 `yaml:"average" json:"average"`
	StrikeRate   float64 `yaml:"strikeRate" json:"strikeRate"`
	Economy      float64 `yaml:"economy" json:"economy"`
	Matches      int     `yaml:"matches" json:"matches"`
	HighestScore int     `yaml:"highestScore" json:"highestScore"`
	BestFigures  string  `yaml:"bestFigures" json:"bestFigures"`
	// Form holds the last ten innings, oldest first.
	Form []int `yaml:"form" json:"form"`
}

type Player struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Team  string `yaml:"team" json:"team"`
	Role  Role   `yaml:"role" json:"role"`
	Image string `yaml:"image" json:"image"`
	Stats Stats  `yaml:"stats" json:"stats"`
}

// Summary is the slice of the record sent for clustering.
func (p Player) Summary() advisory.PlayerSummary {
	return advisory.PlayerSummary{
		Name:       p.Name,
		StrikeRate: p.Stats.StrikeRate,
		Average:    p.Stats.Average,
		Economy:    p.Stats.Economy,
	}
}

// Team holds a franchise's all-time record.
type Team struct {
	Label   string `yaml:"label" json:"label"`
	Wins    int    `yaml:"wins" json:"wins"`
	Matches int    `yaml:"matches" json:"matches"`
	Titles  int    `yaml:"titles" json:"titles"`
}

// WinPercentage is wins over matches, 0 for a team with no matches.
func (t Team) WinPercentage() float64 {
	if t.Matches == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Matches) * 100
}

type RunScorer struct {
	Name string `yaml:"name" json:"name"`
	Runs int    `yaml:"runs" json:"runs"`
}

type WicketTaker struct {
	Name    string `yaml:"name" json:"name"`
	Wickets int    `yaml:"wickets" json:"wickets"`
}

type Season struct {
	Year            int           `yaml:"year" json:"year"`
	TopRunScorers   []RunScorer   `yaml:"topRunScorers" json:"topRunScorers"`
	TopWicketTakers []WicketTaker `yaml:"topWicketTakers" json:"topWicketTakers"`
}

type file struct {
	Teams   []Team   `yaml:"teams"`
	Players []Player `yaml:"players"`
	Seasons []Season `yaml:"seasons"`
}

// Roster is immutable once parsed; accessors return copies.
type Roster struct {
	teams   []Team
	players []Player
	seasons []Season
	byID    map[string]int
	byTeam  map[string]int
}

var loadDefault = sync.OnceValues(func() (*Roster, error) { return Parse(embedded) })

// Load returns the embedded roster.
func Load() (*Roster, error) { return loadDefault() }

// Parse decodes a roster document. Team labels and player ids must be unique
// and roles known. Seasons are ordered by year.
func Parse(data []byte) (*Roster, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("roster: decode: %w", err)
	}
	r := &Roster{
		teams:   f.Teams,
		players: f.Players,
		seasons: f.Seasons,
		byID:    make(map[string]int, len(f.Players)),
		byTeam:  make(map[string]int, len(f.Teams)),
	}
	for i, t := range f.Teams {
		if t.Label == "" {
			return nil, fmt.Errorf("roster: team %d has no label", i)
		}
		if _, dup := r.byTeam[t.Label]; dup {
			return nil, fmt.Errorf("roster: duplicate team %q", t.Label)
		}
		r.byTeam[t.Label] = i
	}
	for i, p := range f.Players {
		if p.ID == "" {
			return nil, fmt.Errorf("roster: player %d has no id", i)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("roster: duplicate player id %q", p.ID)
		}
		if !p.Role.Valid() {
			return nil, fmt.Errorf("roster: player %q has unknown role %q", p.ID, p.Role)
		}
		r.byID[p.ID] = i
	}
	sort.SliceStable(r.seasons, func(i, j int) bool { return r.seasons[i].Year < r.seasons[j].Year })
	return r, nil
}

// Players returns every player in file order.
func (r *Roster) Players() []Player {
	return append([]Player(nil), r.players...)
}

func (r *Roster) Player(id string) (Player, error) {
	i, ok := r.byID[id]
	if !ok {
		return Player{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, id)
	}
	return r.players[i], nil
}

// ByRole returns the players with role, ordered as SortPlayers orders them.
// An empty role matches everyone.
func (r *Roster) ByRole(role Role, sortBy string) ([]Player, error) {
	if role != "" && !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	players, err := r.SortPlayers(sortBy)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return players, nil
	}
	return filterRole(players, role), nil
}

// Teams returns the team labels in file order.
func (r *Roster) Teams() []string {
	out := make([]string, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t.Label)
	}
	return out
}

func (r *Roster) Seasons() []Season { return append([]Season(nil), r.seasons...) }

// Summaries returns the clustering view of every player.
func (r *Roster) Summaries() []advisory.PlayerSummary {
	out := make([]advisory.PlayerSummary, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.Summary())
	}
	return out
}

// SummariesFor returns the clustering view of the given players, in the
// order requested.
func (r *Roster) SummariesFor(ids []string) ([]advisory.PlayerSummary, error) {
	out := make([]advisory.PlayerSummary, 0, len(ids))
	for _, id := range ids {
		p, err := r.Player(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Summary())
	}
	return out, nil
}

// TopRunScorers returns the n highest run scorers. n <= 0 returns everyone.
func (r *Roster) TopRunScorers(n int) []Player {
	out := r.Players()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stats.Runs > out[j].Stats.Runs })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// SortPlayers orders the roster by "name" or "team" (then name). An empty
// key keeps file order.
func (r *Roster) SortPlayers(by string) ([]Player, error) {
	out := r.Players()
	switch by {
	case "":
	case "name":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case "team":
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Team != out[j].Team {
				return out[i].Team < out[j].Team
			}
			return out[i].Name < out[j].Name
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSort, by)
	}
	return out, nil
}
