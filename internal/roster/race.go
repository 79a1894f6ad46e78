package roster

import (
	"context"
	"sort"
	"time"
)

// DefaultRaceInterval is the delay between bar-chart-race frames.
const DefaultRaceInterval = 1500 * time.Millisecond

// Frame is one season of the run-scorer race, leaders sorted by runs.
type Frame struct {
	Year   int         `json:"year"`
	Index  int         `json:"index"`
	Total  int         `json:"total"`
	Runs   []RunScorer `json:"runs"`
	Leader string      `json:"leader"`
}

// Race is an ordered sequence of season frames.
type Race struct {
	Frames []Frame
}

// Race builds one frame per season, oldest first.
func (r *Roster) Race() Race {
	frames := make([]Frame, 0, len(r.seasons))
	for i, s := range r.seasons {
		runs := append([]RunScorer(nil), s.TopRunScorers...)
		sort.SliceStable(runs, func(a, b int) bool { return runs[a].Runs > runs[b].Runs })
		f := Frame{Year: s.Year, Index: i, Total: len(r.seasons), Runs: runs}
		if len(runs) > 0 {
			f.Leader = runs[0].Name
		}
		frames = append(frames, f)
	}
	return Race{Frames: frames}
}

// Stream emits every frame in order, the first immediately and the rest one
// per interval. It stops after the last frame, when emit fails, or when ctx
// is done, returning ctx.Err() in the last case.
func (race Race) Stream(ctx context.Context, interval time.Duration, emit func(Frame) error) error {
	if len(race.Frames) == 0 {
		return nil
	}
	if interval <= 0 {
		interval = DefaultRaceInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i, f := range race.Frames {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(f); err != nil {
			return err
		}
	}
	return nil
}
