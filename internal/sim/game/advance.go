package game

import "time"

// Frame is the per-render-frame result of Advance: whether a tick ran, the
// interpolation fraction for the renderer, and any events the tick emitted.
type Frame struct {
	Ticked   bool
	Progress float64
	Events   []Event
}

// Advance runs the fixed-timestep scheduler for one render frame at
// timestamp ts. The first observed frame only records ts as the last-tick
// time. While Playing, at most one step runs per frame regardless of how
// much time elapsed: ticks are never batched or caught up, which caps
// simulation speed at one step per rendered frame on slow displays.
//
// Progress is 0..1 between ticks and pinned to 1 outside the Playing phase
// so interpolating renderers settle on the final cell positions.
func (g *Game) Advance(ts time.Time) Frame {
	if !g.haveFrame {
		g.haveFrame = true
		g.lastTick = ts
		return Frame{Progress: g.progress(ts)}
	}

	var f Frame
	if g.phase == PhasePlaying && ts.Sub(g.lastTick) >= g.tickDuration {
		g.step(ts)
		g.lastTick = ts
		f.Ticked = true
		f.Events = g.events
		g.events = nil
	}
	f.Progress = g.progress(ts)
	return f
}

func (g *Game) progress(ts time.Time) float64 {
	if g.phase != PhasePlaying {
		return 1
	}
	p := float64(ts.Sub(g.lastTick)) / float64(g.tickDuration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
