package game

import "time"

// maybeGrowGrid expands the board when body density crosses the configured
// threshold, re-centering existing geometry inside the larger bounds. The
// board trades fixed visual cell size for a growing logical board: tick
// duration scales down inversely with the side length so cells-per-second
// across the board stays visually constant.
//
// Called from step() after the new head is in place and before the tail
// decision, so len(snake) includes the growth cell of an eat tick.
func (g *Game) maybeGrowGrid() {
	if len(g.snake)*1000 < g.cfg.GrowthPermille*g.gridSize*g.gridSize {
		return
	}
	if g.gridSize+g.cfg.GridIncrement > g.cfg.GridMax {
		return
	}
	g.gridSize += g.cfg.GridIncrement
	shift := g.cfg.GridIncrement / 2
	for i := range g.snake {
		g.snake[i].X += shift
		g.snake[i].Y += shift
	}
	g.rebuildOccupancy()
	g.tickDuration = time.Duration(int64(g.cfg.BaseTick) * int64(g.cfg.GridSize) / int64(g.gridSize))
}
