package game

import "time"

// spawnFood places the food on a uniformly random unoccupied cell by
// rejection sampling. No retry ceiling: the growth controller keeps the
// occupied fraction under the density threshold, so expected retries stay
// below two even on the smallest board.
func (g *Game) spawnFood(ts time.Time) {
	for {
		c := Cell{X: g.rng.Intn(g.gridSize), Y: g.rng.Intn(g.gridSize)}
		if _, ok := g.occupied[c]; ok {
			continue
		}
		g.food = c
		g.foodSpawned = ts
		return
	}
}
