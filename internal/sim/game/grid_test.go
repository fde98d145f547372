package game

import (
	"testing"
	"time"
)

func TestGrowthTriggerAndShift(t *testing.T) {
	g := newPlayingGame(t, Config{GridSize: 4, GridIncrement: 4, GridMax: 12, BaseTick: 200 * time.Millisecond})
	// Density threshold on a 4x4 board: 0.4*16 = 6.4 cells.
	g.setBody(Cell{3, 0}, Cell{2, 0}, Cell{1, 0}, Cell{0, 0}, Cell{0, 1}, Cell{1, 1}, Cell{2, 1})
	g.maybeGrowGrid()

	if g.gridSize != 8 {
		t.Fatalf("grid %d, want 8", g.gridSize)
	}
	if g.snake[0] != (Cell{5, 2}) || g.snake[3] != (Cell{2, 2}) {
		t.Fatalf("cells not re-centered: %v", g.snake)
	}
	checkOccupancy(t, g)
	if g.tickDuration != 100*time.Millisecond {
		t.Fatalf("tick duration %v, want 100ms", g.tickDuration)
	}
}

func TestGrowthBelowThresholdNoop(t *testing.T) {
	g := newPlayingGame(t, Config{GridSize: 4, GridIncrement: 4, GridMax: 12})
	g.setBody(Cell{3, 0}, Cell{2, 0}, Cell{1, 0})
	g.maybeGrowGrid()
	if g.gridSize != 4 {
		t.Fatalf("grid grew below threshold: %d", g.gridSize)
	}
}

func TestGrowthRespectsCeiling(t *testing.T) {
	g := newPlayingGame(t, Config{GridSize: 4, GridIncrement: 4, GridMax: 4})
	g.setBody(Cell{3, 0}, Cell{2, 0}, Cell{1, 0}, Cell{0, 0}, Cell{0, 1}, Cell{1, 1}, Cell{2, 1})
	g.maybeGrowGrid()
	if g.gridSize != 4 {
		t.Fatalf("grid exceeded ceiling: %d", g.gridSize)
	}
}

func TestGrowthMonotonicFixedSteps(t *testing.T) {
	g := newPlayingGame(t, Config{GridSize: 4, GridIncrement: 4, GridMax: 16, Seed: 9})
	prev := g.gridSize
	// Force repeated growth by padding the body up to the density threshold.
	for round := 0; round < 5; round++ {
		need := (g.cfg.GrowthPermille*g.gridSize*g.gridSize + 999) / 1000
		for y := 0; y < g.gridSize && len(g.snake) < need; y++ {
			for x := 0; x < g.gridSize && len(g.snake) < need; x++ {
				c := Cell{x, y}
				if _, ok := g.occupied[c]; !ok {
					g.snake = append(g.snake, c)
					g.occupied[c] = struct{}{}
				}
			}
		}
		g.maybeGrowGrid()
		if g.gridSize < prev {
			t.Fatalf("grid shrank: %d -> %d", prev, g.gridSize)
		}
		if g.gridSize != prev && g.gridSize != prev+g.cfg.GridIncrement {
			t.Fatalf("grid jumped: %d -> %d", prev, g.gridSize)
		}
		if g.gridSize > g.cfg.GridMax {
			t.Fatalf("grid above ceiling: %d", g.gridSize)
		}
		prev = g.gridSize
	}
	if prev != g.cfg.GridMax {
		t.Fatalf("grid never reached ceiling: %d", prev)
	}
}
