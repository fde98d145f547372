package game

import (
	"testing"
	"time"
)

func testTime(ms int) time.Time {
	return time.Unix(0, 0).Add(time.Duration(ms) * time.Millisecond)
}

// setBody installs an explicit snake layout and rebuilds the index, the way
// bulk-shift does.
func (g *Game) setBody(cells ...Cell) {
	g.snake = append(g.snake[:0], cells...)
	g.rebuildOccupancy()
}

func checkOccupancy(t *testing.T, g *Game) {
	t.Helper()
	want := map[Cell]struct{}{}
	for _, c := range g.snake {
		want[c] = struct{}{}
	}
	if len(want) != len(g.occupied) {
		t.Fatalf("occupancy size %d, snake cells %d", len(g.occupied), len(want))
	}
	for c := range want {
		if _, ok := g.occupied[c]; !ok {
			t.Fatalf("cell %v missing from occupancy", c)
		}
	}
}

func TestEatScenario(t *testing.T) {
	g := newPlayingGame(t, Config{})
	g.setBody(Cell{3, 3}, Cell{2, 3}, Cell{1, 3})
	g.dir = DirRight
	g.food = Cell{4, 3}

	g.step(testTime(100))

	want := []Cell{{4, 3}, {3, 3}, {2, 3}, {1, 3}}
	if len(g.snake) != len(want) {
		t.Fatalf("snake length %d, want %d", len(g.snake), len(want))
	}
	for i, c := range want {
		if g.snake[i] != c {
			t.Fatalf("snake[%d]=%v, want %v", i, g.snake[i], c)
		}
	}
	if g.score != 1 {
		t.Fatalf("score %d, want 1", g.score)
	}
	if g.gridSize != g.cfg.GridSize {
		t.Fatalf("grid grew early: %d", g.gridSize)
	}
	if _, onSnake := g.occupied[g.food]; onSnake {
		t.Fatalf("food respawned on snake at %v", g.food)
	}
	if !g.ateThisTick {
		t.Fatalf("ate flag not set")
	}
	checkOccupancy(t, g)
}

func TestNonEatTickKeepsLength(t *testing.T) {
	g := newPlayingGame(t, Config{})
	g.setBody(Cell{3, 3}, Cell{2, 3}, Cell{1, 3})
	g.dir = DirRight
	g.food = Cell{0, 0}

	g.step(testTime(100))

	if len(g.snake) != 3 {
		t.Fatalf("length changed on non-eat tick: %d", len(g.snake))
	}
	if g.snake[0] != (Cell{4, 3}) || g.snake[2] != (Cell{2, 3}) {
		t.Fatalf("unexpected body %v", g.snake)
	}
	if g.ateThisTick {
		t.Fatalf("ate flag set on non-eat tick")
	}
	checkOccupancy(t, g)
}

func TestWallCollisions(t *testing.T) {
	cases := []struct {
		name string
		head Cell
		dir  Dir
	}{
		{"left", Cell{0, 3}, DirLeft},
		{"right", Cell{11, 3}, DirRight},
		{"top", Cell{3, 0}, DirUp},
		{"bottom", Cell{3, 11}, DirDown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newPlayingGame(t, Config{})
			body := []Cell{tc.head, tc.head.Step(tc.dir.Opposite())}
			body = append(body, body[1].Step(tc.dir.Opposite()))
			g.setBody(body...)
			g.dir = tc.dir
			g.food = Cell{5, 5}
			before := g.Snapshot()

			g.step(testTime(100))

			if g.phase != PhaseGameOver {
				t.Fatalf("phase %v, want GAME_OVER", g.phase)
			}
			if g.endedAt.IsZero() {
				t.Fatalf("end timestamp not recorded")
			}
			for i, c := range before.Snake {
				if g.snake[i] != c {
					t.Fatalf("snake mutated on collision: %v vs %v", g.snake, before.Snake)
				}
			}
			checkOccupancy(t, g)
		})
	}
}

func TestSelfCollisionInterior(t *testing.T) {
	g := newPlayingGame(t, Config{})
	// Head at (3,3) turning up into its own neck path: body forms a hook.
	g.setBody(Cell{3, 3}, Cell{3, 2}, Cell{4, 2}, Cell{4, 3}, Cell{4, 4}, Cell{3, 4})
	g.dir = DirUp // candidate (3,2) is an interior segment
	g.food = Cell{0, 0}

	g.step(testTime(100))

	if g.phase != PhaseGameOver {
		t.Fatalf("interior self collision not detected")
	}
}

func TestTailPassThroughIsLegal(t *testing.T) {
	g := newPlayingGame(t, Config{})
	// 2x2 loop, head (1,1), tail (2,1); moving right lands on the tail cell.
	g.setBody(Cell{1, 1}, Cell{1, 2}, Cell{2, 2}, Cell{2, 1})
	g.dir = DirRight
	g.food = Cell{5, 5}

	g.step(testTime(100))

	if g.phase != PhasePlaying {
		t.Fatalf("tail pass-through treated as collision")
	}
	if g.snake[0] != (Cell{2, 1}) {
		t.Fatalf("head %v, want (2,1)", g.snake[0])
	}
	if len(g.snake) != 4 {
		t.Fatalf("length %d, want 4", len(g.snake))
	}
	checkOccupancy(t, g)
}

func TestEatOntoTailIsCollision(t *testing.T) {
	g := newPlayingGame(t, Config{})
	g.setBody(Cell{1, 1}, Cell{1, 2}, Cell{2, 2}, Cell{2, 1})
	g.dir = DirRight
	g.food = Cell{2, 1} // food on the tail cell: tail does not vacate this tick

	g.step(testTime(100))

	if g.phase != PhaseGameOver {
		t.Fatalf("eat-onto-tail not treated as collision")
	}
	if g.score != 0 {
		t.Fatalf("score incremented on collision tick: %d", g.score)
	}
}

func TestRestartResets(t *testing.T) {
	g := newPlayingGame(t, Config{})
	g.setBody(Cell{11, 3}, Cell{10, 3}, Cell{9, 3})
	g.dir = DirRight
	g.score = 7
	g.food = Cell{5, 5}
	g.step(testTime(100))
	if g.phase != PhaseGameOver {
		t.Fatalf("setup: expected game over")
	}

	g.StartRun(testTime(200))

	if g.phase != PhasePlaying {
		t.Fatalf("phase %v after restart", g.phase)
	}
	if g.score != 0 {
		t.Fatalf("score %d after restart", g.score)
	}
	if g.gridSize != g.cfg.GridSize {
		t.Fatalf("grid %d after restart, want %d", g.gridSize, g.cfg.GridSize)
	}
	if len(g.snake) != g.cfg.StartLen {
		t.Fatalf("length %d after restart, want %d", len(g.snake), g.cfg.StartLen)
	}
	if !g.endedAt.IsZero() {
		t.Fatalf("end timestamp survived restart")
	}
	checkOccupancy(t, g)
}

// A scripted walk that covers many ticks, asserting the occupancy mirror and
// the length rule after every step.
func TestInvariantsOverManyTicks(t *testing.T) {
	g := newPlayingGame(t, Config{Seed: 42})
	turns := []Dir{DirDown, DirLeft, DirUp, DirRight}
	ti := 0
	for i := 0; i < 500 && g.phase == PhasePlaying; i++ {
		// Steer in a rectangle near the walls would die fast; instead turn
		// whenever the head nears a bound.
		head := g.snake[0]
		next := head.Step(g.dir)
		if next.X < 0 || next.Y < 0 || next.X >= g.gridSize || next.Y >= g.gridSize {
			g.QueueDirection(turns[ti%len(turns)])
			ti++
			g.consumeDirection()
		}
		lenBefore := len(g.snake)
		g.step(testTime(100 * (i + 1)))
		if g.phase != PhasePlaying {
			break
		}
		checkOccupancy(t, g)
		wantLen := lenBefore
		if g.ateThisTick {
			wantLen++
		}
		if len(g.snake) != wantLen {
			t.Fatalf("tick %d: length %d, want %d (ate=%v)", i, len(g.snake), wantLen, g.ateThisTick)
		}
	}
}
