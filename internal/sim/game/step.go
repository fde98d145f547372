package game

import "time"

// step advances the simulation by exactly one discrete tick. Order matters:
// direction consume, candidate head, collision check (which must not mutate
// the snake), prepend, then either grow-and-respawn or drop the tail.
func (g *Game) step(ts time.Time) {
	if g.phase != PhasePlaying {
		return
	}
	g.ateThisTick = false
	g.consumeDirection()

	head := g.snake[0].Step(g.dir)
	willEat := head == g.food

	if g.collides(head, willEat) {
		g.phase = PhaseGameOver
		g.endedAt = ts
		g.events = append(g.events, Event{Kind: EventCollision, Cell: head, Tick: g.tick, At: ts})
		return
	}

	g.snake = append(g.snake, Cell{})
	copy(g.snake[1:], g.snake)
	g.snake[0] = head
	g.occupied[head] = struct{}{}

	if willEat {
		g.score++
		g.maybeGrowGrid()
		// Post-shift coordinates: the board may just have re-centered.
		g.events = append(g.events, Event{Kind: EventEat, Cell: g.snake[0], Tick: g.tick, At: ts})
		g.spawnFood(ts)
		g.ateThisTick = true
	} else {
		tail := g.snake[len(g.snake)-1]
		g.snake = g.snake[:len(g.snake)-1]
		// On a pass-through-tail move the head now owns the vacated cell;
		// it must stay in the index.
		if tail != g.snake[0] {
			delete(g.occupied, tail)
		}
	}

	g.tick++
}

// collides reports whether moving the head to next ends the run. Self
// collision exempts the current tail cell on non-eat moves only: the tail
// vacates in the same tick the head arrives, unless this tick grows the
// snake. Interior segments are never exempt.
func (g *Game) collides(next Cell, willEat bool) bool {
	if next.X < 0 || next.Y < 0 || next.X >= g.gridSize || next.Y >= g.gridSize {
		return true
	}
	if _, ok := g.occupied[next]; !ok {
		return false
	}
	tail := g.snake[len(g.snake)-1]
	if next == tail && !willEat {
		return false
	}
	return true
}
