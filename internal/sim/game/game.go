package game

import (
	"math/rand"
	"time"
)

// Config carries the run parameters. Zero fields fall back to Defaults-style
// values so tests can construct partial configs.
type Config struct {
	GridSize       int           // initial board side length
	GridIncrement  int           // growth step, must be even
	GridMax        int           // hard ceiling for the board side
	GrowthPermille int           // body density threshold, permille of gridSize^2
	BaseTick       time.Duration // tick duration at the initial grid size
	StartLen       int           // snake length at run start, >= 3
	Seed           int64         // food spawner seed; 0 means time-derived
}

func (c Config) withDefaults() Config {
	if c.GridSize <= 0 {
		c.GridSize = 12
	}
	if c.GridIncrement <= 0 {
		c.GridIncrement = 4
	}
	if c.GridMax <= 0 {
		c.GridMax = 24
	}
	if c.GrowthPermille <= 0 {
		c.GrowthPermille = 400
	}
	if c.BaseTick <= 0 {
		c.BaseTick = 150 * time.Millisecond
	}
	if c.StartLen < 3 {
		c.StartLen = 3
	}
	return c
}

// Game is one player's simulation state. All state is owned by the caller's
// goroutine; a tick is atomic from the point of view of anyone reading a
// Snapshot between Advance calls.
type Game struct {
	cfg Config

	phase Phase
	tick  uint64

	snake    []Cell // head first
	occupied map[Cell]struct{}
	dir      Dir
	dirQueue []Dir

	food        Cell
	foodSpawned time.Time

	gridSize     int
	tickDuration time.Duration

	score     int
	startedAt time.Time
	endedAt   time.Time

	lastTick  time.Time
	haveFrame bool

	ateThisTick bool

	rng    *rand.Rand
	events []Event
}

const dirQueueCap = 2

// New creates a game in the Welcome phase with a fully initialized idle run
// so renderers have a board to draw before the first start input.
func New(cfg Config) *Game {
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
	g.resetRun(time.Time{})
	g.phase = PhaseWelcome
	return g
}

// resetRun discards the snake, grid, score, direction queue, food and
// occupancy wholesale. Nothing survives a reset except the spawner rng.
func (g *Game) resetRun(ts time.Time) {
	g.gridSize = g.cfg.GridSize
	g.tickDuration = g.cfg.BaseTick
	g.tick = 0
	g.score = 0
	g.ateThisTick = false
	g.dir = DirRight
	g.dirQueue = g.dirQueue[:0]
	g.events = nil
	g.startedAt = ts
	g.endedAt = time.Time{}

	// Head mid-board, body trailing left.
	mid := g.gridSize / 2
	g.snake = g.snake[:0]
	for i := 0; i < g.cfg.StartLen; i++ {
		g.snake = append(g.snake, Cell{X: mid - i, Y: mid})
	}
	g.rebuildOccupancy()
	g.spawnFood(ts)
}

func (g *Game) rebuildOccupancy() {
	g.occupied = make(map[Cell]struct{}, len(g.snake))
	for _, c := range g.snake {
		g.occupied[c] = struct{}{}
	}
}

// StartRun transitions Welcome->Playing or GameOver->Playing and fully
// reinitializes the run. A start input while already Playing is a no-op.
func (g *Game) StartRun(ts time.Time) {
	if g.phase == PhasePlaying {
		return
	}
	g.resetRun(ts)
	g.phase = PhasePlaying
	g.lastTick = ts
	g.haveFrame = true
}

// QueueDirection buffers a candidate turn. Rejections are silent: reversals
// of the most recently effective-or-queued direction, duplicates of it, and
// anything past the two-entry cap are dropped. Two entries are enough for
// one render frame's worth of ticks; anything more is stale by the time it
// would apply.
func (g *Game) QueueDirection(d Dir) {
	if len(g.dirQueue) >= dirQueueCap {
		return
	}
	last := g.dir
	if n := len(g.dirQueue); n > 0 {
		last = g.dirQueue[n-1]
	}
	if d == last || d == last.Opposite() {
		return
	}
	g.dirQueue = append(g.dirQueue, d)
}

func (g *Game) consumeDirection() {
	if len(g.dirQueue) == 0 {
		return
	}
	g.dir = g.dirQueue[0]
	g.dirQueue = g.dirQueue[1:]
}

// Accessors used by the session/render edge. Snake returns the live backing
// slice; use Snapshot for a copy safe to hold across frames.

func (g *Game) Phase() Phase { return g.phase }

func (g *Game) Score() int { return g.score }

func (g *Game) GridSize() int { return g.gridSize }

func (g *Game) TickDuration() time.Duration { return g.tickDuration }

func (g *Game) Tick() uint64 { return g.tick }

func (g *Game) Snake() []Cell { return g.snake }

func (g *Game) Food() Cell { return g.food }

func (g *Game) FoodSpawnedAt() time.Time { return g.foodSpawned }

func (g *Game) StartedAt() time.Time { return g.startedAt }

func (g *Game) EndedAt() time.Time { return g.endedAt }

// RunDuration is the wall time of a finished run; zero while still playing.
func (g *Game) RunDuration() time.Duration {
	if g.endedAt.IsZero() || g.startedAt.IsZero() {
		return 0
	}
	return g.endedAt.Sub(g.startedAt)
}

// Snapshot is a renderer-safe copy of the post-tick state.
type Snapshot struct {
	Tick     uint64
	Phase    Phase
	Score    int
	GridSize int
	Snake    []Cell
	Food     Cell
}

func (g *Game) Snapshot() Snapshot {
	body := make([]Cell, len(g.snake))
	copy(body, g.snake)
	return Snapshot{
		Tick:     g.tick,
		Phase:    g.phase,
		Score:    g.score,
		GridSize: g.gridSize,
		Snake:    body,
		Food:     g.food,
	}
}
