package game

import "testing"

func TestFoodNeverOnSnakeAfterSpawn(t *testing.T) {
	g := newPlayingGame(t, Config{GridSize: 4, Seed: 7})
	// Occupy most of the board so rejection sampling actually rejects.
	var body []Cell
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if len(body) < 12 {
				body = append(body, Cell{x, y})
			}
		}
	}
	g.setBody(body...)

	for i := 0; i < 200; i++ {
		g.spawnFood(testTime(i))
		if _, ok := g.occupied[g.food]; ok {
			t.Fatalf("spawn %d: food on snake at %v", i, g.food)
		}
		if g.food.X < 0 || g.food.Y < 0 || g.food.X >= g.gridSize || g.food.Y >= g.gridSize {
			t.Fatalf("spawn %d: food out of bounds at %v", i, g.food)
		}
	}
}

func TestFoodSpawnDeterministicWithSeed(t *testing.T) {
	a := newPlayingGame(t, Config{Seed: 123})
	b := newPlayingGame(t, Config{Seed: 123})
	for i := 0; i < 50; i++ {
		a.spawnFood(testTime(i))
		b.spawnFood(testTime(i))
		if a.food != b.food {
			t.Fatalf("spawn %d diverged: %v vs %v", i, a.food, b.food)
		}
	}
}

func TestFoodSpawnRecordsTimestamp(t *testing.T) {
	g := newPlayingGame(t, Config{Seed: 5})
	g.spawnFood(testTime(1234))
	if !g.foodSpawned.Equal(testTime(1234)) {
		t.Fatalf("spawn timestamp %v", g.foodSpawned)
	}
}
