package engine

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/piwi3910/SpriteCut/internal/model"
)

func smallConfig() GeneticConfig {
	cfg := DefaultGeneticConfig()
	cfg.PopulationSize = 12
	cfg.Generations = 10
	return cfg
}

func isPermutation(order []int) bool {
	sorted := append([]int(nil), order...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i {
			return false
		}
	}
	return true
}

func TestOptimizeOrderNeverWorseThanPack(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 5; trial++ {
		var sprites []model.Sprite
		for i := 0; i < 14; i++ {
			sprites = append(sprites, randomSprite(rng, i))
		}
		settings := testSettings(160, 160)

		greedy := New(settings).Pack(sprites)
		best := OptimizeOrder(settings, sprites, smallConfig(), int64(trial))

		if best.FittedCount() < greedy.FittedCount() {
			t.Errorf("trial %d: optimized order fitted %d, greedy fitted %d",
				trial, best.FittedCount(), greedy.FittedCount())
		}
		if len(best.Sprites) != len(sprites) {
			t.Fatalf("trial %d: expected %d sprites, got %d", trial, len(sprites), len(best.Sprites))
		}

		placed := fitted(best)
		for i := range placed {
			for j := i + 1; j < len(placed); j++ {
				if !NotOverlap(placed[i], placed[j]) {
					t.Errorf("trial %d: sprites %d and %d overlap", trial, placed[i].Source, placed[j].Source)
				}
			}
		}
	}
}

func TestOptimizeOrderDegenerateConfig(t *testing.T) {
	sprites := []model.Sprite{square(0, 50, 50), square(1, 30, 70), square(2, 40, 20)}
	settings := testSettings(128, 128)

	greedy := New(settings).Pack(sprites)
	best := OptimizeOrder(settings, sprites, GeneticConfig{Generations: 3}, 1)
	if best.FittedCount() < greedy.FittedCount() {
		t.Errorf("expected at least %d fitted, got %d", greedy.FittedCount(), best.FittedCount())
	}
}

func TestOptimizeOrderEmpty(t *testing.T) {
	result := OptimizeOrder(testSettings(128, 128), nil, smallConfig(), 1)
	if len(result.Sprites) != 0 || len(result.Unplaced) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestOptimizeOrderDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	var sprites []model.Sprite
	for i := 0; i < 10; i++ {
		sprites = append(sprites, randomSprite(rng, i))
	}
	settings := testSettings(128, 128)

	a := OptimizeOrder(settings, sprites, smallConfig(), 42)
	b := OptimizeOrder(settings, sprites, smallConfig(), 42)
	for i := range a.Sprites {
		if a.Sprites[i].Source != b.Sprites[i].Source || a.Sprites[i].X != b.Sprites[i].X || a.Sprites[i].Y != b.Sprites[i].Y {
			t.Fatalf("sprite %d differs between runs with the same seed", i)
		}
	}
}

func TestGreedyChromosomeMatchesPack(t *testing.T) {
	sprites := []model.Sprite{square(0, 20, 10), square(1, 20, 30), square(2, 20, 10), square(3, 20, 30)}
	g := newGeneticOptimizer(testSettings(128, 128), smallConfig(), sprites, 1)

	got := g.decode(g.greedyChromosome())
	want := New(testSettings(128, 128)).Pack(sprites)
	for i := range want.Sprites {
		if got.Sprites[i].Source != want.Sprites[i].Source || got.Sprites[i].Position() != want.Sprites[i].Position() {
			t.Errorf("sprite %d: expected source %d at %v, got source %d at %v", i,
				want.Sprites[i].Source, want.Sprites[i].Position(),
				got.Sprites[i].Source, got.Sprites[i].Position())
		}
	}
}

func TestOrderCrossoverAndMutateKeepPermutation(t *testing.T) {
	g := newGeneticOptimizer(testSettings(128, 128), smallConfig(), make([]model.Sprite, 9), 5)
	g.config.MutationRate = 1

	for i := 0; i < 50; i++ {
		p1 := chromosome{order: g.rng.Perm(9)}
		p2 := chromosome{order: g.rng.Perm(9)}
		child := g.orderCrossover(p1, p2)
		if !isPermutation(child.order) {
			t.Fatalf("crossover produced %v", child.order)
		}
		g.mutate(&child)
		if !isPermutation(child.order) {
			t.Fatalf("mutation produced %v", child.order)
		}
	}
}

func TestPackOrderedKeepsOrder(t *testing.T) {
	p := New(testSettings(128, 128))
	result := p.PackOrdered([]model.Sprite{square(0, 20, 10), square(1, 20, 40)})

	if result.Sprites[0].Source != 0 || result.Sprites[0].X != 0 || result.Sprites[0].Y != 0 {
		t.Errorf("expected source 0 at origin, got source %d at %v", result.Sprites[0].Source, result.Sprites[0].Position())
	}
	if result.Sprites[1].X != 0 || result.Sprites[1].Y != 11 {
		t.Errorf("expected second sprite at (0,11), got (%d,%d)", result.Sprites[1].X, result.Sprites[1].Y)
	}
}
