package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/SpriteCut/internal/model"
)

// GeneticConfig holds parameters for the packing order search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 30,
		Generations:    40,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// chromosome is a packing order: a permutation of sprite indices.
type chromosome struct {
	order   []int
	fitness float64
}

// geneticOptimizer searches for a sprite order that the greedy packer
// turns into a better atlas than the height-sorted order.
type geneticOptimizer struct {
	settings model.PackSettings
	config   GeneticConfig
	sprites  []model.Sprite
	rng      *rand.Rand
}

func newGeneticOptimizer(settings model.PackSettings, config GeneticConfig, sprites []model.Sprite, seed int64) *geneticOptimizer {
	return &geneticOptimizer{
		settings: settings,
		config:   config,
		sprites:  sprites,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (g *geneticOptimizer) optimize() model.PackResult {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		for i := 0; i < min(g.config.EliteCount, len(population)); i++ {
			newPop = append(newPop, population[i].clone())
		}

		for len(newPop) < g.config.PopulationSize {
			child := g.orderCrossover(g.tournamentSelect(population), g.tournamentSelect(population))
			g.mutate(&child)
			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}
		population = newPop
	}

	sortByFitness(population)
	return g.decode(population[0])
}

// initPopulation creates random orders plus the greedy height order so the
// search never ends below the plain Pack result.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.sprites)
	population := make([]chromosome, max(g.config.PopulationSize, 1))
	for i := range population {
		population[i] = chromosome{order: g.rng.Perm(n)}
	}
	population[0] = g.greedyChromosome()
	return population
}

// greedyChromosome mirrors the order Pack uses: stable by descending
// padded height.
func (g *geneticOptimizer) greedyChromosome() chromosome {
	order := make([]int, len(g.sprites))
	heights := make([]int, len(g.sprites))
	for i, s := range g.sprites {
		order[i] = i
		s.Measure(max(g.settings.Padding, model.DefaultPadding))
		heights[i] = s.Height
	}
	sort.SliceStable(order, func(i, j int) bool {
		return heights[order[i]] > heights[order[j]]
	})
	return chromosome{order: order}
}

// evaluate scores an order. Polygons never overlap, so the fill term stays
// below one and every fitted sprite outweighs any amount of coverage.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	result := g.decode(c)
	fill := 0.0
	if ta := result.TotalArea(); ta > 0 {
		fill = result.UsedArea() / ta
	}
	return float64(result.FittedCount()) + fill/2
}

func (g *geneticOptimizer) decode(c chromosome) model.PackResult {
	ordered := make([]model.Sprite, len(c.order))
	for i, idx := range c.order {
		ordered[i] = g.sprites[idx]
	}
	return New(g.settings).PackOrdered(ordered)
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return best.clone()
}

// orderCrossover implements Order Crossover (OX1). It keeps a segment of
// parent1 and fills the rest in parent2's relative order.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return parent1.clone()
	}

	point1, point2 := g.rng.Intn(n), g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{order: make([]int, n)}
	inSegment := make(map[int]bool, point2-point1+1)
	for i := point1; i <= point2; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, idx := range parent2.order {
		if !inSegment[idx] {
			child.order[childIdx] = idx
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.order[i], c.order[j] = c.order[j], c.order[i]
			i++
			j--
		}
	}
}

func (c chromosome) clone() chromosome {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return chromosome{order: order, fitness: c.fitness}
}

func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// OptimizeOrder searches packing orders with a genetic algorithm and
// returns the best atlas found. The result is never worse than Pack on the
// same input: fewer fitted sprites are never preferred.
func OptimizeOrder(settings model.PackSettings, sprites []model.Sprite, config GeneticConfig, seed int64) model.PackResult {
	if len(sprites) == 0 {
		return New(settings).Pack(sprites)
	}

	// The greedy order is always carried over, so at least one elite
	// survives every generation.
	config.EliteCount = max(config.EliteCount, 1)
	config.PopulationSize = max(config.PopulationSize, config.EliteCount)
	config.TournamentSize = max(config.TournamentSize, 1)

	// Scale generations for larger sprite sets
	if len(sprites) > 50 && config.Generations < 80 {
		config.Generations = 80
	}

	return newGeneticOptimizer(settings, config, sprites, seed).optimize()
}
