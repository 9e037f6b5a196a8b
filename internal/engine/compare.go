package engine

import (
	"fmt"

	"github.com/piwi3910/SpriteCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the packing result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackResult
	FittedCount   int
	UnplacedCount int
	Efficiency    float64 // Padded bounding-box coverage, percent
	PolygonFill   float64 // Polygon area coverage, percent
}

// Reshape recomputes the polygons of a sprite set for a scenario's
// settings. The engine never touches rasters, so callers that vary cut
// settings supply the extractor through this hook.
type Reshape func(settings model.PackSettings) []model.Sprite

// CompareScenarios packs the sprites produced by reshape for every
// scenario and returns the results in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, reshape Reshape) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result := New(scenario.Settings).Pack(reshape(scenario.Settings))

		fill := 0.0
		if ta := result.TotalArea(); ta > 0 {
			fill = result.UsedArea() / ta * 100.0
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			FittedCount:   result.FittedCount(),
			UnplacedCount: len(result.Unplaced),
			Efficiency:    result.Efficiency(),
			PolygonFill:   fill,
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the current
// settings: plain rectangles and halved and doubled cut thresholds.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	if !base.DisableCuts {
		rects := base
		rects.DisableCuts = true
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Rectangles Only",
			Settings: rects,
		})
	}

	if base.MinCutArea > 1 {
		eager := base
		eager.DisableCuts = false
		eager.MinCutArea = base.MinCutArea / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Cut Area > %d (half)", eager.MinCutArea),
			Settings: eager,
		})
	}

	strict := base
	strict.DisableCuts = false
	strict.MinCutArea = max(base.MinCutArea*2, model.DefaultMinCutArea)
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Cut Area > %d (double)", strict.MinCutArea),
		Settings: strict,
	})

	return scenarios
}
