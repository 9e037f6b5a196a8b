package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SpriteCut/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(testSettings(512, 512))
	require.Len(t, scenarios, 4)

	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, "Rectangles Only", scenarios[1].Name)
	assert.True(t, scenarios[1].Settings.DisableCuts)
	assert.Equal(t, model.DefaultMinCutArea/2, scenarios[2].Settings.MinCutArea)
	assert.Equal(t, model.DefaultMinCutArea*2, scenarios[3].Settings.MinCutArea)
	for _, s := range scenarios {
		assert.Equal(t, 512, s.Settings.Width)
	}
}

func TestBuildDefaultScenarios_RectanglesBase(t *testing.T) {
	base := testSettings(512, 512)
	base.DisableCuts = true

	scenarios := BuildDefaultScenarios(base)
	require.Len(t, scenarios, 3)
	assert.False(t, scenarios[1].Settings.DisableCuts, "alternatives turn cutting back on")
}

func TestCompareScenarios(t *testing.T) {
	calls := 0
	reshape := func(s model.PackSettings) []model.Sprite {
		calls++
		if s.DisableCuts {
			return []model.Sprite{square(0, 200, 200), square(1, 60, 60)}
		}
		return []model.Sprite{
			cutSprite(0, 200, 200, map[model.Corner]int{model.BottomRight: 99}),
			square(1, 60, 60),
		}
	}

	base := testSettings(240, 240)
	rects := base
	rects.DisableCuts = true
	results := CompareScenarios([]ComparisonScenario{
		{Name: "cut", Settings: base},
		{Name: "rect", Settings: rects},
	}, reshape)

	require.Len(t, results, 2)
	assert.Equal(t, 2, calls)

	assert.Equal(t, "cut", results[0].Scenario.Name)
	assert.Equal(t, 2, results[0].FittedCount)
	assert.Equal(t, 0, results[0].UnplacedCount)

	assert.Equal(t, 1, results[1].FittedCount)
	assert.Equal(t, 1, results[1].UnplacedCount)
	assert.Greater(t, results[0].Efficiency, results[1].Efficiency)
	assert.Greater(t, results[0].PolygonFill, 0.0)
}
