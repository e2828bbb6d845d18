package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akozyrev/budget_bot/internal/budget"
	"github.com/akozyrev/budget_bot/internal/model"
	"github.com/akozyrev/budget_bot/internal/period"
	"github.com/akozyrev/budget_bot/internal/service"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func testStatistics() *service.Statistics {
	return &service.Statistics{
		Window: period.Window{
			Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
			Label: "March 2025",
		},
		Summary: budget.Summary{
			Total: 450,
			PerCategory: []budget.CategoryTotal{
				{Category: "Продукты", Amount: 300},
				{Category: "Транспорт", Amount: 150},
			},
		},
	}
}

func TestGenerateCategoryBarChart(t *testing.T) {
	g := NewChartGenerator()

	img, err := g.GenerateCategoryBarChart(testStatistics())
	require.NoError(t, err)
	require.NotEmpty(t, img)
	assert.Equal(t, pngHeader, img[:4], "output must be a PNG image")
}

func TestGenerateCategoryBarChartWithGoalLines(t *testing.T) {
	g := NewChartGenerator()
	minGoal, maxGoal := 100.0, 1000.0

	stats := testStatistics()
	stats.MinGoal = &minGoal
	stats.MaxGoal = &maxGoal

	img, err := g.GenerateCategoryBarChart(stats)
	require.NoError(t, err)
	require.NotEmpty(t, img)
	assert.Equal(t, pngHeader, img[:4])
}

func TestGenerateCategoryBarChartEmpty(t *testing.T) {
	g := NewChartGenerator()

	img, err := g.GenerateCategoryBarChart(nil)
	require.NoError(t, err)
	assert.Nil(t, img)

	img, err = g.GenerateCategoryBarChart(&service.Statistics{})
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestGenerateBudgetChart(t *testing.T) {
	g := NewChartGenerator()

	overview := &service.Overview{
		Window: period.Window{Label: "March 2025"},
		Summary: budget.Summary{
			Total:       400,
			PerCategory: []budget.CategoryTotal{{Category: "Продукты", Amount: 400}},
		},
		Status: budget.Evaluate(1000, 400, nil, nil),
		Goals:  &model.BudgetGoals{MonthlyGoal: 1000},
	}

	img, err := g.GenerateBudgetChart(overview)
	require.NoError(t, err)
	require.NotEmpty(t, img)
	assert.Equal(t, pngHeader, img[:4])
}

func TestGenerateBudgetChartNothingToShow(t *testing.T) {
	g := NewChartGenerator()

	img, err := g.GenerateBudgetChart(nil)
	require.NoError(t, err)
	assert.Nil(t, img)

	img, err = g.GenerateBudgetChart(&service.Overview{})
	require.NoError(t, err)
	assert.Nil(t, img)
}
