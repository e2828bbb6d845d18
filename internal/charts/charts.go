package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/akozyrev/budget_bot/internal/service"
)

// ChartGenerator генерирует графики для отчетов
type ChartGenerator struct{}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// GenerateCategoryBarChart создает столбчатую диаграмму трат по категориям
// за период. Цели min/max отображаются опорными линиями по оси Y, диапазон
// оси расширяется так, чтобы вместить максимальную цель.
func (g *ChartGenerator) GenerateCategoryBarChart(stats *service.Statistics) ([]byte, error) {
	if stats == nil || stats.Summary.Empty() {
		return nil, nil // Возвращаем nil, если нет данных для графика
	}

	bars := make([]chart.Value, 0, len(stats.Summary.PerCategory))
	maxAmount := 0.0
	for _, ct := range stats.Summary.PerCategory {
		if ct.Amount > maxAmount {
			maxAmount = ct.Amount
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s: %.0f₽", ct.Category, ct.Amount),
			Value: ct.Amount,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(180),
				FontSize:    10,
				FontColor:   chart.ColorBlack,
			},
		})
	}

	// Ось Y должна вместить и данные, и максимальную цель
	yMax := maxAmount
	if stats.MaxGoal != nil && *stats.MaxGoal > yMax {
		yMax = *stats.MaxGoal
	}
	if yMax <= 0 {
		yMax = 1
	}
	yMax *= 1.1

	// Опорные линии целей
	gridLines := make([]chart.GridLine, 0, 2)
	title := fmt.Sprintf("Траты по категориям: %s", stats.Window.Label)
	if stats.MinGoal != nil {
		gridLines = append(gridLines, chart.GridLine{Value: *stats.MinGoal})
		title += fmt.Sprintf(" | min %.0f₽", *stats.MinGoal)
	}
	if stats.MaxGoal != nil {
		gridLines = append(gridLines, chart.GridLine{Value: *stats.MaxGoal})
		title += fmt.Sprintf(" | max %.0f₽", *stats.MaxGoal)
	}

	graph := chart.BarChart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    1200,
		Height:   600,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f₽", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: yMax,
			},
			GridLines: gridLines,
			GridMajorStyle: chart.Style{
				StrokeColor:     chart.ColorRed.WithAlpha(160),
				StrokeWidth:     2,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category bar chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateBudgetChart создает сравнение бюджета, трат и остатка за период
func (g *ChartGenerator) GenerateBudgetChart(overview *service.Overview) ([]byte, error) {
	if overview == nil {
		return nil, nil
	}

	var totalBudget float64
	if overview.Goals != nil {
		totalBudget = overview.Goals.MonthlyGoal
	}
	if totalBudget <= 0 && overview.Summary.Total <= 0 {
		return nil, nil // Нечего показывать
	}

	bars := []chart.Value{
		{
			Label: fmt.Sprintf("Бюджет: %.0f₽", totalBudget),
			Value: totalBudget,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(100),
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		},
		{
			Label: fmt.Sprintf("Траты: %.0f₽", overview.Summary.Total),
			Value: overview.Summary.Total,
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				FillColor:   chart.ColorRed,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		},
		{
			Label: fmt.Sprintf("Остаток: %.0f₽", overview.Status.Remaining),
			Value: overview.Status.Remaining,
			Style: chart.Style{
				StrokeColor: chart.ColorGreen,
				FillColor:   chart.ColorGreen.WithAlpha(100),
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		},
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("Бюджет за период: %s", overview.Window.Label),
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    1200,
		Height:   600,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f₽", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render budget chart: %w", err)
	}
	return buffer.Bytes(), nil
}
