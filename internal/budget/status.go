package budget

import (
	"fmt"
	"math"
)

// Tier — дискретная оценка состояния бюджета
type Tier int

const (
	TierNoBudget Tier = iota
	TierGood
	TierWatch
	TierNearing
	TierOver
)

func (t Tier) String() string {
	switch t {
	case TierNoBudget:
		return "no_budget"
	case TierGood:
		return "good"
	case TierWatch:
		return "watch"
	case TierNearing:
		return "nearing"
	case TierOver:
		return "over"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Status — результат оценки бюджета за период.
// Percentage — "сырой" процент без ограничений, по нему выбирается Tier;
// DisplayPercentage обрезан до [0, 100] для прогресс-бара.
type Status struct {
	Percentage        int
	DisplayPercentage int
	Remaining         float64
	Tier              Tier
	OverBy            int

	// Цели min/max проносятся дальше для отображения и линий на графике,
	// на выбор Tier они не влияют
	MinGoal *float64
	MaxGoal *float64
}

// Evaluate классифицирует расходы относительно бюджета.
// Чистая функция без побочных эффектов.
func Evaluate(totalBudget, totalSpend float64, minGoal, maxGoal *float64) Status {
	status := Status{
		Remaining: totalBudget - totalSpend,
		MinGoal:   minGoal,
		MaxGoal:   maxGoal,
	}

	if totalBudget <= 0 {
		status.Tier = TierNoBudget
		return status
	}

	p := int(math.Floor(100 * totalSpend / totalBudget))
	status.Percentage = p
	status.DisplayPercentage = clamp(p, 0, 100)

	switch {
	case p <= 30:
		status.Tier = TierGood
	case p <= 70:
		status.Tier = TierWatch
	case p <= 100:
		status.Tier = TierNearing
	default:
		status.Tier = TierOver
		status.OverBy = p - 100
	}

	return status
}

// Message возвращает текст статуса для экрана обзора
func (s Status) Message() string {
	switch s.Tier {
	case TierNoBudget:
		return "Установите бюджет, чтобы начать!"
	case TierGood:
		return fmt.Sprintf("📊 %d%% — расходы в норме!", s.Percentage)
	case TierWatch:
		return fmt.Sprintf("⚠️ %d%% — следите за расходами.", s.Percentage)
	case TierNearing:
		return fmt.Sprintf("❗ %d%% — бюджет почти исчерпан!", s.Percentage)
	default:
		return fmt.Sprintf("🚨 Бюджет превышен на %d%%!", s.OverBy)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
