package budget

import (
	"github.com/akozyrev/budget_bot/internal/model"
	"github.com/akozyrev/budget_bot/internal/period"
)

// CategoryTotal — сумма расходов по одной категории
type CategoryTotal struct {
	Category string
	Amount   float64
}

// Summary — результат агрегации расходов за окно.
// PerCategory хранит категории в порядке первого появления в выборке,
// группировка по точному значению строки.
type Summary struct {
	Total       float64
	PerCategory []CategoryTotal
}

// Empty сообщает, что в окне не оказалось ни одного расхода
func (s Summary) Empty() bool {
	return len(s.PerCategory) == 0
}

// Amounts возвращает суммы по категориям, ключ — точное имя категории
func (s Summary) Amounts() map[string]float64 {
	m := make(map[string]float64, len(s.PerCategory))
	for _, ct := range s.PerCategory {
		m[ct.Category] = ct.Amount
	}
	return m
}

// Aggregate фильтрует расходы по окну и суммирует их.
// Записи с категорией "income" (без учета регистра) исключаются из трат,
// суммы складываются как есть, без нормализации знака.
func Aggregate(expenses []model.Expense, w period.Window) Summary {
	var summary Summary
	index := make(map[string]int)

	for _, e := range expenses {
		if !w.Contains(e.Timestamp) || e.IsIncome() {
			continue
		}

		summary.Total += e.Amount

		i, ok := index[e.Category]
		if !ok {
			i = len(summary.PerCategory)
			index[e.Category] = i
			summary.PerCategory = append(summary.PerCategory, CategoryTotal{Category: e.Category})
		}
		summary.PerCategory[i].Amount += e.Amount
	}

	return summary
}
