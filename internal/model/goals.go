package model

// BudgetGoals — цели расходов пользователя, один документ на пользователя.
// Документ перезаписывается при каждом сохранении, история не ведется.
// Незаданные min/max цели остаются nil и сериализуются как NULL,
// они никогда не приводятся к нулю.
type BudgetGoals struct {
	UserID          string   `json:"user_id"`
	MonthlyGoal     float64  `json:"monthly_goal"`
	MinSpendingGoal *float64 `json:"min_spending_goal"`
	MaxSpendingGoal *float64 `json:"max_spending_goal"`
}
