package model

// Ожидаемые от пользователя действия в диалоге
const (
	AwaitingLoginEmail       = "login_email"
	AwaitingLoginPassword    = "login_password"
	AwaitingRegisterEmail    = "register_email"
	AwaitingRegisterPassword = "register_password"
	AwaitingNewCategory      = "new_category"
	AwaitingExpenseInput     = "expense_input"
	AwaitingReceipt          = "receipt"
	AwaitingMonthlyGoal      = "monthly_goal"
	AwaitingSpendingGoals    = "spending_goals"
	AwaitingNewPassword      = "new_password"
)

// UserState представляет текущее состояние диалога с пользователем
type UserState struct {
	AwaitingAction   string
	SelectedCategory string
	PendingEmail     string

	// Незавершенный расход: сумма и описание уже введены,
	// ожидается фото чека или пропуск
	PendingAmount      float64
	PendingDescription string
}
