package period

import (
	"fmt"
	"log"
	"time"
)

// Kind определяет тип отчетного периода
type Kind int

const (
	Daily Kind = iota
	Weekly
	Monthly
	Yearly
)

func (k Kind) String() string {
	switch k {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind разбирает название периода из callback-данных
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "daily":
		return Daily, true
	case "weekly":
		return Weekly, true
	case "monthly":
		return Monthly, true
	case "yearly":
		return Yearly, true
	}
	return Monthly, false
}

// Window — отчетное окно [Start, End] с подписью для отображения.
// Границы вычисляются в часовом поясе опорного момента, окно никогда
// не выходит за опорный момент ("bounded by now").
type Window struct {
	Start time.Time
	End   time.Time
	Label string
}

// StartMillis возвращает начало окна в миллисекундах epoch
func (w Window) StartMillis() int64 { return w.Start.UnixMilli() }

// EndMillis возвращает конец окна в миллисекундах epoch
func (w Window) EndMillis() int64 { return w.End.UnixMilli() }

// Contains проверяет, попадает ли момент (мс epoch) в окно включительно
func (w Window) Contains(ts int64) bool {
	return ts >= w.StartMillis() && ts <= w.EndMillis()
}

// Resolve вычисляет отчетное окно для периода kind относительно момента ref.
// Неделя начинается с понедельника. Неизвестный период трактуется как
// месячный.
func Resolve(kind Kind, ref time.Time) Window {
	loc := ref.Location()

	switch kind {
	case Daily:
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
		return Window{
			Start: start,
			End:   ref,
			Label: start.Format("02.01.2006"),
		}
	case Weekly:
		start := startOfWeek(ref)
		end := capAt(start.AddDate(0, 0, 7).Add(-time.Millisecond), ref)
		return Window{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("%s - %s", start.Format("02.01.2006"), end.Format("02.01.2006")),
		}
	case Monthly:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		end := capAt(start.AddDate(0, 1, 0).Add(-time.Millisecond), ref)
		return Window{
			Start: start,
			End:   end,
			Label: start.Format("January 2006"),
		}
	case Yearly:
		start := time.Date(ref.Year(), 1, 1, 0, 0, 0, 0, loc)
		end := capAt(start.AddDate(1, 0, 0).Add(-time.Millisecond), ref)
		return Window{
			Start: start,
			End:   end,
			Label: start.Format("2006"),
		}
	default:
		log.Printf("unknown period kind %d, falling back to monthly", int(kind))
		return Resolve(Monthly, ref)
	}
}

// startOfWeek возвращает полночь последнего понедельника не позже ref
func startOfWeek(ref time.Time) time.Time {
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	// time.Weekday: воскресенье = 0, понедельник = 1
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

func capAt(end, ref time.Time) time.Time {
	if end.After(ref) {
		return ref
	}
	return end
}
