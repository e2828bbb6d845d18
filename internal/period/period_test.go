package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDaily(t *testing.T) {
	ref := time.Date(2025, 3, 12, 15, 30, 45, 0, time.UTC)
	w := Resolve(Daily, ref)

	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, ref, w.End)
	assert.Equal(t, "12.03.2025", w.Label)
}

func TestResolveWeeklyStartsOnMonday(t *testing.T) {
	// 12 марта 2025 — среда, начало недели — понедельник 10 марта
	ref := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	w := Resolve(Weekly, ref)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Monday, w.Start.Weekday())
	assert.Equal(t, ref, w.End, "week in progress is capped at the reference moment")
}

func TestResolveWeeklyRefOnMonday(t *testing.T) {
	ref := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	w := Resolve(Weekly, ref)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, ref, w.End)
}

func TestResolveMonthly(t *testing.T) {
	ref := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	w := Resolve(Monthly, ref)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, ref, w.End)
	assert.Equal(t, "March 2025", w.Label)
}

func TestResolveMonthlyAtMonthEnd(t *testing.T) {
	// Опорный момент в самом конце месяца: окно совпадает с полным месяцем
	ref := time.Date(2025, 3, 31, 23, 59, 59, 999_000_000, time.UTC)
	w := Resolve(Monthly, ref)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, ref, w.End)
}

func TestResolveYearly(t *testing.T) {
	ref := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	w := Resolve(Yearly, ref)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, ref, w.End)
	assert.Equal(t, "2025", w.Label)
}

func TestResolveUnknownKindFallsBackToMonthly(t *testing.T) {
	ref := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	w := Resolve(Kind(42), ref)

	assert.Equal(t, Resolve(Monthly, ref), w)
}

func TestResolveStartNeverAfterEnd(t *testing.T) {
	// Полночь первого дня месяца: окно вырождается, но остается корректным
	ref := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, kind := range []Kind{Daily, Weekly, Monthly, Yearly} {
		w := Resolve(kind, ref)
		assert.False(t, w.Start.After(w.End), "kind %s", kind)
	}
}

func TestResolveUsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	ref := time.Date(2025, 3, 12, 1, 0, 0, 0, loc)
	w := Resolve(Daily, ref)

	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, loc), w.Start)
}

func TestWindowContainsBoundsInclusive(t *testing.T) {
	ref := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	w := Resolve(Daily, ref)

	assert.True(t, w.Contains(w.StartMillis()))
	assert.True(t, w.Contains(w.EndMillis()))
	assert.False(t, w.Contains(w.StartMillis()-1))
	assert.False(t, w.Contains(w.EndMillis()+1))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		ok    bool
	}{
		{"daily", Daily, true},
		{"weekly", Weekly, true},
		{"monthly", Monthly, true},
		{"yearly", Yearly, true},
		{"quarterly", Monthly, false},
		{"", Monthly, false},
	}

	for _, tt := range tests {
		kind, ok := ParseKind(tt.input)
		require.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.kind, kind, "input %q", tt.input)
	}
}
