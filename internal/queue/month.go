package queue

import (
	"fmt"
	"sort"
	"time"
)

// MonthKey календарный месяц в формате "YYYY-MM"
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf возвращает месяц, в который попадает t
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey разбирает "YYYY-MM"
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	return MonthOf(t), nil
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Add сдвигает месяц на n (может быть отрицательным)
func (m MonthKey) Add(n int) MonthKey {
	return MonthOf(time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// Before сравнивает месяцы
func (m MonthKey) Before(other MonthKey) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Range возвращает [начало месяца, начало следующего) в указанной зоне
func (m MonthKey) Range(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// MonthWindow упорядоченное множество загруженных месяцев. Только растёт.
type MonthWindow struct {
	months []MonthKey
}

// DefaultWindow текущий и следующий месяц
func DefaultWindow(now time.Time) MonthWindow {
	current := MonthOf(now)
	return NewMonthWindow(current, current.Add(1))
}

// NewMonthWindow создаёт окно из набора месяцев
func NewMonthWindow(months ...MonthKey) MonthWindow {
	var w MonthWindow
	for _, m := range months {
		w.Add(m)
	}
	return w
}

// Add добавляет месяц. Возвращает false, если он уже был в окне.
func (w *MonthWindow) Add(m MonthKey) bool {
	i := sort.Search(len(w.months), func(i int) bool { return !w.months[i].Before(m) })
	if i < len(w.months) && w.months[i] == m {
		return false
	}
	w.months = append(w.months, MonthKey{})
	copy(w.months[i+1:], w.months[i:])
	w.months[i] = m
	return true
}

// Contains проверяет наличие месяца в окне
func (w MonthWindow) Contains(m MonthKey) bool {
	i := sort.Search(len(w.months), func(i int) bool { return !w.months[i].Before(m) })
	return i < len(w.months) && w.months[i] == m
}

// Next месяц после последнего загруженного
func (w MonthWindow) Next() (MonthKey, bool) {
	if len(w.months) == 0 {
		return MonthKey{}, false
	}
	return w.months[len(w.months)-1].Add(1), true
}

// Previous месяц перед первым загруженным
func (w MonthWindow) Previous() (MonthKey, bool) {
	if len(w.months) == 0 {
		return MonthKey{}, false
	}
	return w.months[0].Add(-1), true
}

// Keys копия месяцев окна по возрастанию
func (w MonthWindow) Keys() []MonthKey {
	return append([]MonthKey(nil), w.months...)
}

// Strings месяцы окна в виде "YYYY-MM"
func (w MonthWindow) Strings() []string {
	out := make([]string, len(w.months))
	for i, m := range w.months {
		out[i] = m.String()
	}
	return out
}

func (w MonthWindow) Len() int {
	return len(w.months)
}

// Clone независимая копия окна
func (w MonthWindow) Clone() MonthWindow {
	return MonthWindow{months: w.Keys()}
}
