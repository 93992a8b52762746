package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// AssignedProfile профиль, закреплённый за таймслотом
type AssignedProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// TimeslotConfig день недели -> время "HH:MM" -> закреплённые профили.
// Пустой список профилей означает generic слот (постить может любой профиль).
type TimeslotConfig map[DayName]map[string][]AssignedProfile

// ParseClock разбирает строку "HH:MM"
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// Validate проверяет ключи дней и формат времени
func (c TimeslotConfig) Validate() error {
	for day, times := range c {
		if !day.Valid() {
			return fmt.Errorf("unknown weekday %q", day)
		}
		for t := range times {
			if _, _, err := ParseClock(t); err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
		}
	}
	return nil
}

// ActiveDays дни, в которых есть хотя бы одно время, в каноническом порядке
func (c TimeslotConfig) ActiveDays() []DayName {
	var days []DayName
	for _, d := range WeekDays {
		if len(c[d]) > 0 {
			days = append(days, d)
		}
	}
	return days
}

// IsActive проверяет активен ли день
func (c TimeslotConfig) IsActive(day DayName) bool {
	return len(c[day]) > 0
}

// TimesFor отсортированные времена одного дня
func (c TimeslotConfig) TimesFor(day DayName) []string {
	times := make([]string, 0, len(c[day]))
	for t := range c[day] {
		times = append(times, t)
	}
	sort.Strings(times)
	return times
}

// PredefinedTimes объединение времён всех активных дней без повторов
func (c TimeslotConfig) PredefinedTimes() []string {
	seen := make(map[string]struct{})
	var times []string
	for _, d := range c.ActiveDays() {
		for t := range c[d] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			times = append(times, t)
		}
	}
	sort.Strings(times)
	return times
}

// Profiles профили, закреплённые за слотом (nil для generic)
func (c TimeslotConfig) Profiles(day DayName, clock string) []AssignedProfile {
	return c[day][clock]
}

// Clone глубокая копия конфигурации
func (c TimeslotConfig) Clone() TimeslotConfig {
	if c == nil {
		return nil
	}
	out := make(TimeslotConfig, len(c))
	for day, times := range c {
		inner := make(map[string][]AssignedProfile, len(times))
		for t, profiles := range times {
			if profiles == nil {
				inner[t] = nil
				continue
			}
			inner[t] = append([]AssignedProfile{}, profiles...)
		}
		out[day] = inner
	}
	return out
}

// FromLegacy строит конфигурацию из старого формата дашборда
// {predefinedTimeSlots, activeDays}: каждый активный день получает все времена.
func FromLegacy(times []string, days []string) (TimeslotConfig, error) {
	cfg := make(TimeslotConfig)
	for _, raw := range days {
		day, err := ParseDayName(raw)
		if err != nil {
			return nil, err
		}
		inner := make(map[string][]AssignedProfile, len(times))
		for _, t := range times {
			if _, _, err := ParseClock(t); err != nil {
				return nil, err
			}
			inner[t] = []AssignedProfile{}
		}
		cfg[day] = inner
	}
	return cfg, nil
}

// MarshalTimeslots сериализует конфигурацию в JSON вида day -> time -> profiles
func MarshalTimeslots(c TimeslotConfig) ([]byte, error) {
	if c == nil {
		c = TimeslotConfig{}
	}
	return json.Marshal(c)
}

// UnmarshalTimeslots разбирает JSON вида day -> time -> profiles
func UnmarshalTimeslots(data []byte) (TimeslotConfig, error) {
	cfg := make(TimeslotConfig)
	if len(data) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode timeslots: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
