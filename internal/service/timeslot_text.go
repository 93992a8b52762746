package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

// ParseTimeslots разбирает текст вида
//
//	Monday: 09:00, 13:00
//	Wed: 18:30
//
// Пустые строки игнорируются, повтор дня объединяет времена.
func ParseTimeslots(text string) (model.TimeslotConfig, error) {
	cfg := make(model.TimeslotConfig)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		dayPart, timesPart, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: expected \"Day: HH:MM, HH:MM\"", ErrInvalidTimeslots, i+1)
		}
		day, err := model.ParseDayName(dayPart)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidTimeslots, i+1, err)
		}

		inner := cfg[day]
		if inner == nil {
			inner = make(map[string][]model.AssignedProfile)
			cfg[day] = inner
		}
		for _, raw := range strings.FieldsFunc(timesPart, func(r rune) bool { return r == ',' || r == ' ' || r == ';' }) {
			if _, _, err := model.ParseClock(raw); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidTimeslots, i+1, err)
			}
			inner[raw] = []model.AssignedProfile{}
		}
		if len(inner) == 0 {
			return nil, fmt.Errorf("%w: line %d: no times for %s", ErrInvalidTimeslots, i+1, day)
		}
	}

	if len(cfg.ActiveDays()) == 0 {
		return nil, fmt.Errorf("%w: no days", ErrInvalidTimeslots)
	}
	return cfg, nil
}

// FormatTimeslots обратное к ParseTimeslots представление, дни по порядку недели
func FormatTimeslots(cfg model.TimeslotConfig) string {
	var b strings.Builder
	for _, day := range cfg.ActiveDays() {
		fmt.Fprintf(&b, "%s: %s\n", day, strings.Join(cfg.TimesFor(day), ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// KeepProfiles переносит закреплённые профили из старой конфигурации
// в новую для совпадающих (день, время)
func KeepProfiles(next, prev model.TimeslotConfig) model.TimeslotConfig {
	out := next.Clone()
	for day, times := range out {
		for clock := range times {
			if profiles := prev.Profiles(day, clock); len(profiles) > 0 {
				times[clock] = append([]model.AssignedProfile{}, profiles...)
			}
		}
	}
	return out
}

// AssignedNames имена профилей слота через запятую, "any" для generic
func AssignedNames(profiles []model.AssignedProfile) string {
	if len(profiles) == 0 {
		return "any"
	}
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
