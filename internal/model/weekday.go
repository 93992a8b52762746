package model

import (
	"fmt"
	"strings"
	"time"
)

// DayName название дня недели в конфигурации таймслотов
type DayName string

const (
	Monday    DayName = "Monday"
	Tuesday   DayName = "Tuesday"
	Wednesday DayName = "Wednesday"
	Thursday  DayName = "Thursday"
	Friday    DayName = "Friday"
	Saturday  DayName = "Saturday"
	Sunday    DayName = "Sunday"
)

// WeekDays все дни недели в каноническом порядке (с понедельника)
var WeekDays = []DayName{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDayName разбирает название дня без учёта регистра
func ParseDayName(s string) (DayName, error) {
	s = strings.TrimSpace(s)
	for _, d := range WeekDays {
		if strings.EqualFold(string(d), s) || (len(s) == 3 && strings.EqualFold(string(d)[:3], s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// DayNameOf возвращает название дня для time.Weekday
func DayNameOf(wd time.Weekday) DayName {
	if wd == time.Sunday {
		return Sunday
	}
	return WeekDays[int(wd)-1]
}

// Weekday конвертирует обратно в time.Weekday
func (d DayName) Weekday() time.Weekday {
	for i, wd := range WeekDays {
		if wd == d {
			return time.Weekday((i + 1) % 7)
		}
	}
	return -1
}

// Valid проверяет что это один из 7 дней
func (d DayName) Valid() bool {
	return d.Weekday() >= 0
}

// Index позиция дня в каноническом порядке, -1 для неизвестного
func (d DayName) Index() int {
	for i, wd := range WeekDays {
		if wd == d {
			return i
		}
	}
	return -1
}
