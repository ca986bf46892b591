package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateFormat канонический формат даты
const DateFormat = "2006-01-02"

// ErrInvalidDate возвращается при некорректной дате
var ErrInvalidDate = errors.New("invalid date format")

// dateLayouts допустимые входные форматы даты.
// "2006-1-2" принимает как "2024-06-01", так и "2024-6-1".
var dateLayouts = []string{
	"2006-1-2",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate парсит дату и приводит её к полуночи UTC.
// Для timestamp-значений (RFC3339) берется календарная дата в их собственном часовом поясе.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateDate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// TruncateDate отбрасывает время суток и часовой пояс, оставляя календарную дату в UTC
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate форматирует дату в "YYYY-MM-DD"
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
