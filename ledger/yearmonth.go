package ledger

import (
	"fmt"
	"time"
)

const yearMonthLayout = "2006-01"

// YearMonth identifies one calendar month of accounts.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth normalizes month overflow, so NewYearMonth(2024, 13) is 2025-01.
func NewYearMonth(year int, month time.Month) YearMonth {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return YearMonth{}, NewParseError("month", s, err)
	}
	return YearMonthOf(t), nil
}

// MustParseYearMonth is like ParseYearMonth but panics on error.
func MustParseYearMonth(s string) YearMonth {
	ym, err := ParseYearMonth(s)
	if err != nil {
		panic(err)
	}
	return ym
}

func (ym YearMonth) IsZero() bool { return ym.Year == 0 && ym.Month == 0 }

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// First returns midnight UTC on the first day of the month.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (ym YearMonth) AddMonths(n int) YearMonth { return NewYearMonth(ym.Year, ym.Month+time.Month(n)) }
func (ym YearMonth) Next() YearMonth          { return ym.AddMonths(1) }
func (ym YearMonth) Prev() YearMonth          { return ym.AddMonths(-1) }

// LastDay returns the number of days in the month.
func (ym YearMonth) LastDay() int {
	return ym.First().AddDate(0, 1, -1).Day()
}

// Day returns the absolute date of the given day of the month.
func (ym YearMonth) Day(day int) time.Time {
	return time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls within the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) MarshalText() ([]byte, error) { return []byte(ym.String()), nil }

func (ym *YearMonth) UnmarshalText(text []byte) error {
	parsed, err := ParseYearMonth(string(text))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

const dateLayout = "2006-01-02"

// ParseDate parses an ISO YYYY-MM-DD date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, NewParseError("date", s, err)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(dateLayout) }
