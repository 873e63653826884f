package calendar

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCount indicates a negative business-day count.
var ErrInvalidCount = errors.New("invalid business day count")

// Holiday is one configured holiday entry. Date is "MM-DD". Movable
// holidays (Carnival, Easter and friends) are accepted but only applied
// when the entry pins them to a concrete date; they are never derived.
type Holiday struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"` // "fixed" (default) or "movable"
	Year int    `yaml:"year,omitempty"`
}

func (h Holiday) monthDay() (time.Month, int, error) {
	var month, day int
	if _, err := fmt.Sscanf(h.Date, "%d-%d", &month, &day); err != nil {
		return 0, 0, fmt.Errorf("invalid date %q (want MM-DD)", h.Date)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("invalid date %q (want MM-DD)", h.Date)
	}
	return time.Month(month), day, nil
}

// DefaultHolidays returns the Brazilian national fixed-date holidays.
func DefaultHolidays() []Holiday {
	return []Holiday{
		{Date: "01-01", Name: "Confraternização Universal", Type: "fixed"},
		{Date: "04-21", Name: "Tiradentes", Type: "fixed"},
		{Date: "05-01", Name: "Dia do Trabalho", Type: "fixed"},
		{Date: "09-07", Name: "Independência do Brasil", Type: "fixed"},
		{Date: "10-12", Name: "Nossa Senhora Aparecida", Type: "fixed"},
		{Date: "11-02", Name: "Finados", Type: "fixed"},
		{Date: "11-15", Name: "Proclamação da República", Type: "fixed"},
		{Date: "12-25", Name: "Natal", Type: "fixed"},
	}
}

// Default returns a calendar with the Brazilian fixed-date holidays.
func Default() *Calendar {
	cal, err := New(DefaultHolidays())
	if err != nil {
		panic(err) // defaults are static and valid
	}
	return cal
}

type holidayFile struct {
	Holidays []Holiday `yaml:"holidays"`
}

// LoadFile reads a YAML holiday file and builds a calendar from it.
func LoadFile(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday file: %w", err)
	}
	var file holidayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse holiday file: %w", err)
	}
	return New(file.Holidays)
}
