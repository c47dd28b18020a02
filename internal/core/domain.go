package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date form used on the wire and in forms.
const DateLayout = "2006-01-02"

// AllCategories is the category filter wildcard.
const AllCategories = "all"

// Frequency labels offered by the reminder form. Stored frequencies are free
// text and are never checked against this list.
const (
	OneTime = "one-time"
	Weekly  = "weekly"
	Monthly = "monthly"
	Yearly  = "yearly"
)

// Frequencies lists the labels in display order.
var Frequencies = []string{OneTime, Weekly, Monthly, Yearly}

type (
	// Date is a calendar date at UTC midnight.
	Date struct {
		time.Time
	}

	Expense struct {
		ID          int64  `json:"id"`
		Description string `json:"description"`
		Amount      Money  `json:"amount"`
		Category    string `json:"category"`
		Date        Date   `json:"date"`
	}

	Reminder struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Amount    Money  `json:"amount"`
		Date      Date   `json:"date"`
		Frequency string `json:"frequency"`
		Created   Date   `json:"created"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyFrequency   = errors.New("empty frequency")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now, read in now's own location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	if err := e.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Err: err}
	}
	if strings.TrimSpace(e.Category) == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	if e.Date.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	return nil
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if err := r.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Err: err}
	}
	if r.Date.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	if strings.TrimSpace(r.Frequency) == "" {
		return &ValidationError{Field: "frequency", Err: ErrEmptyFrequency}
	}
	return nil
}
