package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Collaborator dates arrive as zone-less LocalDateTime strings, RFC 3339 or plain dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Date is a nullable timestamp tolerant of the layouts the collaborator emits.
type Date struct {
	time.Time
}

func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

func ParseDate(value string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("unsupported date format: %q", value)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if value == "" {
		return nil
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02T15:04:05"))
}

// DateOrZero unwraps an optional date.
func DateOrZero(d *Date) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
