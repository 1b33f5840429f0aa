package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// IntList is a list of integer percentages stored as a JSON text column.
type IntList []int

// Value implements driver.Valuer.
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		l = IntList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *IntList) Scan(value interface{}) error {
	if value == nil {
		*l = IntList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into IntList", value)
	}
}

// Ascending returns the thresholds sorted low to high.
func (l IntList) Ascending() []int {
	out := make([]int, len(l))
	copy(out, l)
	sort.Ints(out)
	return out
}

// AlertLog maps an alert threshold percentage to the timestamps at which
// that alert was sent. History is append-only; the 24-hour cooldown rule
// lives entirely behind LastSentAt and RecordSent.
type AlertLog map[int][]time.Time

// Value implements driver.Valuer.
func (a AlertLog) Value() (driver.Value, error) {
	if a == nil {
		a = AlertLog{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (a *AlertLog) Scan(value interface{}) error {
	if value == nil {
		*a = AlertLog{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into AlertLog", value)
	}
}

// LastSentAt returns the most recent timestamp recorded for the threshold,
// or the zero time when the threshold has never fired.
func (a AlertLog) LastSentAt(threshold int) time.Time {
	sent := a[threshold]
	var last time.Time
	for _, ts := range sent {
		if ts.After(last) {
			last = ts
		}
	}
	return last
}

// RecordSent appends a send timestamp for the threshold.
func (a *AlertLog) RecordSent(threshold int, when time.Time) {
	if *a == nil {
		*a = AlertLog{}
	}
	(*a)[threshold] = append((*a)[threshold], when)
}
