// Package model holds pieces shared by the entity packages under it.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Timestamps are set by the database.
type Timestamps struct {
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// Items wraps a list response.
type Items[T any] struct {
	Items []T `json:"items"`
}

func NewItems[T any](items []T) Items[T] {
	if items == nil {
		items = []T{}
	}
	return Items[T]{Items: items}
}

// BooleanMessage answers yes/no operations such as registration.
type BooleanMessage struct {
	Data bool `json:"data"`
}

// StringMessage carries a single string.
type StringMessage struct {
	Data string `json:"data"`
}

// DateLayout is the wire format of every date field.
const DateLayout = time.DateOnly

// ParseDate parses the first ten characters of s as YYYY-MM-DD. An empty
// string yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// OrDefault returns def when v is empty.
func OrDefault(v, def []string) []string {
	if len(v) == 0 {
		return append([]string(nil), def...)
	}
	return v
}

// NonNil turns a nil slice into an empty one so it encodes as [].
func NonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// EmptyPayload is the request of endpoints that take no input.
type EmptyPayload struct{}

func (p *EmptyPayload) Validate() error {
	return nil
}
