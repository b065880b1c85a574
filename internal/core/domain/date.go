package domain

import (
	"fmt"
	"strings"
	"time"
)

// serviceDateLayout is the M/D/YY wire format used as the natural key of a service
const serviceDateLayout = "1/2/06"

// ServiceDate is a calendar date key in M/D/YY form, e.g. "7/15/25"
type ServiceDate string

// ParseServiceDate validates s and returns its canonical form (no zero padding).
func ParseServiceDate(s string) (ServiceDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	t, err := time.Parse(serviceDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: date %q must be M/D/YY", ErrInvalidInput, s)
	}
	return ServiceDate(t.Format(serviceDateLayout)), nil
}

// NewServiceDate formats a time as a service date key
func NewServiceDate(t time.Time) ServiceDate {
	return ServiceDate(t.Format(serviceDateLayout))
}

// Time returns the date as midnight UTC; zero time if the key is malformed
func (d ServiceDate) Time() time.Time {
	t, err := time.Parse(serviceDateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// String returns the wire form of the date
func (d ServiceDate) String() string {
	return string(d)
}
