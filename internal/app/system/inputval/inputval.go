// Package inputval holds field-level validation for account and event input.
//
// Validators return *apperr.Error values of kind Validation carrying the
// message shown to the caller. Event text is passed through
// htmlsanitize.PlainText before the length checks.
package inputval

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/waffle/pantry/validate"
)

// Bounds for event and account fields.
const (
	TitleMin       = 3
	TitleMax       = 100
	DescriptionMin = 10
	DescriptionMax = 1000
	NameMin        = 2
	NameMax        = 50
	PasswordMin    = 6
)

// PasswordMaxBytes is bcrypt's input limit.
const PasswordMaxBytes = 72

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

var timeRE = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Title returns the cleaned title or a validation error.
func Title(s string) (string, error) {
	s = htmlsanitize.PlainText(s)
	if s == "" {
		return "", apperr.Validation("Event title is required")
	}
	if n := utf8.RuneCountInString(s); n < TitleMin || n > TitleMax {
		return "", apperr.Validation("Title must be between 3 and 100 characters")
	}
	return s, nil
}

// Description returns the cleaned description or a validation error.
func Description(s string) (string, error) {
	s = htmlsanitize.PlainText(s)
	if s == "" {
		return "", apperr.Validation("Event description is required")
	}
	if n := utf8.RuneCountInString(s); n < DescriptionMin || n > DescriptionMax {
		return "", apperr.Validation("Description must be between 10 and 1000 characters")
	}
	return s, nil
}

// Location returns the cleaned location or a validation error.
func Location(s string) (string, error) {
	s = htmlsanitize.PlainText(s)
	if s == "" {
		return "", apperr.Validation("Event location is required")
	}
	return s, nil
}

// TitleUpdate validates a title supplied in a partial update, where an
// empty value is a length violation rather than a missing field.
func TitleUpdate(s string) (string, error) {
	if htmlsanitize.PlainText(s) == "" {
		return "", apperr.Validation("Title must be between 3 and 100 characters")
	}
	return Title(s)
}

// DescriptionUpdate is the partial-update counterpart of Description.
func DescriptionUpdate(s string) (string, error) {
	if htmlsanitize.PlainText(s) == "" {
		return "", apperr.Validation("Description must be between 10 and 1000 characters")
	}
	return Description(s)
}

// LocationUpdate is the partial-update counterpart of Location.
func LocationUpdate(s string) (string, error) {
	s = htmlsanitize.PlainText(s)
	if s == "" {
		return "", apperr.Validation("Location cannot be empty")
	}
	return s, nil
}

// Time checks the HH:MM 24-hour pattern.
func Time(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Validation("Event time is required")
	}
	if !timeRE.MatchString(s) {
		return "", apperr.Validation("Please provide a valid time in HH:MM format")
	}
	return s, nil
}

// MaxParticipants checks an optional capacity.
func MaxParticipants(n *int) error {
	if n != nil && *n < 1 {
		return apperr.Validation("Maximum participants must be at least 1")
	}
	return nil
}

// ParseDate accepts a calendar date ("2026-10-20") or an RFC 3339 timestamp
// and returns the calendar day at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.Validation("Event date is required")
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d.UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(ts.UTC()), nil
	}
	return time.Time{}, apperr.Validation("Please provide a valid date")
}

// DayOf truncates t to midnight UTC of its calendar day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateNotPast rejects a date whose calendar day is before now's calendar day.
// Time of day is ignored, so an event dated today is accepted.
func DateNotPast(date, now time.Time) error {
	if DayOf(date).Before(DayOf(now)) {
		return apperr.Validation("Event date cannot be in the past")
	}
	return nil
}

// Name validates a display name.
func Name(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Validation("Name is required")
	}
	if n := utf8.RuneCountInString(s); n < NameMin || n > NameMax {
		return "", apperr.Validation("Name must be between 2 and 50 characters")
	}
	return s, nil
}

// Email trims and lowercases s and checks that it is a bare address.
func Email(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", apperr.Validation("Email is required")
	}
	if !IsValidEmail(s) {
		return "", apperr.Validation("Please provide a valid email")
	}
	return s, nil
}

// IsValidEmail reports whether s is a bare addr-spec (no display name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	if !validate.SimpleEmailValid(s) {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	return validDotted(local) && validDotted(domain)
}

func validDotted(s string) bool {
	return s != "" && !strings.HasPrefix(s, ".") && !strings.HasSuffix(s, ".") && !strings.Contains(s, "..")
}

// Password checks the length bounds. The upper bound counts bytes, not
// characters.
func Password(s string) error {
	if s == "" {
		return apperr.Validation("Password is required")
	}
	if utf8.RuneCountInString(s) < PasswordMin {
		return apperr.Validation("Password must be at least 6 characters long")
	}
	if len(s) > PasswordMaxBytes {
		return apperr.Validation("Password cannot be longer than 72 bytes")
	}
	return nil
}
