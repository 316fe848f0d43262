// Package schedule validates and normalizes alert scheduling payloads.
// An alert is either calendar-anchored ("absolute") or anchored to the
// participant's enrollment ("relative"); construction is mode-exclusive,
// so the inactive mode's fields can never leak into a validated schedule.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	ModeAbsolute = "absolute"
	ModeRelative = "relative"

	RepeatNever   = "never"
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
	RepeatYearly  = "yearly"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// InvalidScheduleError is non-retryable: the submitted schedule has to be
// corrected by the study designer, never defaulted by the server.
type InvalidScheduleError struct {
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return "invalid schedule: " + e.Reason
}

func invalid(format string, args ...interface{}) error {
	return &InvalidScheduleError{Reason: fmt.Sprintf(format, args...)}
}

// Schedule is the validated, mode-exclusive scheduling variant of an alert.
type Schedule interface {
	Mode() string
}

type Absolute struct {
	StartDateTime string
	Until         string // empty unless the alert repeats
}

func (Absolute) Mode() string { return ModeAbsolute }

type Relative struct {
	OffsetDays  int
	OffsetTime  string
	RepeatCount *int // nil unless the alert repeats
}

func (Relative) Mode() string { return ModeRelative }

// Raw is the untrusted scheduling slice of an alert payload, before any
// mode rules have been applied.
type Raw struct {
	ScheduleMode  string
	StartDateTime *string
	OffsetDays    *int
	OffsetTime    *string
	Repeat        string
	Interval      int
	Until         *string
	RepeatCount   *int
	Times         []TimeOfDay

	// legacy producer shape, rewritten by MigrateLegacy
	StartOffset *int
	Duration    *int
}

// TimeOfDay is a canonical zero-padded "HH:MM" string. It decodes from
// either a literal time string or an {hours, minutes} pair.
type TimeOfDay string

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "{") {
		var pair struct {
			Hours   int `json:"hours"`
			Minutes int `json:"minutes"`
		}
		if err := json.Unmarshal(b, &pair); err != nil {
			return err
		}
		norm, err := normalizeClock(pair.Hours, pair.Minutes)
		if err != nil {
			return err
		}
		*t = TimeOfDay(norm)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	norm, err := NormalizeTime(s)
	if err != nil {
		return err
	}
	*t = TimeOfDay(norm)
	return nil
}

// NormalizeTime canonicalizes a clock string to zero-padded "HH:MM".
func NormalizeTime(s string) (string, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return "", invalid("time %q is not HH:MM", s)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return "", invalid("time %q is not HH:MM", s)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return "", invalid("time %q is not HH:MM", s)
	}
	return normalizeClock(hours, minutes)
}

func normalizeClock(hours, minutes int) (string, error) {
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return "", invalid("time %02d:%02d is out of range", hours, minutes)
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

// ParseDateTime accepts the designer's local layout and RFC 3339.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(dateTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func validRepeat(r string) bool {
	switch r {
	case RepeatNever, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

// Validate applies the mode rules from the raw payload and returns the
// matching variant. Legacy payloads must be rewritten with MigrateLegacy
// before calling Validate.
func Validate(raw *Raw) (Schedule, error) {
	if !validRepeat(raw.Repeat) {
		return nil, invalid("unknown repeat %q", raw.Repeat)
	}
	if raw.Interval < 1 {
		return nil, invalid("interval must be >= 1, got %d", raw.Interval)
	}

	switch raw.ScheduleMode {
	case ModeAbsolute:
		return validateAbsolute(raw)
	case ModeRelative:
		return validateRelative(raw)
	default:
		return nil, invalid("unknown scheduleMode %q", raw.ScheduleMode)
	}
}

func validateAbsolute(raw *Raw) (Schedule, error) {
	if raw.StartDateTime == nil {
		return nil, invalid("startDateTime is required when scheduleMode='absolute'")
	}
	if _, err := ParseDateTime(*raw.StartDateTime); err != nil {
		return nil, invalid("startDateTime %q is not a date-time", *raw.StartDateTime)
	}

	abs := Absolute{StartDateTime: *raw.StartDateTime}
	if raw.Repeat != RepeatNever {
		if raw.Until == nil {
			return nil, invalid("'until' is required in absolute mode when repeat != never")
		}
		if _, err := ParseDate(*raw.Until); err != nil {
			return nil, invalid("until %q is not a date", *raw.Until)
		}
		abs.Until = *raw.Until
	}
	return abs, nil
}

func validateRelative(raw *Raw) (Schedule, error) {
	if raw.OffsetDays == nil || raw.OffsetTime == nil {
		return nil, invalid("offsetDays and offsetTime are required when scheduleMode='relative'")
	}
	if *raw.OffsetDays < 0 {
		return nil, invalid("offsetDays must be >= 0, got %d", *raw.OffsetDays)
	}
	offsetTime, err := NormalizeTime(*raw.OffsetTime)
	if err != nil {
		return nil, err
	}

	rel := Relative{OffsetDays: *raw.OffsetDays, OffsetTime: offsetTime}
	if raw.Repeat != RepeatNever {
		if raw.RepeatCount == nil {
			return nil, invalid("'repeatCount' is required in relative mode when repeat != never")
		}
		if *raw.RepeatCount < 0 {
			return nil, invalid("repeatCount must be >= 0, got %d", *raw.RepeatCount)
		}
		count := *raw.RepeatCount
		rel.RepeatCount = &count
	}
	return rel, nil
}
