package models

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/schedule"
)

// Alert is a module's notification configuration. The scheduling half
// lives in the mode-exclusive Schedule variant; the fields of the
// inactive mode are not representable at all.
type Alert struct {
	Title                  string
	Message                string
	Repeat                 string
	Interval               int
	ExpectedEnrollmentDate *string
	Random                 bool
	RandomInterval         int
	Sticky                 bool
	StickyLabel            string
	Timeout                bool
	TimeoutAfter           int
	Times                  []schedule.TimeOfDay
	Schedule               schedule.Schedule
}

type alertJSON struct {
	ScheduleMode           string               `json:"scheduleMode,omitempty"`
	StartDateTime          *string              `json:"startDateTime,omitempty"`
	OffsetDays             *int                 `json:"offsetDays,omitempty"`
	OffsetTime             *string              `json:"offsetTime,omitempty"`
	ExpectedEnrollmentDate *string              `json:"expectedEnrollmentDate,omitempty"`
	Title                  *string              `json:"title,omitempty"`
	Message                *string              `json:"message,omitempty"`
	Repeat                 string               `json:"repeat,omitempty"`
	Interval               *int                 `json:"interval,omitempty"`
	Until                  *string              `json:"until,omitempty"`
	RepeatCount            *int                 `json:"repeatCount,omitempty"`
	Random                 bool                 `json:"random"`
	RandomInterval         int                  `json:"randomInterval"`
	Sticky                 bool                 `json:"sticky"`
	StickyLabel            string               `json:"stickyLabel"`
	Timeout                bool                 `json:"timeout"`
	TimeoutAfter           int                  `json:"timeoutAfter"`
	Times                  []schedule.TimeOfDay `json:"times"`

	// legacy producer fields, consumed by schedule.MigrateLegacy
	StartOffset *int `json:"start_offset,omitempty"`
	Duration    *int `json:"duration,omitempty"`
}

func (a *Alert) UnmarshalJSON(b []byte) error {
	var in alertJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in.Title == nil || in.Message == nil {
		return validationErr("alerts", "title and message are required")
	}

	raw := schedule.Raw{
		ScheduleMode:  in.ScheduleMode,
		StartDateTime: in.StartDateTime,
		OffsetDays:    in.OffsetDays,
		OffsetTime:    in.OffsetTime,
		Repeat:        in.Repeat,
		Until:         in.Until,
		RepeatCount:   in.RepeatCount,
		Times:         in.Times,
		StartOffset:   in.StartOffset,
		Duration:      in.Duration,
	}
	if raw.ScheduleMode == "" {
		raw.ScheduleMode = schedule.ModeAbsolute
	}
	if raw.Repeat == "" {
		raw.Repeat = schedule.RepeatNever
	}
	if in.Interval != nil {
		raw.Interval = *in.Interval
	} else {
		raw.Interval = 1
	}

	schedule.MigrateLegacy(&raw, time.Now())
	validated, err := schedule.Validate(&raw)
	if err != nil {
		return err
	}

	times := raw.Times
	if times == nil {
		times = []schedule.TimeOfDay{}
	}

	*a = Alert{
		Title:                  *in.Title,
		Message:                *in.Message,
		Repeat:                 raw.Repeat,
		Interval:               raw.Interval,
		ExpectedEnrollmentDate: in.ExpectedEnrollmentDate,
		Random:                 in.Random,
		RandomInterval:         in.RandomInterval,
		Sticky:                 in.Sticky,
		StickyLabel:            in.StickyLabel,
		Timeout:                in.Timeout,
		TimeoutAfter:           in.TimeoutAfter,
		Times:                  times,
		Schedule:               validated,
	}
	return nil
}

func (a Alert) MarshalJSON() ([]byte, error) {
	title := a.Title
	message := a.Message
	interval := a.Interval
	out := alertJSON{
		Title:                  &title,
		Message:                &message,
		Repeat:                 a.Repeat,
		Interval:               &interval,
		ExpectedEnrollmentDate: a.ExpectedEnrollmentDate,
		Random:                 a.Random,
		RandomInterval:         a.RandomInterval,
		Sticky:                 a.Sticky,
		StickyLabel:            a.StickyLabel,
		Timeout:                a.Timeout,
		TimeoutAfter:           a.TimeoutAfter,
		Times:                  a.Times,
	}
	if out.Times == nil {
		out.Times = []schedule.TimeOfDay{}
	}

	switch s := a.Schedule.(type) {
	case schedule.Absolute:
		out.ScheduleMode = schedule.ModeAbsolute
		start := s.StartDateTime
		out.StartDateTime = &start
		if s.Until != "" {
			until := s.Until
			out.Until = &until
		}
	case schedule.Relative:
		out.ScheduleMode = schedule.ModeRelative
		days := s.OffsetDays
		at := s.OffsetTime
		out.OffsetDays = &days
		out.OffsetTime = &at
		out.RepeatCount = s.RepeatCount
	}

	return json.Marshal(out)
}
