package schedule

import "time"

// MigrateLegacy rewrites the retired producer shape (start_offset + times
// + optional duration) into an absolute schedule. It only fires when no
// startDateTime was submitted, and it runs before Validate so the legacy
// shape never reaches the mode rules. Delete this file once no legacy
// producers remain.
func MigrateLegacy(raw *Raw, today time.Time) {
	if raw.StartDateTime != nil || raw.StartOffset == nil {
		return
	}

	at := "00:00"
	if len(raw.Times) > 0 {
		at = string(raw.Times[0])
	}

	start := today.AddDate(0, 0, *raw.StartOffset)
	startDateTime := start.Format(dateLayout) + "T" + at + ":00"
	raw.ScheduleMode = ModeAbsolute
	raw.StartDateTime = &startDateTime
	if raw.Interval < 1 {
		raw.Interval = 1
	}

	// duration counts days including the first; a one-day legacy alert
	// collapses to a single notification
	if raw.Duration != nil && *raw.Duration > 1 {
		until := start.AddDate(0, 0, *raw.Duration-1).Format(dateLayout)
		raw.Repeat = RepeatDaily
		raw.Until = &until
	} else {
		raw.Repeat = RepeatNever
	}

	raw.StartOffset = nil
	raw.Duration = nil
}
