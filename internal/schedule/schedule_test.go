package schedule

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// --- TimeOfDay ---

func TestTimeOfDay_FromString(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"9:5"`), &tod))
	assert.Equal(t, TimeOfDay("09:05"), tod)
}

func TestTimeOfDay_FromObject(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`{"hours":13,"minutes":30}`), &tod))
	assert.Equal(t, TimeOfDay("13:30"), tod)
}

func TestTimeOfDay_OutOfRange(t *testing.T) {
	var tod TimeOfDay
	err := json.Unmarshal([]byte(`{"hours":24,"minutes":0}`), &tod)
	require.Error(t, err)
}

func TestNormalizeTime_Invalid(t *testing.T) {
	_, err := NormalizeTime("noon")
	require.Error(t, err)
	var schedErr *InvalidScheduleError
	assert.ErrorAs(t, err, &schedErr)
}

// --- mode rules ---

func TestValidate_AbsoluteSingleShot(t *testing.T) {
	raw := &Raw{
		ScheduleMode:  ModeAbsolute,
		StartDateTime: strPtr("2026-09-01T09:00:00"),
		Repeat:        RepeatNever,
		Interval:      1,
	}
	sched, err := Validate(raw)
	require.NoError(t, err)

	abs, ok := sched.(Absolute)
	require.True(t, ok)
	assert.Equal(t, ModeAbsolute, abs.Mode())
	assert.Equal(t, "2026-09-01T09:00:00", abs.StartDateTime)
	assert.Empty(t, abs.Until)
}

func TestValidate_AbsoluteRepeatingRequiresUntil(t *testing.T) {
	raw := &Raw{
		ScheduleMode:  ModeAbsolute,
		StartDateTime: strPtr("2026-09-01T09:00:00"),
		Repeat:        RepeatDaily,
		Interval:      1,
	}
	_, err := Validate(raw)
	require.Error(t, err)

	raw.Until = strPtr("2026-09-10")
	sched, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-10", sched.(Absolute).Until)
}

func TestValidate_AbsoluteMissingStart(t *testing.T) {
	raw := &Raw{ScheduleMode: ModeAbsolute, Repeat: RepeatNever, Interval: 1}
	_, err := Validate(raw)
	var schedErr *InvalidScheduleError
	require.ErrorAs(t, err, &schedErr)
}

func TestValidate_AbsoluteIgnoresRelativeFields(t *testing.T) {
	// relative leftovers in the payload must not survive into the variant
	raw := &Raw{
		ScheduleMode:  ModeAbsolute,
		StartDateTime: strPtr("2026-09-01T09:00:00"),
		OffsetDays:    intPtr(4),
		OffsetTime:    strPtr("08:00"),
		Repeat:        RepeatNever,
		Interval:      1,
	}
	sched, err := Validate(raw)
	require.NoError(t, err)
	_, isAbsolute := sched.(Absolute)
	assert.True(t, isAbsolute)
}

func TestValidate_RelativeSingleShot(t *testing.T) {
	raw := &Raw{
		ScheduleMode: ModeRelative,
		OffsetDays:   intPtr(3),
		OffsetTime:   strPtr("8:0"),
		Repeat:       RepeatNever,
		Interval:     1,
	}
	sched, err := Validate(raw)
	require.NoError(t, err)

	rel, ok := sched.(Relative)
	require.True(t, ok)
	assert.Equal(t, 3, rel.OffsetDays)
	assert.Equal(t, "08:00", rel.OffsetTime)
	assert.Nil(t, rel.RepeatCount)
}

func TestValidate_RelativeRepeatingRequiresCount(t *testing.T) {
	raw := &Raw{
		ScheduleMode: ModeRelative,
		OffsetDays:   intPtr(0),
		OffsetTime:   strPtr("08:00"),
		Repeat:       RepeatWeekly,
		Interval:     1,
	}
	_, err := Validate(raw)
	require.Error(t, err)

	raw.RepeatCount = intPtr(4)
	sched, err := Validate(raw)
	require.NoError(t, err)
	require.NotNil(t, sched.(Relative).RepeatCount)
	assert.Equal(t, 4, *sched.(Relative).RepeatCount)
}

func TestValidate_RelativeNegativeOffset(t *testing.T) {
	raw := &Raw{
		ScheduleMode: ModeRelative,
		OffsetDays:   intPtr(-1),
		OffsetTime:   strPtr("08:00"),
		Repeat:       RepeatNever,
		Interval:     1,
	}
	_, err := Validate(raw)
	require.Error(t, err)
}

func TestValidate_UnknownMode(t *testing.T) {
	raw := &Raw{ScheduleMode: "sometimes", Repeat: RepeatNever, Interval: 1}
	_, err := Validate(raw)
	require.Error(t, err)
}

func TestValidate_UnknownRepeat(t *testing.T) {
	raw := &Raw{
		ScheduleMode:  ModeAbsolute,
		StartDateTime: strPtr("2026-09-01T09:00:00"),
		Repeat:        "hourly",
		Interval:      1,
	}
	_, err := Validate(raw)
	require.Error(t, err)
}

func TestParseDateTime_BothLayouts(t *testing.T) {
	_, err := ParseDateTime("2026-09-01T09:00:00")
	assert.NoError(t, err)
	_, err = ParseDateTime("2026-09-01T09:00:00Z")
	assert.NoError(t, err)
	_, err = ParseDateTime("September 1st")
	assert.Error(t, err)
}
