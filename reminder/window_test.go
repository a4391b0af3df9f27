package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestActiveRemindersNesting(t *testing.T) {
	assert.Equal(t, []Label{OneDay, TwoHours, OneHour}, ActiveReminders(now.Add(30*time.Minute), now))
	assert.Equal(t, []Label{OneDay, TwoHours, OneHour}, ActiveReminders(now.Add(59*time.Minute), now))
	// the oneHour window has not opened yet
	assert.Equal(t, []Label{OneDay, TwoHours}, ActiveReminders(now.Add(90*time.Minute), now))
	assert.Equal(t, []Label{OneDay}, ActiveReminders(now.Add(3*time.Hour), now))
	assert.Equal(t, []Label{OneDay}, ActiveReminders(now.Add(23*time.Hour), now))
	assert.Equal(t, []Label{}, ActiveReminders(now.Add(25*time.Hour), now))
}

func TestActiveRemindersBoundaries(t *testing.T) {
	// window start is inclusive
	assert.Equal(t, []Label{OneDay}, ActiveReminders(now.Add(24*time.Hour), now))
	assert.Equal(t, []Label{OneDay, TwoHours}, ActiveReminders(now.Add(2*time.Hour), now))
	assert.Equal(t, []Label{OneDay, TwoHours, OneHour}, ActiveReminders(now.Add(time.Hour), now))
	assert.Equal(t, []Label{OneDay, TwoHours, OneHour}, ActiveReminders(now.Add(time.Nanosecond), now))

	// event start is exclusive
	assert.Empty(t, ActiveReminders(now, now))
	assert.Empty(t, ActiveReminders(now.Add(-time.Minute), now))
}

func TestLabelMetadata(t *testing.T) {
	assert.Equal(t, 0, int(OneDay))
	assert.Equal(t, 1, int(TwoHours))
	assert.Equal(t, 2, int(OneHour))

	assert.Equal(t, "twoHours", TwoHours.String())
	assert.Equal(t, "1 hour", OneHour.Phrase())
	assert.Equal(t, now.Add(-2*time.Hour), TwoHours.OpensAt(now))
}
