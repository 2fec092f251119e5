package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-11")
	require.NoError(t, err)
	assert.Equal(t, Date{2025, time.June, 11}, d)
	assert.Equal(t, "2025-06-11", d.String())

	_, err = ParseDate("11/06/2025")
	assert.Error(t, err)
}

func TestAddDaysNormalizesAcrossBoundaries(t *testing.T) {
	assert.Equal(t, Date{2025, time.July, 1}, Date{2025, time.June, 30}.AddDays(1))
	assert.Equal(t, Date{2024, time.December, 31}, Date{2025, time.January, 1}.AddDays(-1))
	assert.Equal(t, Date{2024, time.February, 29}, Date{2024, time.February, 28}.AddDays(1))
}

func TestWeekdayISO(t *testing.T) {
	// 2025-06-09 is a Monday.
	assert.Equal(t, 1, Date{2025, time.June, 9}.Weekday())
	// 2025-06-15 is a Sunday and maps to 7, not 0.
	assert.Equal(t, 7, Date{2025, time.June, 15}.Weekday())
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 30, DaysInMonth(2025, time.June))
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 31, DaysInMonth(2025, time.December))
}

func TestDateBefore(t *testing.T) {
	assert.True(t, Date{2025, time.June, 10}.Before(Date{2025, time.June, 11}))
	assert.True(t, Date{2024, time.December, 31}.Before(Date{2025, time.January, 1}))
	assert.False(t, Date{2025, time.June, 11}.Before(Date{2025, time.June, 11}))
}
