package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// Tuesday 20 May 2025, mid-afternoon in the clinic timezone.
func fixedPolicy() DatePolicy {
	now := time.Date(2025, 5, 20, 15, 45, 0, 0, ist)
	return NewDatePolicy(ist, func() time.Time { return now })
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, ist)
}

func TestSelectable(t *testing.T) {
	p := fixedPolicy()

	cases := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"yesterday", day(2025, 5, 19), false},
		{"today", day(2025, 5, 20), true},
		{"today late evening", time.Date(2025, 5, 20, 23, 59, 0, 0, ist), true},
		{"friday", day(2025, 5, 23), true},
		{"saturday", day(2025, 5, 24), false},
		{"sunday", day(2025, 5, 25), false},
		{"monday", day(2025, 5, 26), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Selectable(tc.day))
		})
	}
}

func TestNextSelectable_SkipsWeekend(t *testing.T) {
	sat := time.Date(2025, 5, 24, 10, 0, 0, 0, ist)
	p := NewDatePolicy(ist, func() time.Time { return sat })
	assert.Equal(t, day(2025, 5, 26), p.NextSelectable())

	assert.Equal(t, day(2025, 5, 20), fixedPolicy().NextSelectable())
}

func TestSelectableDates(t *testing.T) {
	p := fixedPolicy()

	got := p.SelectableDates(day(2025, 5, 1), 5)
	require.Len(t, got, 5)
	want := []time.Time{day(2025, 5, 20), day(2025, 5, 21), day(2025, 5, 22), day(2025, 5, 23), day(2025, 5, 26)}
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "index %d: got %s", i, got[i])
	}

	assert.Nil(t, p.SelectableDates(day(2025, 5, 20), 0))
}

func TestParseDate(t *testing.T) {
	p := fixedPolicy()

	got, err := p.ParseDate(" 2025-05-21 ")
	require.NoError(t, err)
	assert.True(t, got.Equal(day(2025, 5, 21)))

	_, err = p.ParseDate("21/05/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestFormatLongDate(t *testing.T) {
	cases := map[time.Time]string{
		day(2025, 5, 20): "May 20th, 2025",
		day(2025, 6, 1):  "June 1st, 2025",
		day(2025, 6, 2):  "June 2nd, 2025",
		day(2025, 6, 3):  "June 3rd, 2025",
		day(2025, 6, 11): "June 11th, 2025",
		day(2025, 6, 12): "June 12th, 2025",
		day(2025, 6, 13): "June 13th, 2025",
		day(2025, 7, 21): "July 21st, 2025",
		day(2025, 7, 22): "July 22nd, 2025",
		day(2025, 7, 23): "July 23rd, 2025",
		day(2025, 7, 31): "July 31st, 2025",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatLongDate(in))
	}
}

func TestTimeSlotsAndPayments(t *testing.T) {
	require.Len(t, TimeSlots, 15)
	assert.NotContains(t, TimeSlots, "1:00 PM")
	assert.NotContains(t, TimeSlots, "1:30 PM")

	_, err := ParseTimeSlot("1:00 PM")
	assert.ErrorIs(t, err, ErrUnknownTimeSlot)

	h, m, err := slotClock("2:30 PM")
	require.NoError(t, err)
	assert.Equal(t, 14, h)
	assert.Equal(t, 30, m)

	pm, err := ParsePaymentMethod(" UPI ")
	require.NoError(t, err)
	assert.Equal(t, PaymentUPI, pm)
	_, err = ParsePaymentMethod("card")
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)

	assert.Equal(t, []PaymentOption{
		{Value: PaymentUPI, Label: "UPI"},
		{Value: PaymentNetBanking, Label: "Net Banking"},
		{Value: PaymentCash, Label: "Cash (Pay at Clinic)"},
	}, PaymentOptions())
}
