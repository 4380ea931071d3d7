package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/synapse-clinic-hub/internal/catalog"
	"github.com/wolfman30/synapse-clinic-hub/internal/notify"
)

func fillForm(t *testing.T, f *Form) {
	t.Helper()
	require.NoError(t, f.SetDate(day(2025, 5, 21)))
	require.NoError(t, f.SetTimeSlot("2:00 PM"))
	require.NoError(t, f.SetPaymentMethod(PaymentCash))
}

func TestNewForm_Preselection(t *testing.T) {
	cat := catalog.Default()
	assert.Equal(t, "5", NewForm(cat, fixedPolicy(), "5", nil).Snapshot().ServiceID)
	assert.Equal(t, "1", NewForm(cat, fixedPolicy(), "", nil).Snapshot().ServiceID)
	assert.Equal(t, "1", NewForm(cat, fixedPolicy(), "99", nil).Snapshot().ServiceID)
}

func TestSubmit_MissingFieldsKeepsValues(t *testing.T) {
	var calls int
	f := NewForm(catalog.Default(), fixedPolicy(), "4", func(context.Context, AppointmentRecord) error {
		calls++
		return nil
	})
	require.NoError(t, f.SetTimeSlot("10:30 AM"))
	require.NoError(t, f.SetNotes("dizziness after long flights"))
	before := f.Snapshot()

	outcome, err := f.Submit(context.Background())
	require.ErrorIs(t, err, ErrMissingInformation)
	assert.Equal(t, StateRejected, outcome.State)
	assert.Equal(t, []string{"date", "payment_method"}, outcome.Missing)
	assert.Equal(t, notify.VariantDestructive, outcome.Notification.Variant)
	assert.Equal(t, "Missing information", outcome.Notification.Title)
	assert.Equal(t, "Please fill in all the required fields.", outcome.Notification.Description)

	assert.Equal(t, StateEditing, f.State())
	assert.Equal(t, before, f.Snapshot())
	assert.Zero(t, calls)
}

func TestSubmit_PriceFollowsServiceAtSubmit(t *testing.T) {
	var got []AppointmentRecord
	f := NewForm(catalog.Default(), fixedPolicy(), "1", func(_ context.Context, rec AppointmentRecord) error {
		got = append(got, rec)
		return nil
	})
	fillForm(t, f)
	require.NoError(t, f.SetService("3"))
	require.NoError(t, f.SetNotes("recurring headaches"))

	outcome, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, "3", rec.ServiceTypeID)
	assert.Equal(t, "Neurological Testing", rec.ServiceTypeName)
	assert.Equal(t, 5000, rec.Price)
	assert.Equal(t, "May 21st, 2025", rec.Date)
	assert.Equal(t, "2:00 PM", rec.Time)
	assert.Equal(t, PaymentCash, rec.PaymentMethod)
	assert.Equal(t, "recurring headaches", rec.Notes)
	assert.Equal(t, 14, rec.ScheduledFor.Hour())

	assert.Equal(t, StateConfirmed, outcome.State)
	assert.Equal(t, "Appointment booked!", outcome.Notification.Title)
	assert.Equal(t, "Your appointment has been scheduled for May 21st, 2025 at 2:00 PM.", outcome.Notification.Description)
	assert.Equal(t, "/client-dashboard", outcome.Redirect)
	assert.Equal(t, StateConfirmed, f.State())
}

func TestSubmit_CallbackOptional(t *testing.T) {
	f := NewForm(catalog.Default(), fixedPolicy(), "2", nil)
	fillForm(t, f)
	outcome, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000, outcome.Record.Price)
}

func TestSubmit_CallbackFailureKeepsFormEditable(t *testing.T) {
	boom := errors.New("store down")
	f := NewForm(catalog.Default(), fixedPolicy(), "2", func(context.Context, AppointmentRecord) error { return boom })
	fillForm(t, f)

	outcome, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrCompletionFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "Booking failed", outcome.Notification.Title)
	assert.Equal(t, StateEditing, f.State())
}

func TestConfirmedFormRefusesChanges(t *testing.T) {
	f := NewForm(catalog.Default(), fixedPolicy(), "", nil)
	fillForm(t, f)
	_, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, f.SetNotes("late"), ErrFormClosed)
	assert.ErrorIs(t, f.SetService("2"), ErrFormClosed)
	_, err = f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrFormClosed)
}

func TestSetters_RefuseOutOfDomainValues(t *testing.T) {
	f := NewForm(catalog.Default(), fixedPolicy(), "", nil)
	fillForm(t, f)
	before := f.Snapshot()

	assert.ErrorIs(t, f.SetService("42"), catalog.ErrServiceNotFound)
	assert.ErrorIs(t, f.SetDate(day(2025, 5, 19)), ErrDateUnavailable)
	assert.ErrorIs(t, f.SetDate(day(2025, 5, 24)), ErrDateUnavailable)
	assert.ErrorIs(t, f.SetTimeSlot("1:30 PM"), ErrUnknownTimeSlot)
	assert.ErrorIs(t, f.SetPaymentMethod("card"), ErrUnknownPaymentMethod)

	assert.Equal(t, before, f.Snapshot())
}

func TestApply_AllOrNothing(t *testing.T) {
	f := NewForm(catalog.Default(), fixedPolicy(), "", nil)
	before := f.Snapshot()

	svc := "6"
	slot := "9:00 AM"
	weekend := day(2025, 5, 25)
	err := f.Apply(Changes{ServiceID: &svc, TimeSlot: &slot, Date: &weekend})
	assert.ErrorIs(t, err, ErrDateUnavailable)
	assert.Equal(t, before, f.Snapshot())

	weekday := day(2025, 5, 22)
	require.NoError(t, f.Apply(Changes{ServiceID: &svc, TimeSlot: &slot, Date: &weekday}))
	snap := f.Snapshot()
	assert.Equal(t, "6", snap.ServiceID)
	assert.Equal(t, 2000, snap.Price)
	assert.Equal(t, "2025-05-22", snap.Date)
	assert.Equal(t, "May 22nd, 2025", snap.DateLabel)
	assert.Equal(t, "9:00 AM", snap.TimeSlot)
}
