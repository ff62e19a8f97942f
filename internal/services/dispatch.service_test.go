package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"brightnest/internal/events"
	. "brightnest/internal/models"
	"brightnest/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeFinder struct {
	candidates []CandidateCleaner
	err        error
	calls      int
}

func (f *fakeFinder) FindNearbyCleaners(
	_ context.Context,
	_, _ float64,
	_ float64,
	_ FindOptions,
) ([]CandidateCleaner, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

type fakeRadius struct {
	miles float64
}

func (f *fakeRadius) LastMinuteRadiusMiles(_ context.Context) float64 {
	return f.miles
}

// fakeCodec decrypts from a fixed lookup table; unknown ciphertext errors
// like a failed open would.
type fakeCodec struct {
	values map[string]string
	calls  int
}

func (f *fakeCodec) Encrypt(plaintext string) (string, error) {
	return plaintext, nil
}

func (f *fakeCodec) Decrypt(ciphertext string) (string, error) {
	f.calls++
	value, ok := f.values[ciphertext]
	if !ok {
		return "", errors.New("cipher: message authentication failed")
	}
	return value, nil
}

type dispatchFixture struct {
	service          *UrgentDispatchService
	finder           *fakeFinder
	codec            *fakeCodec
	appointmentRepo  *fakeAppointmentRepo
	notificationRepo *fakeNotificationRepo
	email            *fakeEmailSender
	push             *fakePushSender
	appointment      *Appointment
	home             *Home
}

func newDispatchFixture(candidates ...CandidateCleaner) *dispatchFixture {
	appointment := &Appointment{
		BaseModel: BaseModel{ID: 9},
		HomeID:    50,
		Date:      time.Date(2026, time.September, 3, 14, 0, 0, 0, time.UTC),
		Price:     decimal.NewFromInt(120),
		Status:    AppointmentStatusPending,
	}
	home := &Home{
		BaseModel: BaseModel{ID: 50},
		City:      "Boston",
		Latitude:  "enc-lat",
		Longitude: "enc-lon",
	}

	fixture := &dispatchFixture{
		finder: &fakeFinder{candidates: candidates},
		codec: &fakeCodec{values: map[string]string{
			"enc-lat": "42.3601",
			"enc-lon": "-71.0589",
		}},
		appointmentRepo:  newFakeAppointmentRepo(appointment),
		notificationRepo: newFakeNotificationRepo(),
		email:            &fakeEmailSender{},
		push:             &fakePushSender{},
		appointment:      appointment,
		home:             home,
	}

	fixture.service = NewUrgentDispatchService(
		repositories.Repository{
			Appointment:  fixture.appointmentRepo,
			Notification: fixture.notificationRepo,
		},
		fixture.finder,
		&fakeRadius{miles: 25},
		fixture.codec,
		fixture.email,
		fixture.push,
	)

	return fixture
}

func urgentCandidate(id int) CandidateCleaner {
	return CandidateCleaner{
		Cleaner:        User{BaseModel: BaseModel{ID: id}, Type: UserTypeCleaner},
		DistanceMeters: 8046.7,
		DistanceMiles:  "5.0",
	}
}

func TestUrgentDispatchService_NotifiesEveryChannel(t *testing.T) {
	fullOptIn := urgentCandidate(4)
	fullOptIn.Cleaner.PushToken = strPtrT("device-token-4")
	fullOptIn.Cleaner.Email = strPtrT("cleaner4@example.com")
	fullOptIn.Cleaner.NotificationPreferences = datatypes.JSONSlice[string]{ChannelEmail}

	inAppOnly := urgentCandidate(5)

	fixture := newDispatchFixture(fullOptIn, inAppOnly)
	io := &fakeRealtime{}

	result, err := fixture.service.NotifyNearbyCleaners(
		context.Background(), fixture.appointment, fixture.home, io)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NotifiedCount)
	assert.Equal(t, []int{4, 5}, result.CleanerIDs)

	require.Len(t, fixture.notificationRepo.created, 2)
	stored := fixture.notificationRepo.created[0]
	assert.Equal(t, NotificationLastMinuteUrgent, stored.Type)
	assert.True(t, stored.ActionRequired)
	require.NotNil(t, stored.ExpiresAt)
	assert.Equal(t, fixture.appointment.Date.Day(), stored.ExpiresAt.Day())
	assert.Equal(t, 23, stored.ExpiresAt.Hour())
	assert.Contains(t, stored.Body, "Boston")
	assert.Contains(t, stored.Body, "$120.00")
	assert.Contains(t, stored.Body, "5.0")

	require.Len(t, fixture.push.sent, 1)
	assert.Equal(t, "device-token-4", fixture.push.sent[0].token)

	require.Len(t, fixture.email.sent, 1)
	assert.Equal(t, EmailTemplateUrgentJob, fixture.email.sent[0].template)
	assert.Equal(t, "cleaner4@example.com", fixture.email.sent[0].recipient)

	// Each cleaner gets the job event plus a fresh unread count.
	require.Len(t, io.emitted, 4)
	assert.Equal(t, string(events.URGENT_JOB), io.emitted[0].event)
	assert.Equal(t, 4, io.emitted[0].userID)
	assert.Equal(t, string(events.UNREAD_COUNT), io.emitted[1].event)
	assert.Equal(t, int64(1), io.emitted[1].data["count"])

	assert.Contains(t, fixture.appointmentRepo.dispatchedAt, 9)
}

func TestUrgentDispatchService_FailureIsolation(t *testing.T) {
	fixture := newDispatchFixture(urgentCandidate(1), urgentCandidate(2))
	fixture.notificationRepo.failFor[1] = true

	result, err := fixture.service.NotifyNearbyCleaners(
		context.Background(), fixture.appointment, fixture.home, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.NotifiedCount)
	assert.Equal(t, []int{2}, result.CleanerIDs)
	assert.Contains(t, fixture.appointmentRepo.dispatchedAt, 9)
}

func TestUrgentDispatchService_StampsEvenWhenNobodyReached(t *testing.T) {
	fixture := newDispatchFixture(urgentCandidate(1), urgentCandidate(2))
	fixture.notificationRepo.failFor[1] = true
	fixture.notificationRepo.failFor[2] = true

	result, err := fixture.service.NotifyNearbyCleaners(
		context.Background(), fixture.appointment, fixture.home, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.NotifiedCount)
	assert.Empty(t, result.CleanerIDs)
	assert.Contains(t, fixture.appointmentRepo.dispatchedAt, 9)
}

func TestUrgentDispatchService_EmptyCandidateShortCircuit(t *testing.T) {
	fixture := newDispatchFixture()
	io := &fakeRealtime{}

	result, err := fixture.service.NotifyNearbyCleaners(
		context.Background(), fixture.appointment, fixture.home, io)
	require.NoError(t, err)

	assert.Equal(t, 0, result.NotifiedCount)
	assert.Empty(t, result.CleanerIDs)
	assert.Equal(t, 2, fixture.codec.calls, "coordinates decoded exactly once")
	assert.Empty(t, fixture.notificationRepo.created)
	assert.Empty(t, fixture.push.sent)
	assert.Empty(t, fixture.email.sent)
	assert.Empty(t, io.emitted)
	assert.NotContains(t, fixture.appointmentRepo.dispatchedAt, 9)
}

func TestUrgentDispatchService_CorruptCoordinatesAbort(t *testing.T) {
	fixture := newDispatchFixture(urgentCandidate(1))
	fixture.home.Latitude = "garbage"

	result, err := fixture.service.NotifyNearbyCleaners(
		context.Background(), fixture.appointment, fixture.home, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.NotifiedCount)
	assert.Empty(t, result.CleanerIDs)
	assert.Zero(t, fixture.finder.calls, "finder must not run without coordinates")
	assert.Empty(t, fixture.notificationRepo.created)
}

func TestUrgentDispatchService_NonFiniteCoordinatesAbort(t *testing.T) {
	fixture := newDispatchFixture(urgentCandidate(1))
	fixture.codec.values["enc-lat"] = "NaN"

	result, err := fixture.service.NotifyNearbyCleaners(
		context.Background(), fixture.appointment, fixture.home, nil)
	require.NoError(t, err)

	assert.Empty(t, result.CleanerIDs)
	assert.Zero(t, fixture.finder.calls)
}

func TestUrgentDispatchService_FinderErrorPropagates(t *testing.T) {
	fixture := newDispatchFixture()
	fixture.finder.err = errors.New("connection refused")

	_, err := fixture.service.NotifyNearbyCleaners(
		context.Background(), fixture.appointment, fixture.home, nil)
	assert.Error(t, err)
	assert.NotContains(t, fixture.appointmentRepo.dispatchedAt, 9)
}

func TestUrgentDispatchService_ChannelEligibility(t *testing.T) {
	// Opted out of email with no push token: in-app only.
	quiet := urgentCandidate(7)
	quiet.Cleaner.Email = strPtrT("quiet@example.com")
	quiet.Cleaner.NotificationPreferences = datatypes.JSONSlice[string]{ChannelPhone}

	fixture := newDispatchFixture(quiet)

	result, err := fixture.service.NotifyNearbyCleaners(
		context.Background(), fixture.appointment, fixture.home, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{7}, result.CleanerIDs)
	assert.Empty(t, fixture.push.sent)
	assert.Empty(t, fixture.email.sent)
}

func TestUrgentDispatchService_RealtimeFailureDoesNotDropCandidate(t *testing.T) {
	fixture := newDispatchFixture(urgentCandidate(3))
	io := &fakeRealtime{err: errors.New("socket closed")}

	result, err := fixture.service.NotifyNearbyCleaners(
		context.Background(), fixture.appointment, fixture.home, io)
	require.NoError(t, err)

	assert.Equal(t, []int{3}, result.CleanerIDs)
}
