package services

import (
	"context"
	"errors"
	"sync"
	"time"

	. "brightnest/internal/models"

	"gorm.io/gorm"
)

var errNotFound = errors.New("record not found")

type pairKey struct {
	homeID    int
	cleanerID int
}

type requestKey struct {
	appointmentID int
	requesterID   int
}

type fakePreferredRepo struct {
	mu    sync.Mutex
	links map[pairKey]*HomePreferredCleaner
	err   error
}

func newFakePreferredRepo() *fakePreferredRepo {
	return &fakePreferredRepo{links: make(map[pairKey]*HomePreferredCleaner)}
}

func (f *fakePreferredRepo) Exists(_ context.Context, homeID, cleanerID int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.links[pairKey{homeID, cleanerID}]
	return ok, nil
}

func (f *fakePreferredRepo) CreateIfAbsent(
	_ context.Context,
	link *HomePreferredCleaner,
) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	// Single critical section mirrors the database unique constraint: under
	// concurrent duplicate requests exactly one insert wins.
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{link.HomeID, link.CleanerID}
	if _, ok := f.links[key]; ok {
		return false, nil
	}
	f.links[key] = link
	return true, nil
}

func (f *fakePreferredRepo) Remove(_ context.Context, homeID, cleanerID int) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.links, pairKey{homeID, cleanerID})
	return nil
}

func (f *fakePreferredRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.links)
}

type fakeHomeRepo struct {
	homes map[int]*Home
	err   error
}

func newFakeHomeRepo(homes ...*Home) *fakeHomeRepo {
	repo := &fakeHomeRepo{homes: make(map[int]*Home)}
	for _, h := range homes {
		repo.homes[h.ID] = h
	}
	return repo
}

func (f *fakeHomeRepo) GetByID(_ context.Context, id int) (*Home, error) {
	if f.err != nil {
		return nil, f.err
	}
	home, ok := f.homes[id]
	if !ok {
		return nil, errNotFound
	}
	return home, nil
}

func (f *fakeHomeRepo) Update(_ context.Context, home *Home) error {
	if f.err != nil {
		return f.err
	}
	f.homes[home.ID] = home
	return nil
}

type fakeUserRepo struct {
	users      map[int]*User
	candidates []User
	err        error
}

func newFakeUserRepo(users ...*User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*User)}
	for _, u := range users {
		repo.users[u.ID] = u
		repo.candidates = append(repo.candidates, *u)
	}
	return repo
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, errNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range f.users {
		if user.Email != nil && *user.Email == email {
			return user, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindDispatchCandidates(_ context.Context) ([]User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

type recordedPush struct {
	token string
	title string
	body  string
	data  map[string]any
}

type fakePushSender struct {
	sent []recordedPush
	err  error
}

func (f *fakePushSender) SendPush(
	_ context.Context,
	token, title, body string,
	data map[string]any,
) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, recordedPush{token, title, body, data})
	return nil
}

type fakeNotificationRepo struct {
	created []*Notification
	unread  map[int]int64

	// failFor makes Create error for the given user IDs, for failure
	// isolation tests.
	failFor map[int]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		unread:  make(map[int]int64),
		failFor: make(map[int]bool),
	}
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *Notification) error {
	if f.failFor[notification.UserID] {
		return errors.New("notification store unavailable")
	}
	f.created = append(f.created, notification)
	f.unread[notification.UserID]++
	return nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID int) (int64, error) {
	return f.unread[userID], nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID int, _ int) ([]Notification, error) {
	var out []Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	appointments map[int]*Appointment
	dispatchedAt map[int]time.Time
	assigned     map[int][]int
	err          error
}

func newFakeAppointmentRepo(appointments ...*Appointment) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{
		appointments: make(map[int]*Appointment),
		dispatchedAt: make(map[int]time.Time),
		assigned:     make(map[int][]int),
	}
	for _, a := range appointments {
		repo.appointments[a.ID] = a
	}
	return repo
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int) (*Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, errNotFound
	}
	return appointment, nil
}

func (f *fakeAppointmentRepo) Assign(_ context.Context, _ *gorm.DB, appointment *Appointment, cleaner *User) error {
	if f.err != nil {
		return f.err
	}
	f.assigned[appointment.ID] = append(f.assigned[appointment.ID], cleaner.ID)
	appointment.Status = AppointmentStatusAssigned
	appointment.AssignedEmployees = append(appointment.AssignedEmployees, *cleaner)
	return nil
}

func (f *fakeAppointmentRepo) MarkDispatched(_ context.Context, appointmentID int, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.dispatchedAt[appointmentID] = at
	if appointment, ok := f.appointments[appointmentID]; ok {
		appointment.LastMinuteNotificationsSentAt = &at
	}
	return nil
}

func (f *fakeAppointmentRepo) FindNeedingDispatch(_ context.Context, cutoff time.Time) ([]Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var due []Appointment
	for _, a := range f.appointments {
		if a.NeedsLastMinuteDispatch() && a.Date.Before(cutoff) {
			due = append(due, *a)
		}
	}
	return due, nil
}

type fakePendingRequestRepo struct {
	mu       sync.Mutex
	requests map[requestKey]*PendingRequest
	err      error
}

func newFakePendingRequestRepo() *fakePendingRequestRepo {
	return &fakePendingRequestRepo{requests: make(map[requestKey]*PendingRequest)}
}

func (f *fakePendingRequestRepo) CreateIfAbsent(
	_ context.Context,
	request *PendingRequest,
) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := requestKey{request.AppointmentID, request.RequesterID}
	if _, ok := f.requests[key]; ok {
		return false, nil
	}
	f.requests[key] = request
	return true, nil
}

func (f *fakePendingRequestRepo) ListByAppointment(
	_ context.Context,
	appointmentID int,
) ([]PendingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []PendingRequest
	for key, request := range f.requests {
		if key.appointmentID == appointmentID {
			out = append(out, *request)
		}
	}
	return out, nil
}

type emittedEvent struct {
	userID int
	event  string
	data   map[string]any
}

type fakeRealtime struct {
	emitted []emittedEvent
	err     error
}

func (f *fakeRealtime) EmitToUser(_ context.Context, userID int, event string, data map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.emitted = append(f.emitted, emittedEvent{userID, event, data})
	return nil
}
