package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/microdesk/ticket-service/internal/errs"
	"github.com/microdesk/ticket-service/internal/event"
	"github.com/microdesk/ticket-service/internal/model"
	"github.com/microdesk/ticket-service/internal/repository"
	"github.com/microdesk/ticket-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingAnnouncer ловит события в канал: публикация идёт из горутины,
// поэтому тесты ждут с таймаутом вместо прямого просмотра слайса.
type recordingAnnouncer struct {
	ch chan event.Event
}

func newRecordingAnnouncer() *recordingAnnouncer {
	return &recordingAnnouncer{ch: make(chan event.Event, 16)}
}

func (a *recordingAnnouncer) Announce(_ context.Context, e event.Event) {
	a.ch <- e
}

func (a *recordingAnnouncer) next(t *testing.T) event.Event {
	t.Helper()
	select {
	case e := <-a.ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("expected an announcement, got none")
		return event.Event{}
	}
}

func (a *recordingAnnouncer) expectNone(t *testing.T) {
	t.Helper()
	select {
	case e := <-a.ch:
		t.Fatalf("unexpected announcement %q for ticket %d", e.Name, e.TicketID)
	case <-time.After(50 * time.Millisecond):
	}
}

func newService(opts ...service.Option) (*service.TicketService, *repository.MemoryRepository, *recordingAnnouncer) {
	repo := repository.NewMemoryRepository()
	ann := newRecordingAnnouncer()
	return service.NewTicketService(repo, ann, opts...), repo, ann
}

func strptr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	svc, _, ann := newService()

	created, err := svc.Create(context.Background(), "Test Ticket", "Test Description", 1)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, model.TicketStatusOpen, created.Status)
	assert.Equal(t, int64(1), created.UserID)
	_, perr := time.Parse(time.RFC3339, created.CreatedAt)
	assert.NoError(t, perr)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	e := ann.next(t)
	assert.Equal(t, event.TicketCreated, e.Name)
	assert.Equal(t, created.ID, e.TicketID)
	require.NotNil(t, e.UserID)
	assert.Equal(t, int64(1), *e.UserID)
	ann.expectNone(t)
}

func TestGetMissing(t *testing.T) {
	svc, _, ann := newService()

	_, err := svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
	ann.expectNone(t)
}

func TestCreateStorageFailure(t *testing.T) {
	svc, repo, ann := newService()
	repo.FailCreate = errors.New("connection refused")

	_, err := svc.Create(context.Background(), "Test Ticket", "Test Description", 1)
	assert.Error(t, err)
	ann.expectNone(t)
}

func TestUpdateTitleOnly(t *testing.T) {
	svc, _, ann := newService()
	created, err := svc.Create(context.Background(), "Test Ticket", "Test Description", 1)
	require.NoError(t, err)
	ann.next(t)

	updated, err := svc.Update(context.Background(), created.ID, service.TicketPatch{Title: strptr("Updated Title")})
	require.NoError(t, err)

	assert.Equal(t, "Updated Title", updated.Title)
	assert.Equal(t, "Test Description", updated.Description)
	assert.Equal(t, model.TicketStatusOpen, updated.Status)
	assert.Equal(t, int64(1), updated.UserID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.ID, updated.ID)

	e := ann.next(t)
	assert.Equal(t, event.TicketUpdated, e.Name)
	assert.Equal(t, created.ID, e.TicketID)
	assert.Nil(t, e.UserID)
}

func TestUpdateStatusOnly(t *testing.T) {
	svc, _, ann := newService()
	created, err := svc.Create(context.Background(), "Test Ticket", "Test Description", 1)
	require.NoError(t, err)
	ann.next(t)

	updated, err := svc.Update(context.Background(), created.ID, service.TicketPatch{Status: strptr("in_progress")})
	require.NoError(t, err)

	assert.Equal(t, model.TicketStatusInProgress, updated.Status)
	assert.Equal(t, "Test Ticket", updated.Title)
	assert.Equal(t, "Test Description", updated.Description)
	assert.Equal(t, int64(1), updated.UserID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	ann.next(t)
}

func TestUpdateEmptyPatch(t *testing.T) {
	svc, _, ann := newService()
	created, err := svc.Create(context.Background(), "Test Ticket", "Test Description", 1)
	require.NoError(t, err)
	ann.next(t)

	updated, err := svc.Update(context.Background(), created.ID, service.TicketPatch{})
	require.NoError(t, err)
	assert.Equal(t, created, updated)

	e := ann.next(t)
	assert.Equal(t, event.TicketUpdated, e.Name)
}

func TestUpdateMissing(t *testing.T) {
	svc, _, ann := newService()

	_, err := svc.Update(context.Background(), 999, service.TicketPatch{Title: strptr("x")})
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
	ann.expectNone(t)
}

func TestUpdateStrictStatusPolicy(t *testing.T) {
	policy := model.StatusPolicy{
		Allowed: []model.TicketStatus{model.TicketStatusOpen, model.TicketStatusClosed},
		Strict:  true,
	}
	svc, _, ann := newService(service.WithStatusPolicy(policy))
	created, err := svc.Create(context.Background(), "Test Ticket", "Test Description", 1)
	require.NoError(t, err)
	ann.next(t)

	_, err = svc.Update(context.Background(), created.ID, service.TicketPatch{Status: strptr("bogus")})
	assert.ErrorIs(t, err, errs.ErrInvalidStatus)
	ann.expectNone(t)

	updated, err := svc.Update(context.Background(), created.ID, service.TicketPatch{Status: strptr("closed")})
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusClosed, updated.Status)
	ann.next(t)
}

func TestUpdatePermissiveByDefault(t *testing.T) {
	svc, _, ann := newService()
	created, err := svc.Create(context.Background(), "Test Ticket", "Test Description", 1)
	require.NoError(t, err)
	ann.next(t)

	updated, err := svc.Update(context.Background(), created.ID, service.TicketPatch{Status: strptr("anything_goes")})
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatus("anything_goes"), updated.Status)
	ann.next(t)
}
