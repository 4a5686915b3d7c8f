package repository

import (
	"context"
	"testing"

	"github.com/microdesk/ticket-service/internal/errs"
	"github.com/microdesk/ticket-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryCreateAssignsIDs(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	a := &model.Ticket{Title: "a", Status: model.TicketStatusOpen, UserID: 1}
	b := &model.Ticket{Title: "b", Status: model.TicketStatusOpen, UserID: 2}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	assert.Equal(t, uint64(1), a.ID)
	assert.Equal(t, uint64(2), b.ID)
	assert.NotEmpty(t, a.CreatedAt)
}

func TestMemoryRepositoryUpdateOverwritesMutableFields(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	a := &model.Ticket{Title: "a", Description: "d", Status: model.TicketStatusOpen, UserID: 1}
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.Update(ctx, a.ID, "a2", "d2", model.TicketStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Title)
	assert.Equal(t, "d2", got.Description)
	assert.Equal(t, model.TicketStatusClosed, got.Status)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)

	_, err = repo.Update(ctx, 999, "x", "y", model.TicketStatusOpen)
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
}
