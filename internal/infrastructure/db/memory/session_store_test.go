package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespace/support-portal/internal/core/domain"
)

func TestSessionStore_RoundTripIsolatesCopies(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	sess := domain.NewSession("s-1", time.Now())
	sess.Conversation = []domain.Turn{{Role: domain.RoleUser, Content: "hi"}}
	require.NoError(t, store.Create(ctx, sess))

	sess.Conversation[0].Content = "mutated after save"

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Conversation[0].Content)

	got.Username = "changed"
	again, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, again.Username)
}

func TestSessionStore_SaveAfterDeleteStaysDeleted(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	sess := domain.NewSession("s-3", time.Now())
	require.NoError(t, store.Create(ctx, sess))
	sess.Username = "alice"
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s-3")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, store.Delete(ctx, "s-3"))
	assert.ErrorIs(t, store.Save(ctx, sess), domain.ErrSessionNotFound)
	_, err = store.Get(ctx, "s-3")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_DeleteAndMissing(t *testing.T) {
	store := NewSessionStore(0)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.NewSession("s-2", time.Now())))
	require.NoError(t, store.Delete(ctx, "s-2"))

	_, err := store.Get(ctx, "s-2")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
