package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

func TestConversation_GetUnknownUserIsEmpty(t *testing.T) {
	f := newFixture(t)
	turns, err := f.conversation(nil).Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)
}

func TestConversation_ChatPersistsBothTurns(t *testing.T) {
	f := newFixture(t)
	p := &stubCompletion{reply: "  That sounds hard. Want to talk about it?  "}
	svc := f.conversation(p)
	s := loggedIn("bob")

	reply, err := svc.Chat(context.Background(), s, "  I can't sleep ")
	require.NoError(t, err)
	assert.Equal(t, "That sounds hard. Want to talk about it?", reply)

	want := []domain.Turn{
		{Role: domain.RoleUser, Content: "I can't sleep"},
		{Role: domain.RoleAssistant, Content: reply},
	}
	assert.Equal(t, want, s.Conversation)
	assert.Equal(t, want, history(t, svc, "bob"))

	require.Len(t, p.calls, 1)
	assert.Equal(t, SystemPrompt, p.system)
	assert.Equal(t, want[:1], p.calls[0])
}

func TestConversation_HistorySurvivesRestart(t *testing.T) {
	f := newFixture(t)
	s := loggedIn("bob")
	_, err := f.conversation(&stubCompletion{reply: "hi bob"}).Chat(context.Background(), s, "hello")
	require.NoError(t, err)

	restarted := openFixture(t, f.dir)
	turns := history(t, restarted.conversation(nil), "bob")
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, "hi bob", turns[1].Content)
}

func TestConversation_OtherUsersKept(t *testing.T) {
	f := newFixture(t)
	svc := f.conversation(&stubCompletion{reply: "ok"})

	_, err := svc.Chat(context.Background(), loggedIn("alice"), "one")
	require.NoError(t, err)
	_, err = svc.Chat(context.Background(), loggedIn("bob"), "two")
	require.NoError(t, err)

	assert.Len(t, history(t, svc, "alice"), 2)
	assert.Len(t, history(t, svc, "bob"), 2)
}

func TestConversation_FallbackReplies(t *testing.T) {
	cases := []struct {
		name     string
		provider *stubCompletion
	}{
		{"disabled", nil},
		{"error", &stubCompletion{err: errors.New("quota exceeded")}},
		{"empty", &stubCompletion{reply: "   "}},
		{"timeout", &stubCompletion{block: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			s := loggedIn("carol")
			reply, err := f.conversation(tc.provider).Chat(context.Background(), s, "are you there?")
			require.NoError(t, err)
			assert.Equal(t, DefaultFallbackReply, reply)
			require.Len(t, s.Conversation, 2)
			assert.Equal(t, domain.RoleAssistant, s.Conversation[1].Role)
		})
	}
}

func TestConversation_EmptyPromptRejected(t *testing.T) {
	f := newFixture(t)
	p := &stubCompletion{reply: "unused"}
	s := loggedIn("dave")

	_, err := f.conversation(p).Chat(context.Background(), s, " \n\t")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, s.Conversation)
	assert.Empty(t, p.calls)
	assert.Nil(t, f.readFile(t, ports.CollectionHistory))
}

func TestConversation_AnonymousRejected(t *testing.T) {
	f := newFixture(t)
	s := domain.NewSession("anon", time.Now())
	_, err := f.conversation(nil).Chat(context.Background(), s, "hi")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestConversation_AppendAndPersistSurvivesRestart(t *testing.T) {
	f := newFixture(t)
	s := loggedIn("bob")
	turn := domain.Turn{Role: domain.RoleUser, Content: "hello"}

	require.NoError(t, f.conversation(nil).AppendAndPersist(context.Background(), s, turn))

	turns := history(t, openFixture(t, f.dir).conversation(nil), "bob")
	require.NotEmpty(t, turns)
	assert.Equal(t, turn, turns[len(turns)-1])
}

func history(t *testing.T, svc *ConversationService, username string) []domain.Turn {
	t.Helper()
	turns, err := svc.Get(context.Background(), username)
	require.NoError(t, err)
	return turns
}

// failingCoordinator rejects every job, as a stopped coordinator does.
type failingCoordinator struct{ err error }

func (c failingCoordinator) Do(context.Context, string, func(context.Context) error) error {
	return c.err
}

func TestConversation_GetReportsUnavailableCollection(t *testing.T) {
	f := newFixture(t)
	svc := NewConversationService(f.store, failingCoordinator{errors.New("stopped")}, nil, ConversationConfig{}, zerolog.Nop())

	turns, err := svc.Get(context.Background(), "bob")
	assert.ErrorIs(t, err, domain.ErrCollectionUnavailable)
	assert.Nil(t, turns)
}

func TestConversation_UnseededSessionKeepsStoredHistory(t *testing.T) {
	f := newFixture(t)
	svc := f.conversation(&stubCompletion{reply: "r"})
	_, err := svc.Chat(context.Background(), loggedIn("bob"), "first visit")
	require.NoError(t, err)

	s := loggedIn("bob")
	s.HistorySeeded = false
	_, err = svc.Chat(context.Background(), s, "second visit")
	require.NoError(t, err)

	stored := history(t, svc, "bob")
	require.Len(t, stored, 4)
	assert.Equal(t, "first visit", stored[0].Content)
	assert.Equal(t, "second visit", stored[2].Content)
	assert.Equal(t, stored, s.Conversation)
	assert.True(t, s.HistorySeeded)
}
