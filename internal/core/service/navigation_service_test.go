package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

func TestNavigation_LoginLandsOnChatWithHistory(t *testing.T) {
	f := newFixture(t)
	conv := f.conversation(&stubCompletion{reply: "welcome back"})
	_, err := conv.Chat(context.Background(), loggedIn("bob"), "hello again")
	require.NoError(t, err)

	nav, sessions := f.navigation(conv)
	s, err := nav.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateAnonymous, nav.Current(s).State)

	screen, err := nav.Login(context.Background(), s, " bob ", "123456")
	require.NoError(t, err)
	assert.Equal(t, domain.StateTab, screen.State)
	assert.Equal(t, domain.TabChat, screen.Tab)
	assert.Equal(t, "bob", screen.Username)
	require.Len(t, screen.Turns, 2)
	assert.True(t, s.HistorySeeded)

	stored, err := sessions.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.Username)
	assert.Len(t, stored.Conversation, 2)
}

func TestNavigation_InvalidLoginNoStateChange(t *testing.T) {
	f := newFixture(t)
	nav, sessions := f.navigation(f.conversation(nil))
	s, _ := nav.Start(context.Background())

	for _, tc := range []struct{ user, pass string }{
		{"", "123456"},
		{"averylongname", "123456"},
		{"bob", "12345"},
		{"bob", "abcdef"},
	} {
		_, err := nav.Login(context.Background(), s, tc.user, tc.pass)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "%q/%q", tc.user, tc.pass)
		assert.Equal(t, domain.StateAnonymous, s.View.State())
		assert.False(t, s.Authenticated)
	}
	_, err := sessions.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestNavigation_TabsAndTopics(t *testing.T) {
	f := newFixture(t)
	community := f.community()
	_, err := community.Post(context.Background(), "Anxiety", "sam", "you are not alone")
	require.NoError(t, err)

	nav, _ := f.navigation(f.conversation(nil))
	s, _ := nav.Start(context.Background())
	_, err = nav.Login(context.Background(), s, "amy", "000000")
	require.NoError(t, err)

	_, err = nav.OpenTopic(context.Background(), s, "Anxiety")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	screen, err := nav.SelectTab(context.Background(), s, domain.TabCommunity)
	require.NoError(t, err)
	assert.Equal(t, domain.StateTab, screen.State)
	assert.Empty(t, screen.Comments)

	_, err = nav.OpenTopic(context.Background(), s, "Gardening")
	assert.ErrorIs(t, err, domain.ErrUnknownTopic)
	assert.Equal(t, domain.StateTab, s.View.State())

	screen, err = nav.OpenTopic(context.Background(), s, "Anxiety")
	require.NoError(t, err)
	assert.Equal(t, domain.StateCommunityTopic, screen.State)
	require.Len(t, screen.Comments, 1)
	assert.Equal(t, "you are not alone", screen.Comments[0].Body)

	screen, err = nav.SelectTab(context.Background(), s, domain.TabTools)
	require.NoError(t, err)
	assert.Equal(t, domain.TabTools, screen.Tab)
	assert.Empty(t, screen.Topic)

	_, err = nav.Back(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestNavigation_OpenTopicAndBackLeaveCollectionsUntouched(t *testing.T) {
	f := newFixture(t)
	nav, _ := f.navigation(f.conversation(nil))
	s, _ := nav.Start(context.Background())
	_, err := nav.Login(context.Background(), s, "lee", "424242")
	require.NoError(t, err)
	_, err = f.community().Overview(context.Background())
	require.NoError(t, err)

	names := []string{ports.CollectionHistory, ports.CollectionComments, ports.CollectionAppointments}
	before := map[string][]byte{}
	for _, n := range names {
		before[n] = f.readFile(t, n)
	}

	_, err = nav.SelectTab(context.Background(), s, domain.TabCommunity)
	require.NoError(t, err)
	_, err = nav.OpenTopic(context.Background(), s, "Anxiety")
	require.NoError(t, err)
	screen, err := nav.Back(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, domain.StateTab, screen.State)
	assert.Equal(t, domain.TabCommunity, screen.Tab)

	for _, n := range names {
		assert.Equal(t, before[n], f.readFile(t, n), n)
	}
}

func TestNavigation_LogoutDiscardsSession(t *testing.T) {
	f := newFixture(t)
	nav, sessions := f.navigation(f.conversation(nil))
	s, _ := nav.Start(context.Background())
	_, err := nav.Login(context.Background(), s, "kim", "111111")
	require.NoError(t, err)
	id := s.ID

	require.NoError(t, nav.Logout(context.Background(), s))
	assert.Equal(t, domain.StateAnonymous, s.View.State())
	assert.Empty(t, s.Username)
	assert.Empty(t, s.Conversation)

	_, err = sessions.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, nav.Logout(context.Background(), s), domain.ErrUnauthenticated)
}

func TestNavigation_AnonymousCannotNavigate(t *testing.T) {
	f := newFixture(t)
	nav, _ := f.navigation(f.conversation(nil))
	s, _ := nav.Start(context.Background())

	_, err := nav.SelectTab(context.Background(), s, domain.TabChat)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = nav.Back(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestNavigation_LoginFailsWhenHistoryUnavailable(t *testing.T) {
	f := newFixture(t)
	conv := f.conversation(&stubCompletion{reply: "r"})
	_, err := conv.Chat(context.Background(), loggedIn("bob"), "first visit")
	require.NoError(t, err)

	down := NewConversationService(f.store, failingCoordinator{errors.New("stopped")}, nil, ConversationConfig{}, zerolog.Nop())
	nav, sessions := f.navigation(down)
	s, _ := nav.Start(context.Background())

	_, err = nav.Login(context.Background(), s, "bob", "123456")
	assert.ErrorIs(t, err, domain.ErrCollectionUnavailable)
	assert.False(t, s.Authenticated)
	assert.False(t, s.HistorySeeded)
	_, err = sessions.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	nav, _ = f.navigation(conv)
	_, err = nav.Login(context.Background(), s, "bob", "123456")
	require.NoError(t, err)
	_, err = conv.Chat(context.Background(), s, "second visit")
	require.NoError(t, err)

	stored := history(t, conv, "bob")
	require.Len(t, stored, 4)
	assert.Equal(t, "first visit", stored[0].Content)
}

func TestNavigation_StaleCopyCannotReviveLoggedOutSession(t *testing.T) {
	f := newFixture(t)
	nav, sessions := f.navigation(f.conversation(nil))
	s, _ := nav.Start(context.Background())
	_, err := nav.Login(context.Background(), s, "kim", "111111")
	require.NoError(t, err)

	stale, err := sessions.Get(context.Background(), s.ID)
	require.NoError(t, err)
	require.NoError(t, nav.Logout(context.Background(), s))

	_, err = nav.SelectTab(context.Background(), stale, domain.TabCommunity)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = sessions.Get(context.Background(), stale.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
