package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

func TestCommunity_PostThenList(t *testing.T) {
	f := newFixture(t)
	svc := f.community()
	ctx := context.Background()

	c, err := svc.Post(ctx, "Anxiety", "  sam ", "  breathing helped me  ")
	require.NoError(t, err)
	assert.Equal(t, "sam", c.Author)
	assert.Equal(t, "breathing helped me", c.Body)
	assert.NotEmpty(t, c.ID)

	list, err := svc.List(ctx, "Anxiety")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *c, list[0])
}

func TestCommunity_BlankAuthorDefaults(t *testing.T) {
	f := newFixture(t)
	c, err := f.community().Post(context.Background(), "Boundaries", "   ", "saying no is okay")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAuthor, c.Author)
}

func TestCommunity_WhitespacePostRejected(t *testing.T) {
	f := newFixture(t)
	svc := f.community()
	ctx := context.Background()

	_, err := svc.Post(ctx, "Depression", "amy", "first")
	require.NoError(t, err)
	before := f.readFile(t, ports.CollectionComments)

	_, err = svc.Post(ctx, "Depression", "amy", " \n\t ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := svc.List(ctx, "Depression")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, before, f.readFile(t, ports.CollectionComments))
}

func TestCommunity_UnknownTopic(t *testing.T) {
	f := newFixture(t)
	svc := f.community()

	_, err := svc.List(context.Background(), "Gardening")
	assert.ErrorIs(t, err, domain.ErrUnknownTopic)
	_, err = svc.Post(context.Background(), "Gardening", "x", "y")
	assert.ErrorIs(t, err, domain.ErrUnknownTopic)
}

func TestCommunity_IDsDistinctAndTimestampsMonotonic(t *testing.T) {
	f := newFixture(t)
	svc := f.community()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := []time.Time{base, base.Add(-time.Hour), base.Add(time.Minute)}
	i := 0
	svc.now = func() time.Time { at := clock[i]; i++; return at }

	for n := 0; n < 3; n++ {
		_, err := svc.Post(context.Background(), "Family Issues", "", fmt.Sprintf("post %d", n))
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), "Family Issues")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.NotEqual(t, list[0].ID, list[1].ID)
	assert.NotEqual(t, list[1].ID, list[2].ID)
	assert.Equal(t, base, list[1].CreatedAt)
	for k := 1; k < len(list); k++ {
		assert.False(t, list[k].CreatedAt.Before(list[k-1].CreatedAt))
	}
}

func TestCommunity_PreviewTruncation(t *testing.T) {
	f := newFixture(t)
	svc := f.community()
	ctx := context.Background()

	empty, err := svc.Preview(ctx, "Anxiety")
	require.NoError(t, err)
	assert.Equal(t, EmptyTopicPreview, empty)

	long := strings.Repeat("é", 300)
	_, err = svc.Post(ctx, "Anxiety", "", long)
	require.NoError(t, err)
	got, err := svc.Preview(ctx, "Anxiety")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)

	short := strings.Repeat("a", 50)
	_, err = svc.Post(ctx, "Anxiety", "", short)
	require.NoError(t, err)
	got, err = svc.Preview(ctx, "Anxiety")
	require.NoError(t, err)
	assert.Equal(t, short, got)
}

func TestCommunity_OverviewCoversAllTopics(t *testing.T) {
	f := newFixture(t)
	svc := f.community()
	ctx := context.Background()

	_, err := svc.Post(ctx, "Boundaries", "", "one")
	require.NoError(t, err)
	_, err = svc.Post(ctx, "Boundaries", "", "two")
	require.NoError(t, err)

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, overview, len(domain.Topics))
	for i, p := range overview {
		assert.Equal(t, domain.Topics[i], p.Topic)
		if p.Topic == "Boundaries" {
			assert.Equal(t, 2, p.Count)
			assert.Equal(t, "two", p.Preview)
			continue
		}
		assert.Zero(t, p.Count)
		assert.Equal(t, EmptyTopicPreview, p.Preview)
	}
}

func TestCommunity_ConcurrentPostsAllKept(t *testing.T) {
	f := newFixture(t)
	svc := f.community()
	const n = 40

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Post(context.Background(), "Anxiety", "", fmt.Sprintf("post %d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), "Anxiety")
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestCommunity_FreshStoreListsEmptyTopics(t *testing.T) {
	f := newFixture(t)
	svc := f.community()

	for _, topic := range domain.Topics {
		list, err := svc.List(context.Background(), topic)
		require.NoError(t, err)
		assert.Empty(t, list, topic)
	}

	raw := string(f.readFile(t, ports.CollectionComments))
	for _, topic := range domain.Topics {
		assert.Contains(t, raw, `"`+string(topic)+`"`)
	}
}

func TestCommunity_PostRecordsAuthorBodyAndTime(t *testing.T) {
	f := newFixture(t)
	svc := f.community()
	before := time.Now().UTC()

	_, err := svc.Post(context.Background(), "Depression", "alice", "hi there")
	require.NoError(t, err)

	list, err := svc.List(context.Background(), "Depression")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Author)
	assert.Equal(t, "hi there", list[0].Body)
	assert.False(t, list[0].CreatedAt.Before(before))
}

func TestCommunity_UnavailableBoard(t *testing.T) {
	f := newFixture(t)
	svc := NewCommunityService(f.store, failingCoordinator{errors.New("stopped")}, 0, zerolog.Nop())

	_, err := svc.Post(context.Background(), "Anxiety", "sam", "hello")
	assert.ErrorIs(t, err, domain.ErrCollectionUnavailable)
	_, err = svc.List(context.Background(), "Anxiety")
	assert.ErrorIs(t, err, domain.ErrCollectionUnavailable)
	_, err = svc.Overview(context.Background())
	assert.ErrorIs(t, err, domain.ErrCollectionUnavailable)
	assert.Nil(t, f.readFile(t, ports.CollectionComments))
}
