package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsSuggester/internal/domain"
)

type fakeFeedEntryRepo struct {
	entries   map[string]domain.FeedEntry
	nextID    int64
	createErr error
}

func newFakeFeedEntryRepo() *fakeFeedEntryRepo {
	return &fakeFeedEntryRepo{entries: map[string]domain.FeedEntry{}}
}

func (f *fakeFeedEntryRepo) ExistsByUniqID(_ context.Context, uniqID string) (bool, error) {
	_, ok := f.entries[uniqID]
	return ok, nil
}

func (f *fakeFeedEntryRepo) Create(_ context.Context, entry *domain.FeedEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	entry.ID = f.nextID
	f.entries[entry.UniqID] = *entry
	return nil
}

func (f *fakeFeedEntryRepo) ListRecentByFeed(_ context.Context, feedName string, limit int) ([]domain.FeedEntry, error) {
	var result []domain.FeedEntry
	for _, entry := range f.entries {
		if feedName == "" || entry.FeedName == feedName {
			result = append(result, entry)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func TestPublishMirrorsToInternalFeed(t *testing.T) {
	t.Parallel()

	news := &fakeNewsRepo{}
	entries := newFakeFeedEntryRepo()
	publisher := NewNewsPublisher(news, entries, passthroughTx{}, nil)

	published, err := publisher.Publish(context.Background(), "Greeting policy", "Say good afternoon")
	require.NoError(t, err)
	assert.NotZero(t, published.ID)
	require.NotNil(t, published.FeedEntryID)

	uniqID := fmt.Sprintf("internal-news-%d", published.ID)
	entry, ok := entries.entries[uniqID]
	require.True(t, ok, "internal feed mirror missing")
	assert.Equal(t, domain.InternalFeedName, entry.FeedName)
	assert.Equal(t, "Greeting policy", entry.Title)
	assert.Equal(t, "Say good afternoon", entry.Description)
	assert.Equal(t, fmt.Sprintf("/news/%d", published.ID), entry.Link)
	assert.Equal(t, entry.ID, *published.FeedEntryID)

	stored, err := news.FindByID(context.Background(), published.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FeedEntryID)
	assert.Equal(t, entry.ID, *stored.FeedEntryID)
}

func TestPublishMirrorFailure(t *testing.T) {
	t.Parallel()

	entries := newFakeFeedEntryRepo()
	entries.createErr = errors.New("insert failed")
	publisher := NewNewsPublisher(&fakeNewsRepo{}, entries, passthroughTx{}, nil)

	_, err := publisher.Publish(context.Background(), "t", "c")
	require.Error(t, err)
}
