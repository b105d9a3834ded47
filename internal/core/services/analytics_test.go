package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestAnalyticsRecorder_TrackAndFlush(t *testing.T) {
	store := &mockAnalyticsStore{}
	recorder := newAnalyticsRecorder(store, fixedNow, 16)
	defer recorder.Close()

	recorder.Track("s1", strings.Repeat("x", 300), domain.IntentSearch, 2)
	recorder.TrackPageView("/platform/synth-ai")
	recorder.TrackPageView("  ")

	require.NoError(t, recorder.Flush(context.Background()))

	require.Equal(t, 1, store.count())
	got := store.interactions[0]
	assert.Equal(t, "s1", got.SessionID)
	assert.Len(t, got.Message, domain.MaxStoredMessageRunes)
	assert.Equal(t, fixedNow(), got.Timestamp)
	assert.Equal(t, []string{"/platform/synth-ai"}, store.pageViews)
}

func TestAnalyticsRecorder_PreservesOrder(t *testing.T) {
	store := &mockAnalyticsStore{}
	recorder := newAnalyticsRecorder(store, fixedNow, 64)
	defer recorder.Close()

	for _, msg := range []string{"one", "two", "three"} {
		recorder.Track("s1", msg, domain.IntentSearch, 0)
	}
	require.NoError(t, recorder.Flush(context.Background()))

	var messages []string
	for _, i := range store.interactions {
		messages = append(messages, i.Message)
	}
	assert.Equal(t, []string{"one", "two", "three"}, messages)
}

func TestAnalyticsRecorder_ConcurrentTrackNoLostUpdates(t *testing.T) {
	store := &mockAnalyticsStore{}
	recorder := newAnalyticsRecorder(store, fixedNow, 1024)
	defer recorder.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				recorder.Track("s", "msg", domain.IntentQuestion, 1)
			}
		}()
	}
	wg.Wait()
	require.NoError(t, recorder.Flush(context.Background()))

	assert.Equal(t, 500, store.count())
}

func TestAnalyticsRecorder_StoreErrorsSwallowed(t *testing.T) {
	store := &mockAnalyticsStore{recordErr: errors.New("disk full")}
	recorder := newAnalyticsRecorder(store, fixedNow, 4)
	defer recorder.Close()

	assert.NotPanics(t, func() {
		recorder.Track("s1", "hello", domain.IntentSearch, 0)
		recorder.TrackPageView("/")
	})
	require.NoError(t, recorder.Flush(context.Background()))
	assert.Equal(t, 0, store.count())
}

func TestAnalyticsRecorder_FullQueueDropsWithoutBlocking(t *testing.T) {
	store := &mockAnalyticsStore{delay: 20 * time.Millisecond}
	recorder := newAnalyticsRecorder(store, fixedNow, 1)
	defer recorder.Close()

	start := time.Now()
	for i := 0; i < 20; i++ {
		recorder.Track("s1", "hello", domain.IntentSearch, 0)
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	require.NoError(t, recorder.Flush(context.Background()))
	assert.Less(t, store.count(), 20)
}

func TestAnalyticsRecorder_CloseDrains(t *testing.T) {
	store := &mockAnalyticsStore{}
	recorder := newAnalyticsRecorder(store, fixedNow, 16)

	recorder.Track("s1", "a", domain.IntentSearch, 0)
	recorder.Track("s1", "b", domain.IntentSearch, 0)
	require.NoError(t, recorder.Close())

	assert.Equal(t, 2, store.count())
	assert.False(t, store.closed)

	recorder.Track("s1", "late", domain.IntentSearch, 0)
	assert.ErrorIs(t, recorder.Flush(context.Background()), domain.ErrRecorderClosed)
	assert.NoError(t, recorder.Close())
}

func TestAnalyticsRecorder_Summaries(t *testing.T) {
	store := &mockAnalyticsStore{}
	recorder := newAnalyticsRecorder(store, fixedNow, 16)
	defer recorder.Close()

	recorder.Track("s1", "a", domain.IntentSearch, 0)
	recorder.TrackPageView("/")
	require.NoError(t, recorder.Flush(context.Background()))

	summary, err := recorder.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Totals.Messages)

	views, err := recorder.PageViews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, views.Total)
}

func TestAnalyticsRecorder_FlushHonoursContext(t *testing.T) {
	store := &mockAnalyticsStore{delay: 200 * time.Millisecond}
	recorder := newAnalyticsRecorder(store, fixedNow, 4)
	defer recorder.Close()

	recorder.Track("s1", "slow", domain.IntentSearch, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, recorder.Flush(ctx), context.DeadlineExceeded)
}
