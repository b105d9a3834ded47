package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driving"
	"github.com/VladSF415/ai-platforms-directory/internal/logger"
)

// Ensure AnalyticsRecorder implements the interface.
var _ driving.AnalyticsService = (*AnalyticsRecorder)(nil)

const (
	// analyticsQueueSize bounds events waiting to be written.
	analyticsQueueSize = 256

	// analyticsWriteTimeout bounds a single store write.
	analyticsWriteTimeout = 5 * time.Second
)

// analyticsEvent is one unit of work for the writer goroutine.
// Exactly one field is set.
type analyticsEvent struct {
	interaction *domain.Interaction
	pageView    *pageViewEvent
	flushed     chan struct{}
}

type pageViewEvent struct {
	path string
	at   time.Time
}

// AnalyticsRecorder serialises all analytics writes through a single
// goroutine that owns the store. Tracking never blocks the caller: when
// the queue is full the event is dropped with a warning. Store failures
// are logged and swallowed.
type AnalyticsRecorder struct {
	store  driven.AnalyticsStore
	now    func() time.Time
	events chan analyticsEvent
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAnalyticsRecorder creates a recorder and starts its writer goroutine.
// Call Close to drain and stop it.
func NewAnalyticsRecorder(store driven.AnalyticsStore) *AnalyticsRecorder {
	return newAnalyticsRecorder(store, time.Now, analyticsQueueSize)
}

func newAnalyticsRecorder(store driven.AnalyticsStore, now func() time.Time, queueSize int) *AnalyticsRecorder {
	r := &AnalyticsRecorder{
		store:  store,
		now:    now,
		events: make(chan analyticsEvent, queueSize),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

// Track queues one chat interaction.
func (r *AnalyticsRecorder) Track(sessionID, message string, intent domain.IntentType, recommendedCount int) {
	interaction := domain.NewInteraction(r.now(), sessionID, message, intent, recommendedCount)
	r.enqueue(analyticsEvent{interaction: &interaction})
}

// TrackPageView queues one page view.
func (r *AnalyticsRecorder) TrackPageView(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	r.enqueue(analyticsEvent{pageView: &pageViewEvent{path: domain.NormalisePath(path), at: r.now().UTC()}})
}

// Summary returns the chat analytics.
func (r *AnalyticsRecorder) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	summary, err := r.store.Summary(ctx, r.now())
	if err != nil {
		return nil, fmt.Errorf("analytics summary: %w", err)
	}
	return summary, nil
}

// PageViews returns the page-view analytics.
func (r *AnalyticsRecorder) PageViews(ctx context.Context) (*domain.PageViewSummary, error) {
	summary, err := r.store.PageViewSummary(ctx, r.now())
	if err != nil {
		return nil, fmt.Errorf("page view summary: %w", err)
	}
	return summary, nil
}

// Flush waits until every event queued before the call has been written.
func (r *AnalyticsRecorder) Flush(ctx context.Context) error {
	marker := make(chan struct{})

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return domain.ErrRecorderClosed
	}
	select {
	case r.events <- analyticsEvent{flushed: marker}:
	case <-ctx.Done():
		r.mu.RUnlock()
		return ctx.Err()
	}
	r.mu.RUnlock()

	select {
	case <-marker:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events, drains the queue and waits for the
// writer goroutine to exit. It does not close the store.
func (r *AnalyticsRecorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.events)
	r.mu.Unlock()

	<-r.done
	return nil
}

func (r *AnalyticsRecorder) enqueue(ev analyticsEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		logger.Debug("Analytics event ignored: %v", domain.ErrRecorderClosed)
		return
	}
	select {
	case r.events <- ev:
	default:
		logger.Warn("Analytics queue full, event dropped")
	}
}

func (r *AnalyticsRecorder) run() {
	defer close(r.done)
	for ev := range r.events {
		r.apply(ev)
	}
}

func (r *AnalyticsRecorder) apply(ev analyticsEvent) {
	if ev.flushed != nil {
		close(ev.flushed)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyticsWriteTimeout)
	defer cancel()

	switch {
	case ev.interaction != nil:
		if err := r.store.RecordInteraction(ctx, *ev.interaction); err != nil {
			logger.Warn("Record interaction: %v", err)
		}
	case ev.pageView != nil:
		if err := r.store.RecordPageView(ctx, ev.pageView.path, ev.pageView.at); err != nil {
			logger.Warn("Record page view: %v", err)
		}
	}
}
