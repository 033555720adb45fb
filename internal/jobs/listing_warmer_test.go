package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/pkg/model"
)

type mockRefresher struct {
	calls atomic.Int32
	err   error
}

func (m *mockRefresher) RefreshListings(context.Context) (model.ListingRun, error) {
	m.calls.Add(1)
	if m.err != nil {
		return model.ListingRun{}, m.err
	}
	return model.ListingRun{
		RunID:      uuid.New(),
		Categories: []model.ListingSummary{{Key: "goldbox", Status: "ok", ProductCount: 1}},
	}, nil
}

func TestListingWarmer_RunsImmediatelyAndOnTick(t *testing.T) {
	ref := &mockRefresher{}
	w := NewListingWarmer(zap.NewNop(), ref, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	assert.Eventually(t, func() bool { return ref.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	w.Stop()
	<-done
}

func TestListingWarmer_StopsOnContextCancel(t *testing.T) {
	ref := &mockRefresher{}
	w := NewListingWarmer(zap.NewNop(), ref, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return ref.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("warmer did not stop after context cancel")
	}
}

func TestListingWarmer_RefreshErrorKeepsRunning(t *testing.T) {
	ref := &mockRefresher{err: errors.New("redis unavailable")}
	w := NewListingWarmer(zap.NewNop(), ref, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	assert.Eventually(t, func() bool { return ref.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	w.Stop()
	<-done
}

func TestListingWarmer_StopIdempotent(t *testing.T) {
	w := NewListingWarmer(zap.NewNop(), &mockRefresher{}, time.Hour)
	assert.NotPanics(t, func() {
		w.Stop()
		w.Stop()
	})
}
