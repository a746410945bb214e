package client

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// FetchFunc loads a fresh snapshot from the backend.
type FetchFunc func(ctx context.Context) (Snapshot, error)

// RenderFunc applies a snapshot to the screen. added and removed carry the
// identity strings that changed since the last rendered snapshot.
type RenderFunc func(snap Snapshot, added, removed []string)

// Synchronizer drives one screen: it polls on a fixed interval, diffs the
// result against the last rendered view, and hands changes to the renderer.
// A failed fetch abandons the tick and the previous view stands untouched.
//
// Every fetch is stamped with a monotonic sequence number. A response that
// completes after a newer one has already been applied is discarded, so a
// slow in-flight poll can never roll the screen back to stale state.
type Synchronizer struct {
	Interval time.Duration
	Fetch    FetchFunc
	Render   RenderFunc

	mu       sync.Mutex
	nextSeq  uint64
	applied  uint64
	rendered IDSet
}

func NewSynchronizer(interval time.Duration, fetch FetchFunc, render RenderFunc) *Synchronizer {
	return &Synchronizer{
		Interval: interval,
		Fetch:    fetch,
		Render:   render,
		rendered: make(IDSet),
	}
}

// Run polls until ctx is cancelled. The first tick fires immediately so a
// screen never sits empty for a full interval after opening.
func (s *Synchronizer) Run(ctx context.Context) {
	s.Tick(ctx)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go s.Tick(ctx)
		}
	}
}

// Tick performs one fetch-diff-render cycle. Safe to call concurrently; the
// sequence guard keeps late responses from clobbering newer ones.
func (s *Synchronizer) Tick(ctx context.Context) {
	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.mu.Unlock()

	snap, err := s.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logrus.Warnf("poll failed, keeping previous view: %v", err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		// A newer fetch already rendered; this response is stale.
		return
	}
	s.applied = seq

	next := snap.IDs()
	added, removed := DiffIDs(s.rendered, next)
	s.Render(snap, added, removed)
	s.rendered = next
}

// Rendered returns a copy of the identity set currently on screen.
func (s *Synchronizer) Rendered() IDSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(IDSet, len(s.rendered))
	for id := range s.rendered {
		out[id] = struct{}{}
	}
	return out
}
