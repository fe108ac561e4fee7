// Package scheduler runs the background jobs behind the announcement window:
// a periodic refetch of the active announcement list and a sweep of idle
// visitor sessions.
package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/session"
)

// Broadcaster pushes a fingerprint change to connected clients
type Broadcaster interface {
	BroadcastFingerprint(fingerprint string, count int)
}

// Scheduler owns the cron jobs and the last committed announcement state
type Scheduler struct {
	announcements cms.AnnouncementService
	sessions      *session.MemoryStore
	broadcaster   Broadcaster
	invalidate    func()
	guard         *cms.LatestGuard
	cron          *cron.Cron

	mu              sync.RWMutex
	lastFingerprint string
	lastCount       int
}

// New wires the scheduler; Start must be called to begin the jobs
func New(announcements cms.AnnouncementService, sessions *session.MemoryStore, b Broadcaster, invalidate func()) *Scheduler {
	return &Scheduler{
		announcements: announcements,
		sessions:      sessions,
		broadcaster:   b,
		invalidate:    invalidate,
		guard:         cms.NewLatestGuard(),
		cron:          cron.New(),
	}
}

// Start registers and launches the cron jobs
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("@every 1m", s.RefreshAnnouncements)
	if err != nil {
		zap.S().With(err).Error("failed to schedule announcement refresh")
	}
	_, err = s.cron.AddFunc("@every 10m", s.PruneSessions)
	if err != nil {
		zap.S().With(err).Error("failed to schedule session prune")
	}
	s.cron.Start()

	// warm the fingerprint so the first presentation request does not race
	// the first tick
	go s.RefreshAnnouncements()
}

// Stop halts the cron jobs; running jobs finish
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RefreshAnnouncements refetches the active announcement list and, when its
// fingerprint changed, invalidates the read cache and notifies clients. A
// fetch that completes after a newer one is discarded.
func (s *Scheduler) RefreshAnnouncements() {
	seq := s.guard.Begin("announcements")

	ctx, cancel := api.WithUpstreamTimeout(context.Background())
	defer cancel()

	active, err := s.announcements.Active(ctx)
	if err != nil {
		zap.S().With(err).Warn("announcement refresh failed")
		return
	}
	if !s.guard.Commit("announcements", seq) {
		zap.S().Debugw("discarded stale announcement fetch", "seq", seq)
		return
	}

	_, ids := session.EligibleIDs(active)
	fingerprint := session.Fingerprint(ids)

	s.mu.Lock()
	changed := fingerprint != s.lastFingerprint
	s.lastFingerprint = fingerprint
	s.lastCount = len(ids)
	s.mu.Unlock()

	if !changed {
		return
	}
	zap.S().Infow("announcement set changed",
		"fingerprint", fingerprint,
		"count", len(ids))
	if s.invalidate != nil {
		s.invalidate()
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastFingerprint(fingerprint, len(ids))
	}
}

// PruneSessions drops visitor sessions idle past their TTL
func (s *Scheduler) PruneSessions() {
	removed := s.sessions.Prune()
	if removed > 0 {
		zap.S().Infow("pruned idle sessions",
			"removed", removed,
			"remaining", s.sessions.Len())
	}
}

// LastFingerprint returns the most recently committed announcement state
func (s *Scheduler) LastFingerprint() (string, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFingerprint, s.lastCount
}
