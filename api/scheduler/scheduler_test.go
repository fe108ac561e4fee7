package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crestmont/site-api/models"
	"github.com/crestmont/site-api/session"
)

type stubAnnouncements struct {
	mu     sync.Mutex
	active []models.Announcement
	err    error
}

func (s *stubAnnouncements) Active(ctx context.Context) ([]models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.err
}

func (s *stubAnnouncements) All(ctx context.Context, token string, page, pageSize int) ([]models.Announcement, models.Pagination, error) {
	return nil, models.Pagination{}, nil
}
func (s *stubAnnouncements) Get(ctx context.Context, token, id string) (*models.Announcement, error) {
	return nil, nil
}
func (s *stubAnnouncements) Create(ctx context.Context, token string, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	return nil, nil
}
func (s *stubAnnouncements) Update(ctx context.Context, token, id string, req models.UpdateAnnouncementRequest) (*models.Announcement, error) {
	return nil, nil
}
func (s *stubAnnouncements) Delete(ctx context.Context, token, id string) error { return nil }

func (s *stubAnnouncements) set(active []models.Announcement) {
	s.mu.Lock()
	s.active = active
	s.mu.Unlock()
}

type captureBroadcaster struct {
	mu    sync.Mutex
	calls []string
}

func (c *captureBroadcaster) BroadcastFingerprint(fp string, count int) {
	c.mu.Lock()
	c.calls = append(c.calls, fp)
	c.mu.Unlock()
}

func (c *captureBroadcaster) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func TestRefreshAnnouncementsBroadcastsOnChange(t *testing.T) {
	svc := &stubAnnouncements{active: []models.Announcement{{ID: "1", Active: true}}}
	b := &captureBroadcaster{}
	invalidated := 0

	s := New(svc, session.NewMemoryStore(time.Minute), b, func() { invalidated++ })

	s.RefreshAnnouncements()
	assert.Equal(t, 1, b.count())
	assert.Equal(t, 1, invalidated)

	fp, count := s.LastFingerprint()
	assert.Equal(t, session.Fingerprint([]string{"1"}), fp)
	assert.Equal(t, 1, count)

	// same set again: no broadcast, no invalidation
	s.RefreshAnnouncements()
	assert.Equal(t, 1, b.count())
	assert.Equal(t, 1, invalidated)

	// changed set
	svc.set([]models.Announcement{{ID: "1", Active: true}, {ID: "2", Active: true}})
	s.RefreshAnnouncements()
	assert.Equal(t, 2, b.count())
	assert.Equal(t, 2, invalidated)
}

func TestRefreshAnnouncementsKeepsStateOnError(t *testing.T) {
	svc := &stubAnnouncements{active: []models.Announcement{{ID: "1", Active: true}}}
	b := &captureBroadcaster{}

	s := New(svc, session.NewMemoryStore(time.Minute), b, nil)
	s.RefreshAnnouncements()
	fp, _ := s.LastFingerprint()

	svc.mu.Lock()
	svc.err = assert.AnError
	svc.mu.Unlock()

	s.RefreshAnnouncements()
	fp2, _ := s.LastFingerprint()
	assert.Equal(t, fp, fp2)
	assert.Equal(t, 1, b.count())
}

func TestPruneSessions(t *testing.T) {
	store := session.NewMemoryStore(time.Nanosecond)
	store.Set("stale", "k", "v")
	time.Sleep(5 * time.Millisecond)

	s := New(&stubAnnouncements{}, store, nil, nil)
	s.PruneSessions()
	assert.Equal(t, 0, store.Len())
}
