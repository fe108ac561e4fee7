package session

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/crestmont/site-api/models"
)

// Storage keys for a session's presentation state.
const (
	keyFingerprint  = "announcementFingerprint"
	keyIndex        = "announcementIndex"
	keyAcknowledged = "announcementAcknowledged"
)

// Tracker decides, per browsing session, whether freshly fetched
// announcements still need to be shown and steps through them one at a
// time. It never re-presents a set the session has already seen: the set is
// identified by a fingerprint over the ordered list of record identifiers.
type Tracker struct {
	Store Store
}

// NewTracker returns a Tracker backed by the given store
func NewTracker(store Store) *Tracker {
	return &Tracker{Store: store}
}

// Fingerprint computes a deterministic digest over the ordered identifier
// sequence. Order, membership and count all change the result; identifiers
// are length-prefixed so ["ab","c"] and ["a","bc"] cannot collide.
func Fingerprint(ids []string) string {
	h := sha256.New()
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(ids)))
	h.Write(n[:])
	for _, id := range ids {
		binary.BigEndian.PutUint64(n[:], uint64(len(id)))
		h.Write(n[:])
		h.Write([]byte(id))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// EligibleIDs filters records down to active entries that carry an
// identifier. A record without an identifier is excluded so it cannot
// poison the fingerprint.
func EligibleIDs(records []models.Announcement) ([]models.Announcement, []string) {
	var eligible []models.Announcement
	var ids []string
	for _, rec := range records {
		if !rec.Active || rec.ID == "" {
			continue
		}
		eligible = append(eligible, rec)
		ids = append(ids, rec.ID)
	}
	return eligible, ids
}

// ShouldPresent reports whether a freshly computed fingerprint differs from
// the stored one. Pure: the caller persists the returned fingerprint. An
// empty id list never presents.
func ShouldPresent(ids []string, storedFingerprint string) (bool, string) {
	if len(ids) == 0 {
		return false, ""
	}
	fp := Fingerprint(ids)
	if fp == storedFingerprint {
		return false, fp
	}
	return true, fp
}

// Advance steps the presentation index. done is true once the index reaches
// total; the index is then pinned at total and never wraps.
func Advance(current, total int) (next int, done bool) {
	if current >= total-1 {
		return total, true
	}
	return current + 1, false
}

// Begin commits a new fingerprint for the session: index resets to 0 and
// the acknowledged flag clears. Identical fingerprints are a no-op so a
// rapid refetch cannot reset an in-progress or completed sequence.
func (t *Tracker) Begin(sessionID, fingerprint string) bool {
	stored, _ := t.Store.Get(sessionID, keyFingerprint)
	if stored == fingerprint {
		return false
	}
	t.Store.Set(sessionID, keyFingerprint, fingerprint)
	t.Store.Set(sessionID, keyIndex, "0")
	t.Store.Delete(sessionID, keyAcknowledged)
	return true
}

// State returns the session's stored fingerprint, current index and
// acknowledged flag
func (t *Tracker) State(sessionID string) (fingerprint string, index int, acknowledged bool) {
	fingerprint, _ = t.Store.Get(sessionID, keyFingerprint)
	if raw, ok := t.Store.Get(sessionID, keyIndex); ok {
		index, _ = strconv.Atoi(raw)
	}
	_, acknowledged = t.Store.Get(sessionID, keyAcknowledged)
	return fingerprint, index, acknowledged
}

// Advance steps the session's queue of total records and persists the new
// position. Reaching the end marks the session acknowledged for the stored
// fingerprint.
func (t *Tracker) Advance(sessionID string, total int) models.AdvanceResponse {
	_, current, _ := t.State(sessionID)
	next, done := Advance(current, total)
	t.Store.Set(sessionID, keyIndex, strconv.Itoa(next))
	if done {
		t.Store.Set(sessionID, keyAcknowledged, "true")
	}
	return models.AdvanceResponse{Index: next, Done: done}
}

// AcknowledgeAll suppresses any further presentation for the session's
// current fingerprint, regardless of how often the same set is refetched
func (t *Tracker) AcknowledgeAll(sessionID string) {
	t.Store.Set(sessionID, keyAcknowledged, "true")
}
