package session

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crestmont/site-api/models"
)

func TestFingerprintIsDeterministic(t *testing.T) {
	ids := []string{"12", "7", "33"}
	assert.Equal(t, Fingerprint(ids), Fingerprint(ids))
}

func TestFingerprintIsOrderSensitive(t *testing.T) {
	assert.NotEqual(t, Fingerprint([]string{"1", "2"}), Fingerprint([]string{"2", "1"}))
}

func TestFingerprintIsMembershipSensitive(t *testing.T) {
	assert.NotEqual(t, Fingerprint([]string{"1", "2"}), Fingerprint([]string{"1", "2", "3"}))
	assert.NotEqual(t, Fingerprint([]string{"1"}), Fingerprint([]string{"2"}))
}

func TestFingerprintLengthPrefixing(t *testing.T) {
	// concatenation must not be ambiguous across element boundaries
	assert.NotEqual(t, Fingerprint([]string{"ab", "c"}), Fingerprint([]string{"a", "bc"}))
	assert.NotEqual(t, Fingerprint([]string{"ab"}), Fingerprint([]string{"a", "b"}))
}

func TestFingerprintRandomPermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := make([]string, 20)
	for i := range base {
		base[i] = fmt.Sprintf("%d", i)
	}
	seen := map[string]bool{Fingerprint(base): true}
	for i := 0; i < 50; i++ {
		perm := append([]string(nil), base...)
		rng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		fp := Fingerprint(perm)
		if equalSlices(perm, base) {
			assert.True(t, seen[fp])
			continue
		}
		assert.False(t, seen[fp], "permutation %v collided", perm)
		seen[fp] = true
	}
}

func equalSlices(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestShouldPresentEmptyListNeverPresents(t *testing.T) {
	present, fp := ShouldPresent(nil, "")
	assert.False(t, present)
	assert.Empty(t, fp)
}

func TestShouldPresentMatchingFingerprint(t *testing.T) {
	ids := []string{"1", "2"}
	fp := Fingerprint(ids)
	present, newFP := ShouldPresent(ids, fp)
	assert.False(t, present)
	assert.Equal(t, fp, newFP)
}

func TestShouldPresentNewFingerprint(t *testing.T) {
	present, fp := ShouldPresent([]string{"1", "2"}, "stale")
	assert.True(t, present)
	assert.Equal(t, Fingerprint([]string{"1", "2"}), fp)
}

func TestAdvanceWalksToDone(t *testing.T) {
	next, done := Advance(0, 2)
	assert.Equal(t, 1, next)
	assert.False(t, done)

	next, done = Advance(1, 2)
	assert.Equal(t, 2, next)
	assert.True(t, done)

	// terminal: stays at total
	next, done = Advance(2, 2)
	assert.Equal(t, 2, next)
	assert.True(t, done)
}

func TestAdvanceSingleRecord(t *testing.T) {
	next, done := Advance(0, 1)
	assert.Equal(t, 1, next)
	assert.True(t, done)
}

func TestEligibleIDsFiltersInactiveAndUnidentified(t *testing.T) {
	records := []models.Announcement{
		{ID: "1", Active: true},
		{ID: "2", Active: true},
		{ID: "3", Active: false},
		{ID: "", Active: true},
	}
	eligible, ids := EligibleIDs(records)
	assert.Len(t, eligible, 2)
	assert.Equal(t, []string{"1", "2"}, ids)
}

func TestTrackerPresentationSequence(t *testing.T) {
	// fetch yields [1 active, 2 active, 3 inactive]: present 1, advance to 2,
	// one more advance reaches Done
	store := NewMemoryStore(time.Minute)
	tracker := NewTracker(store)

	records := []models.Announcement{
		{ID: "1", Active: true},
		{ID: "2", Active: true},
		{ID: "3", Active: false},
	}
	eligible, ids := EligibleIDs(records)
	assert.Equal(t, []string{"1", "2"}, ids)

	present, fp := ShouldPresent(ids, "")
	assert.True(t, present)
	assert.True(t, tracker.Begin("sess", fp))

	_, index, acked := tracker.State("sess")
	assert.Equal(t, 0, index)
	assert.False(t, acked)
	assert.Equal(t, "1", eligible[index].ID)

	resp := tracker.Advance("sess", len(eligible))
	assert.Equal(t, 1, resp.Index)
	assert.False(t, resp.Done)
	assert.Equal(t, "2", eligible[resp.Index].ID)

	resp = tracker.Advance("sess", len(eligible))
	assert.True(t, resp.Done)

	_, _, acked = tracker.State("sess")
	assert.True(t, acked)
}

func TestTrackerIdenticalFingerprintDoesNotReset(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	tracker := NewTracker(store)

	fp := Fingerprint([]string{"1", "2"})
	assert.True(t, tracker.Begin("sess", fp))
	tracker.Advance("sess", 2)

	// rapid refetch with the same fingerprint must not reset progress
	assert.False(t, tracker.Begin("sess", fp))
	_, index, _ := tracker.State("sess")
	assert.Equal(t, 1, index)
}

func TestTrackerNewFingerprintReentersFromDone(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	tracker := NewTracker(store)

	fp := Fingerprint([]string{"1"})
	tracker.Begin("sess", fp)
	tracker.Advance("sess", 1)
	_, _, acked := tracker.State("sess")
	assert.True(t, acked)

	// different fingerprint re-enters Fetched even after Done
	fp2 := Fingerprint([]string{"1", "9"})
	assert.True(t, tracker.Begin("sess", fp2))
	_, index, acked := tracker.State("sess")
	assert.Equal(t, 0, index)
	assert.False(t, acked)
}

func TestTrackerAcknowledgeAll(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	tracker := NewTracker(store)

	fp := Fingerprint([]string{"1", "2", "3"})
	tracker.Begin("sess", fp)
	tracker.AcknowledgeAll("sess")

	_, _, acked := tracker.State("sess")
	assert.True(t, acked)

	// same fingerprint stays suppressed
	assert.False(t, tracker.Begin("sess", fp))
}
