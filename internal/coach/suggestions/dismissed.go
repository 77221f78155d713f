package suggestions

import (
	"github.com/2beens/fitcoach/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultDismissedCacheSize is in bytes; freecache needs at least 512 KB.
	DefaultDismissedCacheSize = 8 * 1024 * 1024
	dismissedKeySeparator     = "|"
)

var dismissedMarker = []byte{1}

// Dismissed is the process-wide set of dismissed suggestions. It lives in
// memory only and is cleared on the daily reset; a restart forgets it too.
// Under memory pressure freecache may evict entries, which only means a
// dismissed suggestion comes back early.
type Dismissed struct {
	cache   *freecache.Cache
	metrics *metrics.Manager
}

func NewDismissed(sizeBytes int, metricsManager *metrics.Manager) *Dismissed {
	if sizeBytes <= 0 {
		sizeBytes = DefaultDismissedCacheSize
	}
	return &Dismissed{
		cache:   freecache.NewCache(sizeBytes),
		metrics: metricsManager,
	}
}

func dismissedKey(userID, suggestionID string) []byte {
	return []byte(userID + dismissedKeySeparator + suggestionID)
}

func (d *Dismissed) Add(userID, suggestionID string) {
	// no expiry, entries live until Reset
	if err := d.cache.Set(dismissedKey(userID, suggestionID), dismissedMarker, 0); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id":       userID,
			"suggestion_id": suggestionID,
		}).Error("suggestions: store dismissed")
		return
	}
	if d.metrics != nil {
		d.metrics.CounterDismissedSuggestions.Inc()
	}
}

func (d *Dismissed) Contains(userID, suggestionID string) bool {
	_, err := d.cache.Get(dismissedKey(userID, suggestionID))
	return err == nil
}

func (d *Dismissed) Len() int64 {
	return d.cache.EntryCount()
}

// Reset forgets every dismissal, for all users.
func (d *Dismissed) Reset() {
	cleared := d.cache.EntryCount()
	d.cache.Clear()
	if d.metrics != nil {
		d.metrics.CounterDismissedResets.Inc()
	}
	log.Debugf("suggestions: dismissed set cleared, %d entries dropped", cleared)
}
