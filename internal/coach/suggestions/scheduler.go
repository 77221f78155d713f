package suggestions

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// DefaultResetSpec clears dismissed suggestions at local midnight.
const DefaultResetSpec = "0 0 * * *"

// ResetScheduler clears the dismissed set on a cron schedule.
type ResetScheduler struct {
	cron      *cron.Cron
	dismissed *Dismissed
}

func NewResetScheduler(dismissed *Dismissed, spec string, location *time.Location) (*ResetScheduler, error) {
	if spec == "" {
		spec = DefaultResetSpec
	}
	if location == nil {
		location = time.UTC
	}

	s := &ResetScheduler{
		cron:      cron.New(cron.WithLocation(location)),
		dismissed: dismissed,
	}
	if _, err := s.cron.AddFunc(spec, s.reset); err != nil {
		return nil, fmt.Errorf("add reset schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *ResetScheduler) reset() {
	log.Info("suggestions: daily reset of dismissed suggestions")
	s.dismissed.Reset()
}

func (s *ResetScheduler) Start() {
	s.cron.Start()
	log.Debugf("suggestions: reset scheduler started, next run at %s", s.Next())
}

// Stop waits for a running reset to finish.
func (s *ResetScheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Debug("suggestions: reset scheduler stopped")
}

func (s *ResetScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if entries[0].Next.IsZero() {
		return entries[0].Schedule.Next(time.Now().In(s.cron.Location()))
	}
	return entries[0].Next
}
