package builder

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"site-builder/internal/logging"
)

// SweepOrphans deletes image files that no profile record references and
// that are older than the configured age. Such files are left behind when a
// process dies between writing an image and saving the profile. It returns
// the number of files removed.
func (s *Service) SweepOrphans(ctx context.Context) (int, error) {
	users, err := s.store.ListUsers()
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.opts.OrphanMaxAge)
	removed := 0
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		n, err := s.sweepUser(userID, cutoff)
		removed += n
		if err != nil {
			lg := logging.ForUser(userID, "sweep")
			lg.Warn().Err(err).Msg("orphan sweep failed for user")
		}
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("orphan images removed")
	}
	return removed, nil
}

func (s *Service) sweepUser(userID string, cutoff time.Time) (int, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	files, err := s.store.ListImages(userID)
	if err != nil || len(files) == 0 {
		return 0, err
	}
	current, err := s.loadProfile(userID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		if current.HasImage(f.Name) || !f.ModTime.Before(cutoff) {
			continue
		}
		if err := s.store.RemoveImage(userID, f.Name); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
