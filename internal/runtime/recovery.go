package runtime

import (
	"context"

	"github.com/openbadge-labs/sprout/pkg/domain"
)

// ForceReset clears the session's in-progress and completed flags. The
// boundary says how deep the reset reaches; confirmed addresses survive
// every boundary, so nothing already resolved is ever re-derived from
// scratch. ResetAchievement is the entry point for "create another
// achievement" after completion; it deliberately leaves the account and
// profile untouched.
func (e *Engine) ForceReset(ctx context.Context, sessionID string, boundary domain.ResetBoundary) (*domain.Session, error) {
	var out *domain.Session
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := e.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		applyReset(s, boundary)
		s.Version++
		if err := e.sessions.Store().Save(ctx, sessionID, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("session reset", "session_id", sessionID, "boundary", string(boundary))
	return out, nil
}

// repairIfStuck detects the completed+in-progress combination, which no
// normal transition sequence can produce (an interrupted or duplicated
// activation left the flag behind), and repairs the flags in place.
// Resolved resources are untouched.
func (e *Engine) repairIfStuck(s *domain.Session) {
	if !(s.Completed && s.InProgress) {
		return
	}
	e.logger.Warn("inconsistent session state detected, repairing",
		"session_id", s.ID, "completed", s.Completed, "in_progress", s.InProgress)
	e.metrics.ObserveRecovery()
	applyReset(s, domain.ResetFlagsOnly)
}

func applyReset(s *domain.Session, boundary domain.ResetBoundary) {
	s.InProgress = false
	s.Completed = false

	switch boundary {
	case domain.ResetAchievement:
		forget(s, domain.KindAchievement)
		forget(s, domain.KindCredential)
		s.Params.Achievement = nil
		s.Params.Credential = nil
	case domain.ResetCredential:
		forget(s, domain.KindCredential)
		s.Params.Credential = nil
	}
}

// forget drops a link's resolution but keeps its address: once confirmed,
// a derived address is never discarded by a reset. The link is detached so
// the next probe does not simply re-attach to the old branch; it waits for
// new parameters instead.
func forget(s *domain.Session, kind domain.Kind) {
	res := s.Resource(kind)
	res.Existence = domain.ExistenceUnknown
	res.Detached = true
}
