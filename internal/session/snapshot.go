package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rebeatle/sistema-ventas/internal/domain"
)

// snapshot is the transient crash-recovery record: the open session plus the
// calendar date it belongs to. It is overwritten in place on every autosave
// and deleted on close or discard.
type snapshot struct {
	Date      string            `json:"date"`
	LastSaved string            `json:"last_saved_time"`
	Lines     []domain.LineItem `json:"line_items"`
}

// Autosave persists the session to the snapshot file. Failures never block a
// sale; they are swallowed and logged. An empty session removes the snapshot
// instead, so a cleared register cannot resurrect old lines.
func (s *Session) Autosave() {
	lines := s.Lines()
	if len(lines) == 0 {
		if err := s.DeleteSnapshot(); err != nil {
			s.log.WithError(err).Warn("autosave: cannot remove empty-session snapshot")
		}
		return
	}

	now := time.Now()
	snap := snapshot{
		Date:      now.Format(domain.DateLayout),
		LastSaved: now.Format(domain.TimeLayout),
		Lines:     lines,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.log.WithError(err).Warn("autosave: marshal failed")
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.snapshotPath), 0o755); err != nil {
		s.log.WithError(err).Warn("autosave: cannot create data dir")
		return
	}
	if err := os.WriteFile(s.snapshotPath, data, 0o644); err != nil {
		s.log.WithError(err).Warn("autosave: write failed")
	}
}

// Recover loads the snapshot and, when it was written today, replaces the
// session's line items with it. Stock is not re-validated against the current
// catalog; the decrements from before the crash are assumed already applied.
// A missing, stale or corrupt snapshot is "nothing to recover": the stale
// file is discarded and a nil summary returned.
func (s *Session) Recover(now time.Time) (*domain.RecoverySummary, error) {
	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot %s: %w", s.snapshotPath, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.WithError(err).Warn("recover: corrupt snapshot discarded")
		s.discardSnapshot()
		return nil, nil
	}

	today := now.Format(domain.DateLayout)
	if snap.Date != today {
		s.log.WithFields(logrus.Fields{"snapshot_date": snap.Date, "today": today}).
			Info("recover: stale snapshot from another day discarded")
		s.discardSnapshot()
		return nil, nil
	}
	if len(snap.Lines) == 0 {
		s.discardSnapshot()
		return nil, nil
	}

	s.replace(snap.Lines)
	totals := totalsOf(snap.Lines)
	s.log.WithFields(logrus.Fields{"items": len(snap.Lines), "saved_at": snap.LastSaved}).
		Warn("session recovered from snapshot; stock consistency not re-verified")

	return &domain.RecoverySummary{
		ItemCount: len(snap.Lines),
		Totals:    totals,
		SavedAt:   snap.LastSaved,
	}, nil
}

// DeleteSnapshot removes the snapshot file. A missing file is success.
func (s *Session) DeleteSnapshot() error {
	if err := os.Remove(s.snapshotPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot %s: %w", s.snapshotPath, err)
	}
	return nil
}

func (s *Session) discardSnapshot() {
	if err := s.DeleteSnapshot(); err != nil {
		s.log.WithError(err).Warn("cannot discard snapshot")
	}
}
