// Package audit keeps a best-effort append-only trail of register actions.
// Audit failures never fail the operation being audited; they are logged and
// dropped.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rebeatle/sistema-ventas/internal/xid"
)

// Entry is one audited action, stored as a JSON line.
type Entry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

// Trail appends entries to a JSONL file.
type Trail struct {
	mu   sync.Mutex
	path string
	log  *logrus.Entry
}

func New(path string, logger *logrus.Logger) *Trail {
	return &Trail{
		path: path,
		log:  logger.WithField("component", "audit"),
	}
}

// Record appends one entry. Best effort.
func (t *Trail) Record(action, entityType, entityID, detail string) {
	entry := Entry{
		ID:         xid.New("audit"),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		t.log.WithError(err).Warn("cannot marshal audit entry")
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		t.log.WithError(err).Warn("cannot create audit dir")
		return
	}
	file, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.log.WithError(err).Warn("cannot open audit trail")
		return
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		t.log.WithError(err).Warn("cannot append audit entry")
	}
}
