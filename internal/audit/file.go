package audit

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/adhamfakhereldeen/Cyber/internal/filex"
	"github.com/adhamfakhereldeen/Cyber/internal/logging"
)

// FileRecorder writes entries as JSON lines. The file is opened in append
// mode for every entry, so external rotation is safe.
type FileRecorder struct {
	mu     sync.Mutex
	path   string
	logger logging.Logger
}

func NewFileRecorder(path string, logger logging.Logger) *FileRecorder {
	return &FileRecorder{path: path, logger: logger.With("module", "audit")}
}

// Record appends one line. A failed write is logged as a warning and
// otherwise ignored.
func (r *FileRecorder) Record(ctx context.Context, event, actor, details string) {
	line, err := json.Marshal(newEntry(event, actor, details))
	if err != nil {
		r.logger.Warn(ctx, "audit entry not encoded", "event", event, "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := filex.AppendLine(r.path, line); err != nil {
		r.logger.Warn(ctx, "audit entry dropped", "event", event, "actor", actor, "error", err)
	}
}
