package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces"
)

// workArea is a uniquely named per-request directory
type workArea struct {
	path   string
	logger interfaces.Logger
	once   sync.Once
}

// AcquireWorkArea creates <root>/<unix-millis>-<uuid>. The timestamp keeps
// areas sortable on disk; the uuid keeps concurrent requests apart.
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func AcquireWorkArea(root string, logger interfaces.Logger) (*workArea, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, errors.Wrapf(err, "failed to create work root %s", root)
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
	path := filepath.Join(root, name)
	// Mkdir, not MkdirAll: an existing directory means a collision
	if err := os.Mkdir(path, 0750); err != nil {
		return nil, errors.Wrap(err, "failed to create working area")
	}

	return &workArea{path: path, logger: interfaces.OrNoOp(logger)}, nil
}

// Path returns the area directory
func (w *workArea) Path() string {
	return w.path
}

// Release removes the area recursively. Safe to call more than once.
func (w *workArea) Release() {
	w.once.Do(func() {
		if err := os.RemoveAll(w.path); err != nil {
			w.logger.Warn("failed to remove working area",
				interfaces.F("path", w.path),
				interfaces.Err(errors.Mark(err, entities.ErrCleanup)))
			return
		}
		w.logger.Debug("working area removed", interfaces.F("path", w.path))
	})
}
