package funcs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flarebyte/ngc-helper/internal/ctxlog"
)

// Record is one cached function.
type Record struct {
	Source string `json:"source"`
	// SandboxedArtifact is the policy-accepted script text, null when no
	// policy accepted the source.
	SandboxedArtifact *string `json:"sandboxedArtifact"`
	Engine            string  `json:"engine,omitempty"`
}

// Cache is the whole-document function store shared by every process on
// the host. There is no locking; the last writer wins.
type Cache struct {
	Path string
}

// Load returns every cached record. A missing or unreadable document loads
// as an empty mapping.
func (c Cache) Load(ctx context.Context) map[string]Record {
	logger := ctxlog.FromContext(ctx)
	out := map[string]Record{}
	b, err := os.ReadFile(c.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("function cache unreadable", "path", c.Path, "error", err)
		}
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil || out == nil {
		logger.Debug("function cache corrupt, starting empty", "path", c.Path, "error", err)
		return map[string]Record{}
	}
	return out
}

// Save replaces the whole document, creating parent directories. The new
// document is written next to the old one and renamed over it.
func (c Cache) Save(ctx context.Context, records map[string]Record) error {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save function cache: %w", err)
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("save function cache: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save function cache: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("save function cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save function cache: %w", err)
	}
	if err := os.Rename(tmpName, c.Path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save function cache: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("function cache saved", "path", c.Path, "records", len(records))
	return nil
}
