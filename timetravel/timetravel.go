// Package timetravel is a thin facade over the Rehydrator, exposing the
// handful of read operations a consumer (CLI, dashboard) needs without
// forcing every caller to know the rehydration algorithm.
package timetravel

import (
	"context"
	"errors"

	"github.com/agentrecall/temporalcore/rehydrate"
	"github.com/agentrecall/temporalcore/vfs"
)

// Service is the Time-Travel Service: it answers "what did this
// session's filesystem look like at time t" questions.
type Service struct {
	rehydrator *rehydrate.Rehydrator
}

// New returns a Service backed by r.
func New(r *rehydrate.Rehydrator) *Service {
	return &Service{rehydrator: r}
}

// GetFilesystemState returns the rehydrated VFS for sessionID as of t.
func (s *Service) GetFilesystemState(ctx context.Context, sessionID string, t int64) (*vfs.VFS, error) {
	return s.rehydrator.Rehydrate(ctx, sessionID, t)
}

// GetZippedState returns the gzipped JSON snapshot of the rehydrated
// VFS, suitable for export or for seeding a future Snapshot record.
func (s *Service) GetZippedState(ctx context.Context, sessionID string, t int64) ([]byte, error) {
	v, err := s.rehydrator.Rehydrate(ctx, sessionID, t)
	if err != nil {
		return nil, err
	}
	return v.CreateSnapshot()
}

// ListFiles returns the names of path's children as of t. A path that
// does not exist yet at t is not an error: ListFiles returns an empty
// slice, since browsing a not-yet-created directory is routine. Any
// other VFS error (e.g. path names a file, not a directory) propagates.
func (s *Service) ListFiles(ctx context.Context, sessionID string, t int64, path string) ([]string, error) {
	if path == "" {
		path = "/"
	}

	v, err := s.rehydrator.Rehydrate(ctx, sessionID, t)
	if err != nil {
		return nil, err
	}

	entries, err := v.ReadDir(path)
	if errors.Is(err, vfs.ErrNotFound) {
		return nil, nil
	}
	return entries, err
}

// ReadFile returns the content of path as of t. Unlike ListFiles, a
// missing file is a genuine error here: reading a file that never
// existed at that time is not routine browsing.
func (s *Service) ReadFile(ctx context.Context, sessionID string, t int64, path string) ([]byte, error) {
	v, err := s.rehydrator.Rehydrate(ctx, sessionID, t)
	if err != nil {
		return nil, err
	}
	return v.ReadFile(path)
}
