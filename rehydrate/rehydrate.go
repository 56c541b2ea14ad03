// Package rehydrate implements the bitemporal state-reconstruction
// engine: given a session and a target time, it reproduces the VFS the
// agent saw at that instant by loading the latest valid snapshot and
// replaying every diff since, in strict vt_start order.
package rehydrate

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/agentrecall/temporalcore/blobstore"
	"github.com/agentrecall/temporalcore/graph"
	"github.com/agentrecall/temporalcore/internal/clock"
	"github.com/agentrecall/temporalcore/internal/logging"
	"github.com/agentrecall/temporalcore/internal/metrics"
	"github.com/agentrecall/temporalcore/patch"
	"github.com/agentrecall/temporalcore/vfs"
)

var log = logging.Module("temporalcore/rehydrate")

// Stage names carried by Error, identifying which step of §4.3 failed.
const (
	StageVFSSnapshot = "VFSSnapshot"
	StageDiffPatches = "DiffPatches"
)

// Error is a fatal rehydration failure: a corrupt snapshot, or every
// fetched diff failing to apply.
type Error struct {
	Stage     string
	SessionID string
	cause     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rehydrate: %s: session %s: %v", e.Stage, e.SessionID, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(stage, sessionID string, cause error) *Error {
	return &Error{Stage: stage, SessionID: sessionID, cause: cause}
}

// Rehydrator reconstructs VFS state from a Graph Store and Blob Store.
type Rehydrator struct {
	graphStore graph.Store
	blobStore  blobstore.Store
	metrics    *metrics.Registry
}

// New returns a Rehydrator reading from g and b.
func New(g graph.Store, b blobstore.Store) *Rehydrator {
	return &Rehydrator{graphStore: g, blobStore: b}
}

// WithMetrics attaches a metrics.Registry that Rehydrate will report
// duration and diff-apply-failure counts to. Optional: a Rehydrator
// with no registry attached simply skips instrumentation.
func (r *Rehydrator) WithMetrics(m *metrics.Registry) *Rehydrator {
	r.metrics = m
	return r
}

// Rehydrate reconstructs the VFS for sessionID as of targetTime,
// inclusive, per §4.3 steps 1-6.
func (r *Rehydrator) Rehydrate(ctx context.Context, sessionID string, targetTime int64) (*vfs.VFS, error) {
	start := clock.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.RehydrationDuration.Observe(clock.Now().Sub(start).Seconds())
		}
	}()

	v := vfs.New()

	lastSnapshotTime, err := r.loadLatestSnapshot(ctx, v, sessionID, targetTime)
	if err != nil {
		return nil, err
	}

	diffs, err := r.fetchDiffs(ctx, sessionID, lastSnapshotTime, targetTime)
	if err != nil {
		return nil, errors.Wrap(err, "rehydrate: fetching diffs")
	}

	applied, failed := r.applyDiffs(ctx, v, diffs)

	if r.metrics != nil && failed > 0 {
		r.metrics.DiffApplyFailures.Add(float64(failed))
	}

	log(ctx).Debugw("rehydrated session",
		"sessionId", sessionID,
		"targetTime", targetTime,
		"lastSnapshotTime", lastSnapshotTime,
		"diffCount", len(diffs),
		"applied", applied,
		"failed", failed,
	)

	if len(diffs) > 0 && applied == 0 {
		return nil, newError(StageDiffPatches, sessionID, fmt.Errorf("all %d diffs failed to apply", len(diffs)))
	}

	return v, nil
}

// loadLatestSnapshot queries for the latest valid snapshot at or before
// targetTime, loads its blob into v if one exists, and returns the
// snapshot's timestamp (0 if none was found).
func (r *Rehydrator) loadLatestSnapshot(ctx context.Context, v *vfs.VFS, sessionID string, targetTime int64) (int64, error) {
	rows, err := r.graphStore.Query(ctx, graph.SnapshotLookupQuery, map[string]interface{}{
		"sessionId": sessionID,
		"t":         targetTime,
	})
	if err != nil {
		return 0, errors.Wrap(err, "rehydrate: snapshot lookup")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ref, _ := rows[0]["s.vfs_state_blob_ref"].(string)
	snapshotAt, _ := rows[0]["s.snapshot_at"].(int64)

	blob, err := r.blobStore.Load(ctx, blobstore.Ref(ref))
	if err != nil {
		// Blob I/O failures are transient collaborator errors, not data
		// errors: propagate unmodified rather than as a rehydration failure.
		return 0, err
	}

	if _, err := v.LoadSnapshot(blob); err != nil {
		return 0, newError(StageVFSSnapshot, sessionID, err)
	}

	return snapshotAt, nil
}

func (r *Rehydrator) fetchDiffs(ctx context.Context, sessionID string, lastSnapshotTime, targetTime int64) ([]graph.Row, error) {
	return r.graphStore.Query(ctx, graph.DiffFetchQuery, map[string]interface{}{
		"sessionId":        sessionID,
		"lastSnapshotTime": lastSnapshotTime,
		"targetTime":       targetTime,
	})
}

// applyDiffs applies each diff in order, tolerating individual
// failures (logged at Warn), and returns how many succeeded and failed.
func (r *Rehydrator) applyDiffs(ctx context.Context, v *vfs.VFS, diffs []graph.Row) (applied, failed int) {
	mgr := patch.NewManager(v)

	for _, row := range diffs {
		path, _ := row["d.file_path"].(string)
		content, _ := row["d.patch_content"].(string)

		if err := mgr.ApplyUnifiedDiff(path, content); err != nil {
			failed++
			log(ctx).Warnw("diff failed to apply during rehydration",
				"path", path, "diffId", row["d.id"], "err", err)
			continue
		}
		applied++
	}

	return applied, failed
}
