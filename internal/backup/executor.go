package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidName = errors.New("invalid backup name")
	ErrNotFound    = errors.New("backup not found")
)

// Executor runs pg_dump and pg_restore as subprocesses against the target
// database. One subprocess per call; the caller blocks until it exits.
type Executor struct {
	dir         string
	databaseURL string
	timeout     time.Duration
	logger      *slog.Logger

	// now is overridable so tests get deterministic names.
	now func() time.Time
}

// NewExecutor creates an Executor writing dumps to dir. A zero timeout lets
// subprocesses run to completion unbounded.
func NewExecutor(dir, databaseURL string, timeout time.Duration, logger *slog.Logger) *Executor {
	return &Executor{
		dir:         dir,
		databaseURL: databaseURL,
		timeout:     timeout,
		logger:      logger,
		now:         time.Now,
	}
}

// jobContext detaches the job from the caller's cancellation: once a dump or
// restore is spawned it runs to completion even if the client goes away. Only
// the configured timeout, when set, bounds it.
func (e *Executor) jobContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return context.WithCancel(ctx)
}

// CreateBackup dumps the target database to a freshly named file and returns
// the resulting artifact. A failed dump may leave a partial file on disk; it
// is never reported as a success.
func (e *Executor) CreateBackup(ctx context.Context, kind Kind) (*Artifact, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	name := BuildName(kind, e.now())
	path := filepath.Join(e.dir, name)
	jobID := uuid.New().String()

	e.logger.Info("starting database dump", "job_id", jobID, "name", name, "type", kind)

	jobCtx, cancel := e.jobContext(ctx)
	defer cancel()

	out, err := runCommand(jobCtx, "pg_dump",
		"--format=custom",
		"--no-owner",
		"--file", path,
		"--dbname", e.databaseURL,
	)
	if err != nil {
		e.logger.Error("database dump failed", "job_id", jobID, "name", name, "error", err, "output", string(out))
		return nil, fmt.Errorf("backup failed: %s", commandFailure(err, out))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	e.logger.Info("database dump complete", "job_id", jobID, "name", name, "size", info.Size())

	return &Artifact{
		Name:      name,
		Type:      kind,
		CreatedAt: info.ModTime(),
		Size:      info.Size(),
	}, nil
}

// RestoreBackup replays the named dump into the target database, dropping
// existing objects first. It validates the name before touching the
// filesystem or spawning anything. Restore is destructive: no safety snapshot
// is taken first.
func (e *Executor) RestoreBackup(ctx context.Context, name string) error {
	if !IsSafe(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	path := filepath.Join(e.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("stat backup file: %w", err)
	}

	jobID := uuid.New().String()
	e.logger.Info("starting database restore", "job_id", jobID, "name", name)

	jobCtx, cancel := e.jobContext(ctx)
	defer cancel()

	out, err := runCommand(jobCtx, "pg_restore",
		"--clean",
		"--if-exists",
		"--no-owner",
		"--dbname", e.databaseURL,
		path,
	)
	if err != nil {
		e.logger.Error("database restore failed", "job_id", jobID, "name", name, "error", err, "output", string(out))
		return fmt.Errorf("restore failed: %s", commandFailure(err, out))
	}

	e.logger.Info("database restore complete", "job_id", jobID, "name", name)
	return nil
}

// commandFailure folds a subprocess error and its captured output into one
// operator-facing message.
func commandFailure(err error, out []byte) string {
	msg := strings.TrimSpace(string(out))
	if msg == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s: %s", err, msg)
}
