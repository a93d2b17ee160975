package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opsarc/backupd/internal/backup"
)

const (
	manualJobLabel      = "manual-backup"
	restoreJobPrefix    = "restore:"
	jobConflictMessage  = "Backup job already running: "
	internalListFailure = "failed to list backups"
)

// listBackups returns all artifacts in the backup directory, newest first.
func (s *Server) listBackups(w http.ResponseWriter, r *http.Request) {
	artifacts, err := s.archive.List()
	if err != nil {
		s.logger.Error("backup listing failed", "error", err)
		s.error(w, http.StatusInternalServerError, internalListFailure)
		return
	}
	s.json(w, http.StatusOK, map[string]interface{}{"backups": artifacts})
}

// createBackup runs a manual dump under the job guard.
func (s *Server) createBackup(w http.ResponseWriter, r *http.Request) {
	current, ok := s.guard.TryAcquire(manualJobLabel)
	if !ok {
		s.error(w, http.StatusConflict, jobConflictMessage+current)
		return
	}
	defer s.guard.Release()

	s.logger.Info("manual backup requested", "subject", identityFrom(r).Subject)

	artifact, err := s.executor.CreateBackup(r.Context(), backup.KindManual)
	if err != nil {
		s.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.json(w, http.StatusOK, map[string]interface{}{"backup": artifact})
}

// restoreBackup replays the named dump under the job guard. Invalid-name and
// not-found failures surface as 500 like any other restore failure: these are
// operator-facing administrative calls where the message is the diagnosis.
func (s *Server) restoreBackup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	current, ok := s.guard.TryAcquire(restoreJobPrefix + name)
	if !ok {
		s.error(w, http.StatusConflict, jobConflictMessage+current)
		return
	}
	defer s.guard.Release()

	s.logger.Info("restore requested", "subject", identityFrom(r).Subject, "name", name)

	if err := s.executor.RestoreBackup(r.Context(), name); err != nil {
		s.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.json(w, http.StatusOK, map[string]interface{}{"success": true})
}
