package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
)

type exportRequest struct {
	ProjectName string `json:"projectName"`
}

type exportResponse struct {
	Success   bool            `json:"success"`
	ProjectID string          `json:"projectId,omitempty"`
	ExportID  string          `json:"exportId,omitempty"`
	Phases    []diamond.Phase `json:"phases,omitempty"`
	Error     string          `json:"error,omitempty"`
	Code      string          `json:"code,omitempty"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req exportRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.services.Exports.Export(r.Context(), uid, chi.URLParam(r, "id"), req.ProjectName)
	s.writeExportResult(w, r, res, err)
}

func (s *Server) handleRetryExport(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.services.Exports.Retry(r.Context(), uid, chi.URLParam(r, "exportID"))
	s.writeExportResult(w, r, res, err)
}

func (s *Server) writeExportResult(w http.ResponseWriter, r *http.Request, res *export.Result, err error) {
	if err != nil {
		status, body := MapError(err)
		if status >= http.StatusInternalServerError {
			s.logger.Warn("export request failed", "path", r.URL.Path, "error", err)
		}
		writeJSON(w, status, exportResponse{
			Success:  false,
			Error:    body.Message,
			Code:     body.Code,
			ExportID: body.ExportID,
		})
		return
	}
	writeJSON(w, http.StatusOK, exportResponse{
		Success:   true,
		ProjectID: res.ProjectID,
		ExportID:  res.ExportID,
		Phases:    res.Phases,
	})
}

func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.services.Exports.List(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []export.Export{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := activity.ListActivityOptions{
		ProjectID: chi.URLParam(r, "id"),
		Phase:     q.Get("phase"),
	}
	if v := q.Get("type"); v != "" {
		typ := activity.ActivityType(v)
		opts.ActivityType = &typ
	}
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := s.services.Activity.GetRecentActivity(r.Context(), uid, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.services.Projects.List(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []project.ProjectSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	bundle, err := s.services.Projects.GetBundle(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errBadRequest, v)
	}
	return n, nil
}
