package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

const maxBodyBytes = 1 << 20

type briefingRequest struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	Sector           *string   `json:"sector"`
	SuccessCase      *string   `json:"successCase"`
	CustomCase       *string   `json:"customCase"`
	CustomCaseURLs   *[]string `json:"customCaseUrls"`
	TargetAudience   *string   `json:"targetAudience"`
	ProblemStatement *string   `json:"problemStatement"`
}

func (b briefingRequest) patch() diamond.BriefingPatch {
	return diamond.BriefingPatch{
		Name:             b.Name,
		Description:      b.Description,
		Sector:           b.Sector,
		SuccessCase:      b.SuccessCase,
		CustomCase:       b.CustomCase,
		CustomCaseURLs:   b.CustomCaseURLs,
		TargetAudience:   b.TargetAudience,
		ProblemStatement: b.ProblemStatement,
	}
}

func (b briefingRequest) briefing() diamond.Briefing {
	var out diamond.Briefing
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&out.Name, b.Name)
	set(&out.Description, b.Description)
	set(&out.Sector, b.Sector)
	set(&out.SuccessCase, b.SuccessCase)
	set(&out.CustomCase, b.CustomCase)
	set(&out.TargetAudience, b.TargetAudience)
	set(&out.ProblemStatement, b.ProblemStatement)
	if b.CustomCaseURLs != nil {
		out.CustomCaseURLs = *b.CustomCaseURLs
	}
	return out
}

type generateRequest struct {
	Locale string `json:"locale"`
}

type selectionRequest struct {
	Phase string   `json:"phase"`
	POV   []string `json:"pov"`
	HMW   []string `json:"hmw"`
	Ideas []string `json:"ideas"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req briefingRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	proj, err := s.services.Diamonds.Create(r.Context(), uid, diamond.CreateRequest{Briefing: req.briefing()})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.services.Diamonds.List(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []diamond.ProjectSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	proj, err := s.services.Diamonds.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleUpdateBriefing(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req briefingRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	proj, err := s.services.Diamonds.UpdateBriefing(r.Context(), uid, chi.URLParam(r, "id"), req.patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.services.Diamonds.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	phase, err := diamond.ParsePhase(chi.URLParam(r, "phase"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req generateRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	// A dispatched generation runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	proj, err := s.services.Diamonds.Generate(ctx, uid, chi.URLParam(r, "id"), phase, req.Locale)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req selectionRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	phase, err := diamond.ParsePhase(req.Phase)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	proj, err := s.services.Diamonds.Select(r.Context(), uid, chi.URLParam(r, "id"), diamond.SelectionRequest{
		Phase: phase,
		POV:   req.POV,
		HMW:   req.HMW,
		Ideas: req.Ideas,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

// decodeBody decodes a JSON request body into v. An empty body is accepted
// only when optional is set.
func decodeBody(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if err == io.EOF && optional {
			return nil
		}
		if err == io.EOF {
			return fmt.Errorf("%w: request body required", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
