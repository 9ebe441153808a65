package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jd-enhancer/internal/kg"
	"github.com/jonathan/jd-enhancer/internal/pipeline"
	"github.com/jonathan/jd-enhancer/internal/types"
)

// EnhanceRequest is the request body for POST /enhance.
type EnhanceRequest struct {
	Text       string            `json:"text" validate:"required,min=10"`
	OrgContext *types.OrgContext `json:"org_context,omitempty"`
}

// handleEnhance runs the full enhancement pipeline for one job description.
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			s.errorResponse(w, http.StatusBadRequest,
				"invalid request: field "+verrs[0].Field()+" failed "+verrs[0].Tag()+" validation")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := s.pipeline.Enhance(r.Context(), req.Text, req.OrgContext)
	if err != nil {
		s.enhanceErrorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// enhanceErrorResponse maps a fatal pipeline error to a status code and
// includes the partial result so clients can see how far the run got.
func (s *Server) enhanceErrorResponse(w http.ResponseWriter, err error) {
	var perr *pipeline.EnhancementError
	if !errors.As(err, &perr) {
		log.Printf("Enhancement failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "enhancement failed")
		return
	}

	body := map[string]any{
		"error": string(perr.Kind),
		"stage": perr.Stage,
	}
	if perr.Partial != nil {
		body["partial"] = perr.Partial
	}
	s.jsonResponse(w, httpStatusForKind(perr.Kind), body)
}

func httpStatusForKind(kind pipeline.ErrorKind) int {
	switch kind {
	case pipeline.ErrInvalidInput:
		return http.StatusBadRequest
	case pipeline.ErrUpstreamTimeout:
		return http.StatusGatewayTimeout
	case pipeline.ErrUpstreamUnavailable, pipeline.ErrMalformedUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleSearchSkills serves skill autocomplete.
// Query parameters: q (partial query), exclude (comma-separated names,
// repeatable), limit.
func (s *Server) handleSearchSkills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	var exclude []string
	for _, raw := range r.URL.Query()["exclude"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				exclude = append(exclude, name)
			}
		}
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	candidates := s.engine.Search(r.Context(), q, exclude, limit)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"query":      q,
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// handleSkillDetail fetches one skill with its level descriptions from the
// knowledge graph.
func (s *Server) handleSkillDetail(w http.ResponseWriter, r *http.Request) {
	if s.gateway == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "knowledge graph is not configured")
		return
	}

	code := strings.TrimSpace(r.PathValue("code"))
	if code == "" {
		s.errorResponse(w, http.StatusBadRequest, "skill code is required")
		return
	}

	detail, err := s.gateway.SkillByCode(r.Context(), code)
	if err != nil {
		var gerr *kg.GatewayError
		if errors.As(err, &gerr) && gerr.Class == kg.FailureTimeout {
			s.errorResponse(w, http.StatusGatewayTimeout, "knowledge graph query timed out")
			return
		}
		log.Printf("Skill fetch failed: %v", err)
		s.errorResponse(w, http.StatusBadGateway, "knowledge graph query failed")
		return
	}
	if detail == nil {
		s.errorResponse(w, http.StatusNotFound, "skill not found: "+code)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"skill":              detail.Record,
		"level_descriptions": detail.LevelDescriptions,
	})
}

// handleGraphHealth reports knowledge graph reachability and size.
func (s *Server) handleGraphHealth(w http.ResponseWriter, r *http.Request) {
	if s.gateway == nil {
		s.jsonResponse(w, http.StatusOK, types.GraphHealth{Reachable: false})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.gateway.Health(r.Context()))
}
