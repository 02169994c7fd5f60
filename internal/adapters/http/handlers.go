package httpadapter

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/rs/zerolog/log"

	"missioncontrol/internal/adapters/storage"
	"missioncontrol/internal/domain"
	"missioncontrol/internal/ports"
	"missioncontrol/internal/services/dashboard"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Backend   string `json:"backend"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Backend:   s.backend.String(),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboard.Summary(r.Context())
	if err != nil {
		writeBackendError(w, r, "Failed to fetch dashboard data", err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: summary})
}

func (s *Server) handleLatestAudit(w http.ResponseWriter, r *http.Request) {
	site, ok := siteParam(w, r, true)
	if !ok {
		return
	}
	audit, err := s.dashboard.LatestAudit(r.Context(), site)
	if err != nil {
		writeBackendError(w, r, "Failed to fetch latest audit", err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: audit})
}

func (s *Server) handleAuditHistory(w http.ResponseWriter, r *http.Request) {
	site, ok := siteParam(w, r, true)
	if !ok {
		return
	}

	var days *int
	if err := runtime.BindQueryParameter("form", true, false, "days", r.URL.Query(), &days); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidDays)
		return
	}
	n := defaultDays
	if days != nil {
		n = *days
	}

	audits, err := s.dashboard.AuditHistory(r.Context(), site, n)
	if errors.Is(err, dashboard.ErrInvalidDays) {
		writeError(w, http.StatusBadRequest, ErrInvalidDays)
		return
	}
	if err != nil {
		writeBackendError(w, r, "Failed to fetch audit history", err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: nonNil(audits)})
}

func (s *Server) handleFindings(w http.ResponseWriter, r *http.Request) {
	site, ok := siteParam(w, r, false)
	if !ok {
		return
	}

	var severity *string
	if err := runtime.BindQueryParameter("form", true, false, "severity", r.URL.Query(), &severity); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidSeverity)
		return
	}
	filter := domain.FindingFilter{Site: site, Limit: findingsLimit}
	if severity != nil && *severity != "" {
		filter.Severity = domain.Severity(*severity)
		if !filter.Severity.Valid() {
			writeError(w, http.StatusBadRequest, ErrInvalidSeverity)
			return
		}
	}

	findings, err := s.dashboard.Findings(r.Context(), filter)
	if err != nil {
		writeBackendError(w, r, "Failed to fetch findings", err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: nonNil(findings)})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	site, ok := siteParam(w, r, false)
	if !ok {
		return
	}
	recs, err := s.dashboard.Recommendations(r.Context(), site)
	if err != nil {
		writeBackendError(w, r, "Failed to fetch recommendations", err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: nonNil(recs)})
}

func (s *Server) handleUpdateRecommendation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, maxPatchBodyBytes)

	patch, err := decodePatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := s.dashboard.UpdateRecommendation(r.Context(), id, patch)
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrRecommendationNotFound)
	case errors.Is(err, dashboard.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, ErrInvalidStatus)
	case errors.Is(err, dashboard.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		writeBackendError(w, r, "Failed to update recommendation", err)
	default:
		writeJSON(w, http.StatusOK, DataResponse{Data: updated})
	}
}

// decodePatch reads {status, blocker_notes?, owner?}. A key that is present
// with null clears the field; an absent key leaves it alone.
func decodePatch(r *http.Request) (domain.RecommendationPatch, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return domain.RecommendationPatch{}, ErrInvalidRequestBody
	}

	var status string
	raw, ok := body["status"]
	if !ok || json.Unmarshal(raw, &status) != nil {
		return domain.RecommendationPatch{}, ErrInvalidStatus
	}
	st := domain.RecommendationStatus(status)
	if !st.Valid() {
		return domain.RecommendationPatch{}, ErrInvalidStatus
	}
	patch := domain.RecommendationPatch{Status: &st}

	if raw, ok := body["blocker_notes"]; ok {
		if err := json.Unmarshal(raw, &patch.BlockerNotes); err != nil {
			return domain.RecommendationPatch{}, ErrInvalidRequestBody
		}
		patch.SetBlockerNotes = true
	}
	if raw, ok := body["owner"]; ok {
		if err := json.Unmarshal(raw, &patch.Owner); err != nil {
			return domain.RecommendationPatch{}, ErrInvalidRequestBody
		}
		patch.SetOwner = true
	}
	return patch, nil
}

// CronResponse is returned by the weekly audit trigger.
type CronResponse struct {
	OK      bool                `json:"ok"`
	Results []ports.AuditResult `json:"results"`
}

type cronFailure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (s *Server) handleWeeklyAudit(w http.ResponseWriter, r *http.Request) {
	if s.cronSecret != "" && !bearerMatches(r.Header.Get("Authorization"), s.cronSecret) {
		writeError(w, http.StatusUnauthorized, ErrUnauthorized)
		return
	}
	if s.backend != storage.BackendPostgres || s.runner == nil {
		writeError(w, http.StatusInternalServerError, storage.ErrPersistentStoreRequired)
		return
	}

	results, err := s.runner.Run(r.Context())
	if err != nil {
		log.Error().Err(err).Int("completed", len(results)).Msg("weekly audit failed")
		writeJSON(w, http.StatusInternalServerError, cronFailure{OK: false, Error: err.Error()})
		return
	}

	if s.reporter != nil {
		if err := s.reporter.ReportAudits(r.Context(), results); err != nil {
			log.Warn().Err(err).Msg("audit stored but relay failed")
		}
	}
	writeJSON(w, http.StatusOK, CronResponse{OK: true, Results: nonNil(results)})
}

func bearerMatches(header, secret string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

// siteParam reads ?site=. An absent value defaults to DefaultSite when
// withDefault is set and to "" (all sites) otherwise. Unknown sites get a 400.
func siteParam(w http.ResponseWriter, r *http.Request, withDefault bool) (domain.Site, bool) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "site", r.URL.Query(), &raw); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidSite)
		return "", false
	}
	if raw == nil || *raw == "" {
		if withDefault {
			return domain.DefaultSite, true
		}
		return "", true
	}
	site, err := domain.ParseSite(*raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidSite)
		return "", false
	}
	return site, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
