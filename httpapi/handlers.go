package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/rustyeddy/propcheck/firms"
	"github.com/rustyeddy/propcheck/journal"
	"github.com/rustyeddy/propcheck/strategy"
)

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	FirmName       string           `json:"firmName"`
	AccountSize    *int             `json:"accountSize"`
	ParsedStrategy *strategy.Parsed `json:"parsedStrategy"`
	Instrument     string           `json:"instrument"`
}

func (req ValidateRequest) check() error {
	switch {
	case strings.TrimSpace(req.FirmName) == "":
		return errors.New("firmName is required")
	case req.AccountSize == nil:
		return errors.New("accountSize is required")
	case req.ParsedStrategy == nil:
		return errors.New("parsedStrategy is required")
	case strings.TrimSpace(req.Instrument) == "":
		return errors.New("instrument is required")
	}
	if err := req.ParsedStrategy.Validate(); err != nil {
		return fmt.Errorf("parsedStrategy: %w", err)
	}
	return nil
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// FirmSummary is the body of GET /v1/firms/{slug}.
type FirmSummary struct {
	Name             string                 `json:"firmName"`
	Slug             string                 `json:"slug"`
	Website          string                 `json:"website,omitempty"`
	Version          string                 `json:"version"`
	EffectiveDate    string                 `json:"effectiveDate"`
	AutomationPolicy firms.AutomationPolicy `json:"automationPolicy"`
	AutomationNotes  string                 `json:"automationNotes,omitempty"`
	AccountSizes     []int                  `json:"accountSizes"`
}

type TierResponse struct {
	FirmName    string     `json:"firmName"`
	Slug        string     `json:"slug"`
	AccountSize int        `json:"accountSize"`
	Tier        firms.Tier `json:"tier"`
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Slug string `json:"slug"`
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.check(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.checker.Validate(req.FirmName, *req.AccountSize, *req.ParsedStrategy, req.Instrument)
	if err != nil {
		if errors.Is(err, firms.ErrNotFound) {
			s.metrics.observeValidation("not_found")
		} else {
			s.metrics.observeValidation("error")
		}
		s.writeLookupError(w, r, err)
		return
	}
	s.metrics.observeValidation(string(report.Status))

	entry := journal.NewEntry(firms.Normalize(req.FirmName), *req.AccountSize, req.Instrument, req.ParsedStrategy.Name, report)
	if err := s.journal.Record(r.Context(), entry); err != nil {
		s.log.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("journal record failed")
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) listFirms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"firms": s.checker.Firms()})
}

func (s *Server) getFirm(w http.ResponseWriter, r *http.Request) {
	b, err := s.checker.Firm(mux.Vars(r)["slug"])
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, FirmSummary{
		Name:             b.Name,
		Slug:             b.Slug,
		Website:          b.Website,
		Version:          b.Version,
		EffectiveDate:    b.EffectiveDate,
		AutomationPolicy: b.AutomationPolicy,
		AutomationNotes:  b.AutomationNotes,
		AccountSizes:     b.AccountSizes(),
	})
}

func (s *Server) getTier(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size <= 0 {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("account size %q is not a positive integer", vars["size"]))
		return
	}
	b, tier, err := s.checker.Tier(vars["slug"], size)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, TierResponse{
		FirmName:    b.Name,
		Slug:        b.Slug,
		AccountSize: size,
		Tier:        tier,
	})
}

func (s *Server) detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, r, http.StatusBadRequest, "text is required")
		return
	}
	slug, ok := s.checker.Detect(req.Text)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "no supported firm mentioned")
		return
	}
	s.writeJSON(w, http.StatusOK, detectResponse{Slug: slug})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.writeError(w, r, http.StatusNotFound, "the requested endpoint does not exist")
}

// writeLookupError maps a firm or tier miss to 404 and anything else to 500.
func (s *Server) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, firms.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	s.log.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("request failed")
	s.writeError(w, r, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	s.writeJSON(w, status, ErrorResponse{
		Error:     message,
		RequestID: RequestID(r.Context()),
	})
}
