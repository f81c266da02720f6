package restserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Oktaederim/RLT-Berechnung/internal/ahu"
	"github.com/Oktaederim/RLT-Berechnung/internal/metrics"
	"github.com/Oktaederim/RLT-Berechnung/internal/session"
	"github.com/Oktaederim/RLT-Berechnung/internal/sweep"
	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/config"
	"github.com/Oktaederim/RLT-Berechnung/pkg/responseformat"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var (
	errUnknownPreset  = errors.New("unknown preset")
	errInvalidSession = errors.New("invalid session id")
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// GetHealth reports liveness and the number of open sessions
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, http.StatusOK, HealthResponse{Status: "ok", Sessions: h.controller.Sessions.Len()})
}

// GetDefaults returns the default input form
func (h *Handlers) GetDefaults(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, http.StatusOK, h.controller.Defaults)
}

// GetPresets lists every preset with its values resolved against the defaults
func (h *Handlers) GetPresets(w http.ResponseWriter, req *http.Request) {
	presets := make([]PresetResponse, 0, len(h.controller.Presets))
	for _, p := range h.controller.Presets {
		presets = append(presets, newPresetResponse(h.controller.Defaults, p))
	}
	h.respond(w, req, http.StatusOK, presets)
}

// GetPreset returns a single preset
func (h *Handlers) GetPreset(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]
	p, ok := config.Preset(h.controller.Presets, name)
	if !ok {
		h.writeError(w, req, fmt.Errorf("%w: %s", errUnknownPreset, name))
		return
	}
	h.respond(w, req, http.StatusOK, newPresetResponse(h.controller.Defaults, *p))
}

// Calculate recomputes the pipeline from the defaults, an optional preset and
// the request's fields (query string for GET, JSON body for POST). When a
// session is named its reference, if any, is compared against the result.
func (h *Handlers) Calculate(w http.ResponseWriter, req *http.Request) {
	form, err := h.requestForm(req)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	var ref *types.ReferenceSnapshot
	if raw := req.URL.Query().Get(paramSession); raw != "" {
		id, err := parseSessionID(raw)
		if err != nil {
			h.writeError(w, req, err)
			return
		}
		if ref, err = h.controller.Sessions.Reference(id); err != nil {
			h.writeError(w, req, err)
			return
		}
	}

	r, in, err := h.recompute(form, ref)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	h.controller.logger.Debugw("recomputed", "chain", r.Chain(), "total_cost", r.Cost.TotalCost, "reference", ref != nil)
	h.respond(w, req, http.StatusOK, newCalculationResponse(in, r))
}

// Sweep recomputes across a range of one input
func (h *Handlers) Sweep(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	param, err := sweep.ParseParam(q.Get(paramSweep))
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	from, err := strconv.ParseFloat(q.Get(paramFrom), 64)
	if err != nil {
		h.writeError(w, req, fmt.Errorf("invalid %q: %w", paramFrom, err))
		return
	}
	to, err := strconv.ParseFloat(q.Get(paramTo), 64)
	if err != nil {
		h.writeError(w, req, fmt.Errorf("invalid %q: %w", paramTo, err))
		return
	}
	steps := 20
	if raw := q.Get(paramSteps); raw != "" {
		if steps, err = strconv.Atoi(raw); err != nil {
			h.writeError(w, req, fmt.Errorf("invalid %q: %w", paramSteps, err))
			return
		}
	}

	form, err := h.requestForm(req)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	in, err := ahu.ParseInputs(form)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	series, err := sweep.Run(in, param, from, to, steps)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, SweepResponse{Inputs: in, Series: series})
}

// CreateSession opens a new reference session
func (h *Handlers) CreateSession(w http.ResponseWriter, req *http.Request) {
	id := h.controller.Sessions.Create()
	h.respond(w, req, http.StatusCreated, SessionResponse{ID: id.String()})
}

// DeleteSession removes a session and its reference
func (h *Handlers) DeleteSession(w http.ResponseWriter, req *http.Request) {
	id, err := parseSessionID(mux.Vars(req)["id"])
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	if err := h.controller.Sessions.Delete(id); err != nil {
		h.writeError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetReference recomputes from the request body and stores the outcome as the
// session's reference. The returned result is compared against it and
// therefore always shows no change.
func (h *Handlers) SetReference(w http.ResponseWriter, req *http.Request) {
	id, err := parseSessionID(mux.Vars(req)["id"])
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	form, err := h.requestForm(req)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	r, in, err := h.recompute(form, nil)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	snap := ahu.TakeSnapshot(r, in)
	if err := h.controller.Sessions.SetReference(id, snap); err != nil {
		h.writeError(w, req, err)
		return
	}
	delta := ahu.Compare(snap, r, in)
	r.Reference = &delta

	h.controller.logger.Debugw("reference set", "session", id, "cost", snap.Cost)
	h.respond(w, req, http.StatusOK, newCalculationResponse(in, r))
}

// ClearReference drops the session's reference
func (h *Handlers) ClearReference(w http.ResponseWriter, req *http.Request) {
	id, err := parseSessionID(mux.Vars(req)["id"])
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	if err := h.controller.Sessions.ClearReference(id); err != nil {
		h.writeError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestForm layers the request's fields over the named preset (if any) and
// the configured defaults.
func (h *Handlers) requestForm(req *http.Request) (ahu.Form, error) {
	form := h.controller.Defaults

	if name := req.URL.Query().Get(paramPreset); name != "" {
		p, ok := config.Preset(h.controller.Presets, name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errUnknownPreset, name)
		}
		form = form.Merge(ahu.Form(p.Values))
	}

	var (
		values map[string]string
		err    error
	)
	switch req.Method {
	case http.MethodPost, http.MethodPut:
		values, err = bodyValues(req)
		if err != nil {
			return nil, err
		}
	default:
		values = queryValues(req.URL.Query())
	}
	return overlay(form, values), nil
}

// recompute runs the pipeline and records its outcome
func (h *Handlers) recompute(form ahu.Form, ref *types.ReferenceSnapshot) (*types.Result, types.Inputs, error) {
	start := time.Now()
	r, in, err := ahu.RecomputeForm(form, ref)

	outcome, cost := metrics.OutcomeOK, 0.0
	if err != nil {
		outcome = "error"
		var ce *ahu.CalcError
		if errors.As(err, &ce) {
			outcome = ce.KindName()
		}
	} else {
		cost = r.Cost.TotalCost
	}
	h.controller.Metrics.ObserveCalculation(outcome, time.Since(start), cost)

	return r, in, err
}

func (h *Handlers) respond(w http.ResponseWriter, req *http.Request, status int, data interface{}) {
	if err := h.formatter.WriteResponseWithStatus(w, req, status, data, nil); err != nil {
		h.controller.logger.Errorf("error encoding response: %v", err)
	}
}

// writeError maps err to a status code and writes the error body
func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := statusFor(err)

	var kind, stage, field string
	var ce *ahu.CalcError
	if errors.As(err, &ce) {
		kind, stage, field = ce.KindName(), string(ce.Stage), ce.Field
		h.controller.logger.Warnw("computation aborted", "kind", kind, "stage", stage, "field", field, "error", err)
	}

	if werr := h.formatter.WriteError(w, req, status, err.Error(), kind, stage, field); werr != nil {
		h.controller.logger.Errorf("error encoding error response: %v", werr)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ahu.ErrMissingInput), errors.Is(err, ahu.ErrInvalidNumeric):
		return http.StatusBadRequest
	case errors.Is(err, ahu.ErrInvalidAirState), errors.Is(err, ahu.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrUnknownSession), errors.Is(err, errUnknownPreset):
		return http.StatusNotFound
	case errors.As(err, new(*ahu.CalcError)):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func parseSessionID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", errInvalidSession, raw)
	}
	return id, nil
}
