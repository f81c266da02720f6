package restserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Oktaederim/RLT-Berechnung/internal/ahu"
	"github.com/Oktaederim/RLT-Berechnung/internal/sweep"
	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/config"
)

const maxBodyBytes = 1 << 16

// Query parameters that control a request and are never form fields
const (
	paramFormat  = "format"
	paramSession = "session"
	paramPreset  = "preset"
	paramSweep   = "param"
	paramFrom    = "from"
	paramTo      = "to"
	paramSteps   = "steps"
)

var controlParams = map[string]bool{
	paramFormat:  true,
	paramSession: true,
	paramPreset:  true,
	paramSweep:   true,
	paramFrom:    true,
	paramTo:      true,
	paramSteps:   true,
}

// SessionResponse is returned when a session is created
type SessionResponse struct {
	ID string `json:"id"`
}

// HealthResponse is returned by /healthz
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// CalculationResponse wraps a result together with the inputs it was computed from
type CalculationResponse struct {
	Inputs types.Inputs  `json:"inputs"`
	Chain  string        `json:"chain"`
	Result *types.Result `json:"result"`
}

// SweepResponse is returned by the sweep endpoint
type SweepResponse struct {
	Inputs types.Inputs  `json:"inputs"`
	Series *sweep.Series `json:"series"`
}

// PresetResponse is a preset with its values resolved against the defaults
type PresetResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Values      ahu.Form `json:"values"`
}

func newCalculationResponse(in types.Inputs, r *types.Result) CalculationResponse {
	return CalculationResponse{Inputs: in, Chain: r.Chain(), Result: r}
}

func newPresetResponse(defaults ahu.Form, p config.PresetData) PresetResponse {
	return PresetResponse{
		Name:        p.Name,
		Description: p.Description,
		Values:      defaults.Merge(ahu.Form(p.Values)),
	}
}

// queryValues returns the form fields present in a query string. Control
// parameters are skipped; for repeated fields the first value wins.
func queryValues(q url.Values) map[string]string {
	values := make(map[string]string, len(q))
	for k, v := range q {
		if controlParams[k] || len(v) == 0 {
			continue
		}
		values[k] = v[0]
	}
	return values
}

// bodyValues decodes a JSON object whose members are strings, numbers,
// booleans or null. Null members are ignored. An empty body yields no values.
func bodyValues(req *http.Request) (map[string]string, error) {
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading request body: %v", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]string{}, nil
	}

	var members map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&members); err != nil {
		return nil, fmt.Errorf("request body must be a JSON object: %v", err)
	}

	values := make(map[string]string, len(members))
	for k, v := range members {
		switch t := v.(type) {
		case nil:
		case string:
			values[k] = t
		case json.Number:
			values[k] = t.String()
		case bool:
			values[k] = strconv.FormatBool(t)
		default:
			return nil, fmt.Errorf("field %q must be a string, number or boolean", k)
		}
	}
	return values, nil
}

// overlay applies request values onto base. Unlike ahu.Form.Merge an explicitly
// empty value replaces the default so that missing input is reported.
func overlay(base ahu.Form, values map[string]string) ahu.Form {
	out := make(ahu.Form, len(base)+len(values))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range values {
		out[k] = v
	}
	return out
}
