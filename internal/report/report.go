// Package report renders a calculation result as a plain-text summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Oktaederim/RLT-Berechnung/internal/constants"
	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/psychro"
	"github.com/shopspring/decimal"
)

// IdealNotice is printed when no stage is active
const IdealNotice = "Ideal state: no air treatment required"

// Options controls rendering
type Options struct {
	Currency string
	Pressure float64
}

// Render writes a human-readable report of r to w
func Render(w io.Writer, r *types.Result, opts Options) error {
	if opts.Currency == "" {
		opts.Currency = constants.DefaultCurrency
	}
	if opts.Pressure <= 0 {
		opts.Pressure = psychro.StandardPressure
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Process: %s\n", chain(r))
	fmt.Fprintf(&b, "Mass flow: %s kg/s\n\n", fixed(r.MassFlow, 3))

	writeState(&b, "Outside air", r.Outside, opts.Pressure)
	for _, s := range r.Steps {
		line := fmt.Sprintf("%s: %s kW", s.Kind.Label(), fixed(s.Power, 2))
		if s.Kind == types.StepCoolDehumidify {
			line += fmt.Sprintf(", condensate %s kg/h", fixed(s.Condensate, 2))
		}
		b.WriteString(line + "\n")
		writeState(&b, "  after "+s.Kind.String(), s.StateAfter, opts.Pressure)
	}
	writeState(&b, "Supply air", r.Supply(), opts.Pressure)

	b.WriteString("\n")
	fmt.Fprintf(&b, "Heating: %s kW, %s %s/h\n", fixed(r.Cost.HeatingPower, 2), fixed(r.Cost.HeatingCost, 2), opts.Currency)
	fmt.Fprintf(&b, "Cooling: %s kW, %s %s/h\n", fixed(r.Cost.CoolingPower, 2), fixed(r.Cost.CoolingCost, 2), opts.Currency)
	fmt.Fprintf(&b, "Total cost: %s %s/h\n", fixed(r.Cost.TotalCost, 2), opts.Currency)

	if d := r.Reference; d != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Versus reference: %s %s/h (%s%%, %s)\n",
			signed(d.Cost, 2), opts.Currency, signed(d.CostPercent, 1), d.Trend)
		fmt.Fprintf(&b, "  supply temperature %s °C, supply RH %s %%, flow %s m³/h\n",
			signed(d.SupplyTemperature, 1), signed(d.SupplyRelativeHumidity, 1), signed(d.VolumetricFlow, 0))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func chain(r *types.Result) string {
	if r.Ideal || len(r.Steps) == 0 {
		return IdealNotice
	}
	return r.Chain()
}

func writeState(b *strings.Builder, label string, s psychro.AirState, pressure float64) {
	fmt.Fprintf(b, "%s: %s °C, %s %% RH, x %s g/kg, h %s kJ/kg, dew point %s °C\n",
		label,
		fixed(s.Temperature, 1),
		fixed(s.RelativeHumidity, 1),
		fixed(s.HumidityRatio, 2),
		fixed(s.Enthalpy, 1),
		fixed(s.DewPoint(pressure), 1),
	)
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// signed always carries an explicit sign so that changes read unambiguously
func signed(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	if d.IsPositive() {
		return "+" + d.StringFixed(places)
	}
	if d.IsZero() {
		return "±" + decimal.Zero.StringFixed(places)
	}
	return d.StringFixed(places)
}
