// rlt-calc runs a single air handling unit calculation from the command line
// and prints the result as a text report or JSON.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Oktaederim/RLT-Berechnung/internal/ahu"
	"github.com/Oktaederim/RLT-Berechnung/internal/constants"
	"github.com/Oktaederim/RLT-Berechnung/internal/log"
	"github.com/Oktaederim/RLT-Berechnung/internal/report"
	"github.com/Oktaederim/RLT-Berechnung/internal/sweep"
	"github.com/Oktaederim/RLT-Berechnung/pkg/config"
)

type options struct {
	configFile string
	preset     string
	format     string
	currency   string
	debug      bool
	version    bool

	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int

	fields map[string]*string
}

func main() {
	opts := parseFlags(os.Args[1:])
	if opts.version {
		fmt.Printf("rlt-calc %s\n", constants.Version)
		os.Exit(0)
	}

	if err := log.Init(log.Options{Debug: opts.debug}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(opts, os.Stdout); err != nil {
		var ce *ahu.CalcError
		if errors.As(err, &ce) {
			log.Debugw("calculation aborted", "kind", ce.KindName(), "stage", ce.Stage, "field", ce.Field)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) *options {
	opts := &options{fields: make(map[string]*string)}

	fs := flag.NewFlagSet("rlt-calc", flag.ExitOnError)
	fs.StringVar(&opts.configFile, "config", "", "Optional YAML configuration supplying defaults and presets")
	fs.StringVar(&opts.preset, "preset", "", "Name of a preset to apply on top of the defaults")
	fs.StringVar(&opts.format, "format", "text", "Output format: 'text' or 'json'")
	fs.StringVar(&opts.currency, "currency", constants.DefaultCurrency, "Currency label for the text report")
	fs.BoolVar(&opts.debug, "debug", false, "Turn on debugging output")
	fs.BoolVar(&opts.version, "version", false, "Show version and exit")

	fs.StringVar(&opts.sweepParam, "sweep", "", "Sweep this input instead of a single calculation (e.g. flow, supply_temperature)")
	fs.Float64Var(&opts.sweepFrom, "from", 0, "Sweep start value")
	fs.Float64Var(&opts.sweepTo, "to", 0, "Sweep end value")
	fs.IntVar(&opts.sweepSteps, "steps", 10, "Number of sweep points")

	for _, field := range fieldNames() {
		opts.fields[field] = fs.String(strings.ReplaceAll(field, "_", "-"), "", "Input "+field+" (overrides defaults and preset)")
	}

	fs.Parse(args)
	return opts
}

func fieldNames() []string {
	return []string{
		ahu.FieldOutsideTemperature,
		ahu.FieldOutsideRelativeHumidity,
		ahu.FieldSupplyTemperature,
		ahu.FieldSupplyRelativeHumidity,
		ahu.FieldSupplyHumidityRatio,
		ahu.FieldVolumetricFlow,
		ahu.FieldCoolerEnabled,
		ahu.FieldPreheatSetpoint,
		ahu.FieldBarometricPressure,
		ahu.FieldHumidityMode,
		ahu.FieldHeatPrice,
		ahu.FieldElectricityPrice,
		ahu.FieldCoolingEfficiencyRatio,
	}
}

func run(opts *options, out io.Writer) error {
	form, err := buildForm(opts)
	if err != nil {
		return err
	}
	log.Debugw("input form", "form", form)

	if opts.sweepParam != "" {
		return runSweep(opts, form, out)
	}

	r, in, err := ahu.RecomputeForm(form, nil)
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "text":
		return report.Render(out, r, report.Options{Currency: opts.currency, Pressure: in.Pressure})
	}
	return fmt.Errorf("unsupported output format: %s", opts.format)
}

func runSweep(opts *options, form ahu.Form, out io.Writer) error {
	param, err := sweep.ParseParam(opts.sweepParam)
	if err != nil {
		return err
	}
	in, err := ahu.ParseInputs(form)
	if err != nil {
		return err
	}
	series, err := sweep.Run(in, param, opts.sweepFrom, opts.sweepTo, opts.sweepSteps)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(series)
	}

	fmt.Fprintf(out, "%-12s %12s %12s %12s  %s\n", param, "cost/h", "heating kW", "cooling kW", "process")
	for i, p := range series.Points {
		marker := " "
		if i == series.MinIndex {
			marker = "*"
		}
		if p.Err != "" {
			fmt.Fprintf(out, "%-12.2f %s %s\n", p.Value, marker, p.Err)
			continue
		}
		fmt.Fprintf(out, "%-12.2f %12.2f %12.2f %12.2f %s%s\n", p.Value, p.TotalCost, p.HeatingPower, p.CoolingPower, marker, p.Steps)
	}
	return nil
}

// buildForm layers flags over the preset over the defaults
func buildForm(opts *options) (ahu.Form, error) {
	defaults := config.DefaultInputs()
	var presets []config.PresetData

	if opts.configFile != "" {
		provider := config.NewYAMLProvider(opts.configFile)
		defer provider.Close()

		d, err := provider.GetDefaults()
		if err != nil {
			return nil, fmt.Errorf("error loading defaults: %w", err)
		}
		defaults = *d
		if presets, err = provider.GetPresets(); err != nil {
			return nil, fmt.Errorf("error loading presets: %w", err)
		}
	}

	form := ahu.Form(defaults.Values())
	if opts.preset != "" {
		p, ok := config.Preset(presets, opts.preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", opts.preset)
		}
		form = form.Merge(ahu.Form(p.Values))
	}

	flags := make(ahu.Form, len(opts.fields))
	for field, v := range opts.fields {
		flags[field] = *v
	}
	return form.Merge(flags), nil
}
