package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"

	"github.com/Oktaederim/RLT-Berechnung/internal/ahu"
	"github.com/Oktaederim/RLT-Berechnung/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlConfig, err := config.NewYAMLProvider(*yamlFile).LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nComparison Results:")
	fmt.Println("==================")
	failures := compare(os.Stdout, yamlConfig, sqliteConfig)

	fmt.Println("\nPreset Calculations:")
	fmt.Println("===================")
	failures += checkPresets(os.Stdout, sqliteConfig)

	if failures > 0 {
		fmt.Printf("\n%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed")
}

// compare prints a line per section and returns the number of mismatches
func compare(w io.Writer, a, b *config.ConfigData) int {
	failures := 0
	check := func(name string, x, y interface{}) {
		if reflect.DeepEqual(x, y) {
			fmt.Fprintf(w, "✓ %s matches\n", name)
			return
		}
		failures++
		fmt.Fprintf(w, "✗ %s differs\n  YAML:   %+v\n  SQLite: %+v\n", name, x, y)
	}

	check("Server", a.Server, b.Server)
	check("Logging", a.Logging, b.Logging)
	check("Defaults", a.Defaults, b.Defaults)

	fmt.Fprintf(w, "Presets - YAML: %d, SQLite: %d\n", len(a.Presets), len(b.Presets))
	for _, p := range a.Presets {
		q, ok := config.Preset(b.Presets, p.Name)
		if !ok {
			failures++
			fmt.Fprintf(w, "✗ Preset %s missing from SQLite\n", p.Name)
			continue
		}
		check("Preset "+p.Name, normalize(p), normalize(*q))
	}
	for _, q := range b.Presets {
		if _, ok := config.Preset(a.Presets, q.Name); !ok {
			failures++
			fmt.Fprintf(w, "✗ Preset %s only in SQLite\n", q.Name)
		}
	}
	return failures
}

// checkPresets recomputes the defaults and every preset and reports those that abort
func checkPresets(w io.Writer, cfg *config.ConfigData) int {
	defaults := ahu.Form(cfg.Defaults.Values())

	forms := map[string]ahu.Form{"(defaults)": defaults}
	for _, p := range cfg.Presets {
		forms[p.Name] = defaults.Merge(ahu.Form(p.Values))
	}

	names := make([]string, 0, len(forms))
	for name := range forms {
		names = append(names, name)
	}
	sort.Strings(names)

	failures := 0
	for _, name := range names {
		r, _, err := ahu.RecomputeForm(forms[name], nil)
		if err != nil {
			failures++
			fmt.Fprintf(w, "✗ %s: %v\n", name, err)
			continue
		}
		chain := r.Chain()
		if r.Ideal {
			chain = "no treatment"
		}
		fmt.Fprintf(w, "✓ %s: %s, %.2f per hour\n", name, chain, r.Cost.TotalCost)
	}
	return failures
}

func normalize(p config.PresetData) config.PresetData {
	if p.Values == nil {
		p.Values = map[string]string{}
	}
	return p
}
