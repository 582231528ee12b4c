package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/soovittt/RL-Studio-sub001/pkg/analytics"
	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Printf("    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Path != "" {
				fmt.Printf("    -> %s\n", w.Path)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printStats(s *analytics.Stats) {
	fmt.Println("Environment Statistics")
	fmt.Println("======================")
	fmt.Printf("  Agents:        %d\n", s.AgentCount)
	fmt.Printf("  Objects:       %d\n", s.ObjectCount)

	types := make([]string, 0, len(s.ObjectsByType))
	for t := range s.ObjectsByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("    %-12s %d\n", t, s.ObjectsByType[t])
	}

	fmt.Printf("  Reward rules:  %d\n", s.RewardRules)
	fmt.Printf("  Terminations:  %d\n", s.Terminations)

	if s.GridRows > 0 {
		fmt.Printf("  Grid:          %dx%d (%d cells occupied, %.0f%% full)\n",
			s.GridRows, s.GridCols, s.OccupiedCells, s.FillRatio*100)
	}
}

func printYAMLSpec(s *envspec.EnvSpec) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding spec YAML: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
