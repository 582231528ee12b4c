package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soovittt/RL-Studio-sub001/internal/server"
	"github.com/soovittt/RL-Studio-sub001/internal/session"
	"github.com/soovittt/RL-Studio-sub001/pkg/analytics"
	"github.com/soovittt/RL-Studio-sub001/pkg/convert"
	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/legacy"
	"github.com/soovittt/RL-Studio-sub001/pkg/rlconfig"
	"github.com/soovittt/RL-Studio-sub001/pkg/scenegraph"
	"github.com/soovittt/RL-Studio-sub001/pkg/store"
)

// sceneDocument is the on-disk shape of a converted scene pair.
type sceneDocument struct {
	SceneGraph *scenegraph.Graph `json:"scene_graph"`
	RLConfig   *rlconfig.Config  `json:"rl_config"`
}

// loadAndValidate loads the spec and runs schema validation.
func loadAndValidate(path string) (*envspec.EnvSpec, error) {
	s, err := envspec.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}
	if report := envspec.Validate(s); !report.Valid {
		printValidationReport(report)
		return nil, fmt.Errorf("spec has validation errors")
	}
	return s, nil
}

func runNew(name, envType, out string) error {
	switch envspec.EnvType(envType) {
	case envspec.EnvGrid, envspec.EnvContinuous2D, envspec.EnvCustom2D:
	default:
		return fmt.Errorf("unknown environment type %q", envType)
	}

	s := envspec.CreateDefault(envspec.EnvType(envType), name)
	if out == "" {
		out = name + ".yaml"
	}
	if err := envspec.Save(s, out); err != nil {
		return err
	}
	fmt.Printf("Created %s environment %q in %s\n", envType, name, out)
	return nil
}

func runValidate(path string) error {
	s, err := envspec.Load(path)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	report := envspec.Validate(s)
	if report.Valid {
		_, advisory := analytics.Resolve(s)
		report.Merge(advisory)
	}
	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runConvert(path, out string) error {
	s, err := loadAndValidate(path)
	if err != nil {
		return err
	}

	g, cfg, err := convert.ToSceneGraph(s)
	if err != nil {
		return fmt.Errorf("converting spec: %w", err)
	}
	return writeJSON(out, sceneDocument{SceneGraph: g, RLConfig: cfg})
}

func runRestore(path, out string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scene file: %w", err)
	}
	var doc sceneDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing scene file: %w", err)
	}

	s, err := convert.ToEnvSpec(doc.SceneGraph, doc.RLConfig)
	if err != nil {
		return fmt.Errorf("restoring spec: %w", err)
	}
	if out == "" {
		return printYAMLSpec(s)
	}
	if err := envspec.Save(s, out); err != nil {
		return err
	}
	fmt.Printf("Restored spec written to %s\n", out)
	return nil
}

func runMigrate(path, out string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading legacy file: %w", err)
	}

	var doc legacy.Document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err = legacy.ParseJSON(data)
	} else {
		doc, err = legacy.ParseYAML(data)
	}
	if err != nil {
		return err
	}

	s, report := legacy.Migrate(doc)
	if len(report.Warnings) > 0 {
		printValidationReport(report)
	}

	if out == "" {
		return printYAMLSpec(s)
	}
	if err := envspec.Save(s, out); err != nil {
		return err
	}
	fmt.Printf("Migrated spec written to %s\n", out)
	return nil
}

func runStats(path string) error {
	s, err := loadAndValidate(path)
	if err != nil {
		return err
	}

	stats, report := analytics.Resolve(s)
	printStats(stats)

	if len(report.Warnings) > 0 {
		fmt.Println()
		printValidationReport(report)
	}
	return nil
}

func runServe(path string, port int) error {
	cfg, err := session.LoadConfig()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Port = port
	}

	s, err := loadAndValidate(path)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := session.New(s, cfg, func(snapshot *envspec.EnvSpec) {
		if err := st.PutSpec(context.Background(), snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "auto-save failed: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	return server.New(sess, cfg.Port).Start()
}

func writeJSON(out string, v any) error {
	if out == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("Scene written to %s\n", out)
	return nil
}
