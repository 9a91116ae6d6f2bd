package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/cbroglie/mustache"
	"github.com/cbroglie/mustache/internal/outbuf"
)

var rootCmd = &cobra.Command{
	Use:   "mustache <json-file> <template-file> [<template-file>...]",
	Short: "Render Mustache templates against a JSON (or YAML) data file",
	Example: `  $ mustache data.json template.mustache
  $ mustache data.yml header.mustache body.mustache footer.mustache`,
	Args: cobra.MinimumNArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return nil
		}
		return run(args[0], args[1:])
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mustache: %s\n", err)
		os.Exit(1)
	}
}

func run(dataPath string, templatePaths []string) error {
	data, err := loadData(dataPath)
	if err != nil {
		return err
	}

	out := outbuf.New(0)
	for _, tp := range templatePaths {
		if err := renderOne(tp, data, out); err != nil {
			return err
		}
	}

	_, err = out.WriteTo(os.Stdout)
	return err
}

func renderOne(templatePath string, data gjson.Result, out *outbuf.Buffer) error {
	src, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", templatePath, err)
	}
	abs, err := filepath.Abs(templatePath)
	if err != nil {
		return fmt.Errorf("resolving template path %s: %w", templatePath, err)
	}
	return mustache.Render(string(src), data, out, filepath.Dir(abs), &mustache.FileLoader{})
}

// loadData accepts either JSON or YAML (YAML being, loosely, a superset of
// JSON) and produces a gjson.Result over its JSON-serialized form, since
// the renderer works exclusively in terms of gjson values.
func loadData(path string) (gjson.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("reading data file %s: %w", path, err)
	}

	var generic interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return gjson.Result{}, fmt.Errorf("parsing data file %s: %w", path, err)
	}

	jsonBytes, err := json.Marshal(normalizeYAML(generic))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("converting data file %s to JSON: %w", path, err)
	}
	return gjson.ParseBytes(jsonBytes), nil
}

// normalizeYAML rewrites the map[interface{}]interface{} nodes yaml.v2
// produces into map[string]interface{}, which encoding/json can marshal.
func normalizeYAML(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[fmt.Sprintf("%v", k)] = normalizeYAML(val)
		}
		return m
	case []interface{}:
		for i, e := range v {
			v[i] = normalizeYAML(e)
		}
		return v
	default:
		return v
	}
}
