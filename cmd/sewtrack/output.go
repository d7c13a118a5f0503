package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// printer writes backend payloads in the selected format.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatJSON, formatYAML:
		return &printer{w: w, format: format}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (json or yaml)", format)
	}
}

// Raw prints a JSON payload as received, keeping key order.
func (p *printer) Raw(raw json.RawMessage) error {
	if p.format == formatYAML {
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return fmt.Errorf("[printer Raw] %w", err)
		}
		blockStyle(&node)
		return p.yaml(&node)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("[printer Raw] %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(p.w)
	return err
}

// Value prints any Go value.
func (p *printer) Value(v any) error {
	if p.format == formatYAML {
		return p.yaml(v)
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("[printer yaml] %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles JSON input carries, so
// the document prints as ordinary block YAML.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
