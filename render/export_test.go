package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatHuman, false},
		{"human", FormatHuman, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeJSONMissingCellIsNull(t *testing.T) {
	r := sampleResult()
	r.Table.Rows[0].Values[0] = nil

	var buf bytes.Buffer
	if err := Encode(&buf, FormatJSON, r); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), "null") {
		t.Errorf("missing cell not encoded as null: %s", buf.String())
	}

	var back map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if back["slug"] != "brand-avg-price" {
		t.Errorf("slug = %v", back["slug"])
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, FormatYAML, sampleResult()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var back struct {
		Slug  string `yaml:"slug"`
		Chart struct {
			Kind string `yaml:"kind"`
		} `yaml:"chart"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid yaml: %v", err)
	}
	if back.Slug != "brand-avg-price" || back.Chart.Kind != "bar" {
		t.Errorf("decoded = %+v", back)
	}
}

func TestEncodeHumanIsRejected(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, FormatHuman, sampleResult()); err == nil {
		t.Error("expected error")
	}
}
