// ABOUTME: Tests for the patchwork CLI help display covering content and formatting.
// ABOUTME: Verifies the project name, version, usage patterns, and every flag appear.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintHelpContainsProjectName(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "1.2.3")
	out := buf.String()

	if !strings.Contains(out, "patchwork") {
		t.Error("expected help output to contain project name 'patchwork'")
	}
	if !strings.Contains(out, "1.2.3") {
		t.Error("expected help output to contain version '1.2.3'")
	}
}

func TestPrintHelpContainsUsagePatterns(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	if !strings.Contains(out, "Usage:") {
		t.Error("expected help output to contain Usage section")
	}
	if !strings.Contains(out, "-validate") {
		t.Error("expected help output to mention validate mode")
	}
	if !strings.Contains(out, "<inputs.json>") {
		t.Error("expected help output to show the inputs argument")
	}
}

func TestPrintHelpContainsAllFlags(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	for _, flag := range []string{"-c", "-b", "-o", "-index", "-validate", "-verbose", "-version"} {
		if !strings.Contains(out, flag) {
			t.Errorf("expected help output to document flag %q", flag)
		}
	}
}

func TestPrintHelpContainsExamples(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	if !strings.Contains(out, "Examples:") {
		t.Error("expected help output to contain Examples section")
	}
}
