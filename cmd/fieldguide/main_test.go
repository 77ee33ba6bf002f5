// Package main provides tests for the fieldguide CLI.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/fieldguide/internal/cli"
	"github.com/leapstack-labs/fieldguide/internal/cli/config"
	"github.com/leapstack-labs/fieldguide/internal/testutil"
)

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(buf.String(), "fieldguide v") {
		t.Errorf("version output should contain 'fieldguide v', got: %s", buf.String())
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	expectedCommands := []string{"guide", "shell", "categories", "subissues", "actions", "checklist", "howto", "schema", "doctor"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestChecklistEndToEnd(t *testing.T) {
	path := testutil.WriteFile(t, "issues.json", testutil.SampleJSON)
	t.Chdir(t.TempDir())
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"-d", path, "-o", "markdown", "checklist", "Plumbing", "--sub-issue", "Leak", "--action", "1"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("checklist command error = %v", err)
	}
	for _, want := range []string{"S-12 — Water pooling", "- [ ] Check seal", "- [ ] Tighten bolt", "- [ ] Gasket"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("checklist output should contain %q, got: %s", want, buf.String())
		}
	}
}
