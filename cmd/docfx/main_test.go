package main

import (
	"bytes"
	"strings"
	"testing"
)

func testDeps() (*Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps := &Dependencies{
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(string) string { return "" },
	}
	return deps, stdout, stderr
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	deps, stdout, _ := testDeps()
	if got := run([]string{"version"}, deps); got != ExitSuccess {
		t.Errorf("run(version) = %d, want %d", got, ExitSuccess)
	}
	if stdout.String() != "docfx dev\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "docfx dev\n")
	}
}

func TestRunNoArgs(t *testing.T) {
	t.Parallel()

	deps, _, stderr := testDeps()
	if got := run(nil, deps); got != ExitUsage {
		t.Errorf("run() = %d, want %d", got, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Usage") {
		t.Errorf("stderr missing usage text: %q", stderr.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	deps, _, stderr := testDeps()
	if got := run([]string{"render"}, deps); got != ExitUsage {
		t.Errorf("run(render) = %d, want %d", got, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Unknown command: render") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunHelp(t *testing.T) {
	t.Parallel()

	deps, _, _ := testDeps()
	if got := run([]string{"help"}, deps); got != ExitSuccess {
		t.Errorf("run(help) = %d, want %d", got, ExitSuccess)
	}
}

func TestRunPDFInvalidWorkers(t *testing.T) {
	t.Parallel()

	deps, _, stderr := testDeps()
	if got := run([]string{"pdf", "--workers", "-1"}, deps); got != ExitUsage {
		t.Errorf("run(pdf --workers -1) = %d, want %d", got, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "invalid worker count") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunPDFBadFlag(t *testing.T) {
	t.Parallel()

	deps, _, _ := testDeps()
	if got := run([]string{"pdf", "--bogus"}, deps); got != ExitUsage {
		t.Errorf("run(pdf --bogus) = %d, want %d", got, ExitUsage)
	}
}
