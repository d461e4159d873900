package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lattice-substrate/lang-conform/langerr"
)

const endsWith01JSON = `{
  "machine": {
    "states": ["q0", "q1", "q2"],
    "alphabet": "01",
    "transitions": {
      "q0": {"0": "q1", "1": "q0"},
      "q1": {"0": "q1", "1": "q2"},
      "q2": {"0": "q1", "1": "q0"}
    },
    "start": "q0",
    "accept": ["q2"]
  }
}`

const contains00JSON = `{
  "machine": {
    "states": ["p0", "p1", "p2"],
    "alphabet": "01",
    "transitions": {
      "p0": {"0": "p1", "1": "p0"},
      "p1": {"0": "p2", "1": "p0"},
      "p2": {"0": "p2", "1": "p2"}
    },
    "start": "p0",
    "accept": ["p2"]
  }
}`

const abGrammarJSON = `{
  "grammar": {
    "terminals": "ab",
    "nonterminals": ["S", "A", "B"],
    "productions": {"S": [["A", "B"]], "A": [["a"]], "B": [["b"]]},
    "start": "S"
  }
}`

type cliResult struct {
	exitCode int
	stdout   string
	stderr   string
}

func runCLI(t *testing.T, args []string, stdin string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{exitCode: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunNoArgs(t *testing.T) {
	res := runCLI(t, nil, "")
	if res.exitCode != exitInvalid {
		t.Fatalf("exit = %d, want %d", res.exitCode, exitInvalid)
	}
	if !strings.Contains(res.stderr, "usage:") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	res := runCLI(t, []string{"minimize"}, "")
	if res.exitCode != exitInvalid {
		t.Fatalf("exit = %d, want %d", res.exitCode, exitInvalid)
	}
	if !strings.Contains(res.stderr, "unknown command") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestCheckConsistentFromStdin(t *testing.T) {
	res := runCLI(t, []string{"check", "--pattern", ".*01", "--seed", "1", "-"}, endsWith01JSON)
	if res.exitCode != exitConsistent {
		t.Fatalf("exit = %d, stderr = %q", res.exitCode, res.stderr)
	}
	if !strings.Contains(res.stdout, "ok: consistent after 1000 trials") {
		t.Fatalf("stdout = %q", res.stdout)
	}
	if !strings.Contains(res.stdout, "seed 1") {
		t.Fatalf("stdout = %q", res.stdout)
	}
}

func TestCheckCounterexample(t *testing.T) {
	res := runCLI(t, []string{"check", "--pattern=.*00", "--seed=1", "-"}, endsWith01JSON)
	if res.exitCode != exitCounterexample {
		t.Fatalf("exit = %d, stderr = %q", res.exitCode, res.stderr)
	}
	if !strings.Contains(res.stdout, "counterexample:") {
		t.Fatalf("stdout = %q", res.stdout)
	}
}

func TestCheckGrammarDoc(t *testing.T) {
	res := runCLI(t, []string{"check", "--pattern", "ab", "--seed", "7", "-"}, abGrammarJSON)
	if res.exitCode != exitConsistent {
		t.Fatalf("exit = %d, stdout = %q, stderr = %q", res.exitCode, res.stdout, res.stderr)
	}
}

func TestCheckRequiresPattern(t *testing.T) {
	res := runCLI(t, []string{"check", "-"}, endsWith01JSON)
	if res.exitCode != exitInvalid {
		t.Fatalf("exit = %d", res.exitCode)
	}
	if !strings.Contains(res.stderr, "--pattern") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestCheckRejectsUnknownOption(t *testing.T) {
	res := runCLI(t, []string{"check", "--shrink", "-"}, endsWith01JSON)
	if res.exitCode != exitInvalid {
		t.Fatalf("exit = %d", res.exitCode)
	}
	if !strings.Contains(res.stderr, "unknown option") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestCheckClassifiedModelError(t *testing.T) {
	badStart := strings.Replace(endsWith01JSON, `"start": "q0"`, `"start": "qX"`, 1)
	res := runCLI(t, []string{"check", "--pattern", ".*01", "-"}, badStart)
	if res.exitCode != exitInvalid {
		t.Fatalf("exit = %d, stderr = %q", res.exitCode, res.stderr)
	}
	if !strings.Contains(res.stderr, string(langerr.InvalidStart)) {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestEquivSameLanguage(t *testing.T) {
	a := writeDoc(t, "a.json", endsWith01JSON)
	b := writeDoc(t, "b.json", endsWith01JSON)
	res := runCLI(t, []string{"equiv", "--seed", "4", a, b}, "")
	if res.exitCode != exitConsistent {
		t.Fatalf("exit = %d, stderr = %q", res.exitCode, res.stderr)
	}
}

func TestEquivDifferentLanguages(t *testing.T) {
	a := writeDoc(t, "a.json", endsWith01JSON)
	b := writeDoc(t, "b.json", contains00JSON)
	res := runCLI(t, []string{"equiv", "--seed", "4", a, b}, "")
	if res.exitCode != exitCounterexample {
		t.Fatalf("exit = %d, stdout = %q", res.exitCode, res.stdout)
	}
	if !strings.Contains(res.stdout, "counterexample:") {
		t.Fatalf("stdout = %q", res.stdout)
	}
}

func TestEquivAlphabetMismatch(t *testing.T) {
	a := writeDoc(t, "a.json", endsWith01JSON)
	b := writeDoc(t, "b.json", abGrammarJSON)
	res := runCLI(t, []string{"equiv", a, b}, "")
	if res.exitCode != exitInvalid {
		t.Fatalf("exit = %d", res.exitCode)
	}
	if !strings.Contains(res.stderr, string(langerr.AlphabetMismatch)) {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestEquivWantsTwoFiles(t *testing.T) {
	a := writeDoc(t, "a.json", endsWith01JSON)
	res := runCLI(t, []string{"equiv", a}, "")
	if res.exitCode != exitInvalid {
		t.Fatalf("exit = %d", res.exitCode)
	}
}

func TestShowMachine(t *testing.T) {
	res := runCLI(t, []string{"show", "-"}, endsWith01JSON)
	if res.exitCode != exitConsistent {
		t.Fatalf("exit = %d, stderr = %q", res.exitCode, res.stderr)
	}
	for _, want := range []string{"From", "Symbol", "To", "q1", "start: q0"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestShowGrammar(t *testing.T) {
	res := runCLI(t, []string{"show", "-"}, abGrammarJSON)
	if res.exitCode != exitConsistent {
		t.Fatalf("exit = %d, stderr = %q", res.exitCode, res.stderr)
	}
	for _, want := range []string{"S -> A B", "A -> a", "B -> b", "start: S"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestShowMissingFile(t *testing.T) {
	res := runCLI(t, []string{"show", filepath.Join(t.TempDir(), "absent.json")}, "")
	if res.exitCode != exitInternal {
		t.Fatalf("exit = %d, want %d", res.exitCode, exitInternal)
	}
}

func TestParseFlags(t *testing.T) {
	f, positional, err := parseFlags([]string{"--pattern", "a|b", "--seed=42", "--trials", "10", "--scale=2", "x.json"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if f.pattern != "a|b" || f.seed != 42 || f.trials != 10 || f.scale != 2 {
		t.Fatalf("flags = %+v", f)
	}
	if len(positional) != 1 || positional[0] != "x.json" {
		t.Fatalf("positional = %v", positional)
	}
}

func TestParseFlagsDoubleDash(t *testing.T) {
	_, positional, err := parseFlags([]string{"--", "--pattern"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if len(positional) != 1 || positional[0] != "--pattern" {
		t.Fatalf("positional = %v", positional)
	}
}

func TestParseFlagsMissingValue(t *testing.T) {
	if _, _, err := parseFlags([]string{"--seed"}); err == nil {
		t.Fatal("expected error for dangling --seed")
	}
	if _, _, err := parseFlags([]string{"--trials", "zero"}); err == nil {
		t.Fatal("expected error for non-numeric --trials")
	}
}

func TestWriteClassifiedErrorFallback(t *testing.T) {
	var stderr bytes.Buffer
	code := writeClassifiedError(&stderr, fmt.Errorf("unclassified failure"))
	if code != langerr.InternalError.ExitCode() {
		t.Fatalf("exit = %d, want %d", code, langerr.InternalError.ExitCode())
	}
	if !strings.Contains(stderr.String(), string(langerr.InternalError)) {
		t.Fatalf("stderr = %q", stderr.String())
	}
}
