package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const helloProgram = `type: Module
body:
  - type: VarDecl
    name: x
    init: {type: IntegerLiteral, value: 5}
  - type: IfExpression
    condition:
      type: Comparison
      operator: ">"
      left: {type: Identifier, name: x}
      right: {type: IntegerLiteral, value: 3}
    then:
      type: PrintStatement
      arguments:
        - {type: StringLiteral, value: big}
`

const undefinedCallProgram = `type: Module
body:
  - type: FunctionCall
    callee: foo
    arguments:
      - type: PrintStatement
        arguments: [{type: StringLiteral, value: never}]
`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestRunDirectProgram(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.yml")
	writeFile(t, path, helloProgram)

	code, stdout, stderr := captureCLI(t, []string{"run", "-print-result", path})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}
	if stdout != "bigunit\n" {
		t.Fatalf("stdout = %q, want %q", stdout, "bigunit\n")
	}
}

func TestRunShortcutAcceptsProgramFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.yml")
	writeFile(t, path, helloProgram)

	code, stdout, stderr := captureCLI(t, []string{path})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}
	if stdout != "big" {
		t.Fatalf("stdout = %q, want %q", stdout, "big")
	}
}

func TestRunReportsRuntimeErrorKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	writeFile(t, path, undefinedCallProgram)

	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout != "" {
		t.Fatalf("arguments of an undefined callee must not run, got stdout %q", stdout)
	}
	if !strings.Contains(stderr, "runtime error: UndefinedSymbol:") {
		t.Fatalf("stderr = %q, want UndefinedSymbol report", stderr)
	}
}

func TestRunUsesManifestPrograms(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mlang.yml"), `name: demo
version: 0.1.0
requires: 1.0.0
programs:
  - progs/a.yml
  - progs/b.json
interpreter:
  redeclaration: silent
`)
	writeFile(t, filepath.Join(dir, "progs", "a.yml"), helloProgram)
	writeFile(t, filepath.Join(dir, "progs", "b.json"), `{
  "type": "Module",
  "body": [
    {"type": "PrintStatement", "arguments": [
      {"type": "StringLiteral", "value": "-"},
      {"type": "ToStringExpression", "argument": {"type": "IntegerLiteral", "value": 42}}
    ]}
  ]
}`)
	child := filepath.Join(dir, "progs")
	chdir(t, child)

	code, stdout, stderr := captureCLI(t, []string{"run", "-j", "1"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}
	if stdout != "big-42" {
		t.Fatalf("stdout = %q, want outputs in manifest order", stdout)
	}
}

func TestRunWithoutManifestOrPrograms(t *testing.T) {
	chdir(t, t.TempDir())
	code, _, stderr := captureCLI(t, []string{"run"})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "mlang.yml not found") {
		t.Fatalf("stderr = %q, want missing manifest message", stderr)
	}
}

func TestRunMaxDepthFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loop.yml")
	writeFile(t, path, `type: Module
body:
  - type: FunctionDefinition
    id: f
    params: []
    body: {type: FunctionCall, callee: f}
  - {type: FunctionCall, callee: f}
`)
	code, _, stderr := captureCLI(t, []string{"run", "-max-depth", "50", path})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "runtime error: StackExhausted:") {
		t.Fatalf("stderr = %q, want StackExhausted report", stderr)
	}
}

func TestRunTimeoutCancelsInfiniteLoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spin.yml")
	writeFile(t, path, `type: Module
body:
  - type: UntilLoop
    condition: {type: IntegerLiteral, value: 0}
    body: {type: UnitLiteral}
`)
	code, _, stderr := captureCLI(t, []string{"run", "-timeout", "20ms", path})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "cancelled") {
		t.Fatalf("stderr = %q, want cancellation report", stderr)
	}
}

func TestCheckReportsDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yml")
	bad := filepath.Join(dir, "bad.yml")
	writeFile(t, good, helloProgram)
	writeFile(t, bad, `type: Module
body:
  - type: Frobnicate
`)
	code, stdout, stderr := captureCLI(t, []string{"check", good, bad})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "ok "+good) {
		t.Fatalf("stdout = %q, want ok line for %s", stdout, good)
	}
	if !strings.Contains(stderr, `body[0]: unknown node type "Frobnicate"`) {
		t.Fatalf("stderr = %q, want decode error with node path", stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"version"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, cliToolVersion) {
		t.Fatalf("stdout = %q, want %q", stdout, cliToolVersion)
	}
}

func TestNoArgumentsPrintsUsage(t *testing.T) {
	code, _, stderr := captureCLI(t, nil)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Fatalf("stderr = %q, want usage", stderr)
	}
}

func TestCheckReportsResolutionDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	writeFile(t, path, undefinedCallProgram)

	code, stdout, stderr := captureCLI(t, []string{"check", path})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout != "" {
		t.Fatalf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "FunctionCall: undefined symbol 'foo'") {
		t.Fatalf("stderr = %q, want undefined symbol diagnostic", stderr)
	}
}

func TestRunCheckFlagRefusesBrokenProgram(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	writeFile(t, path, undefinedCallProgram)

	code, _, stderr := captureCLI(t, []string{"run", "-check", path})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if strings.Contains(stderr, "runtime error") {
		t.Fatalf("program should not have been evaluated, stderr = %q", stderr)
	}
}
