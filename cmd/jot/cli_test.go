package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jot-lang/internal/config"

	"gopkg.in/yaml.v3"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.jot")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestTokensJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := runTokens(&out, &errOut, discardLogger(), `var x: int = 42;`, "t.jot", true); err != nil {
		t.Fatalf("runTokens: %v", err)
	}
	var decoded struct {
		Tokens []struct {
			Kind   string `json:"kind"`
			Lexeme string `json:"lexeme"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Tokens) != 8 {
		t.Fatalf("expected 8 tokens, got %d", len(decoded.Tokens))
	}
	if decoded.Tokens[5].Lexeme != "42" {
		t.Errorf("expected literal 42, got %q", decoded.Tokens[5].Lexeme)
	}
}

func TestTokensReportsLexError(t *testing.T) {
	var out, errOut bytes.Buffer
	err := runTokens(&out, &errOut, discardLogger(), `var s: string = "open`, "t.jot", false)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	if !strings.Contains(errOut.String(), "E1001") {
		t.Errorf("expected unterminated string code, got %q", errOut.String())
	}
}

func TestParseYAML(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := runParse(&out, &errOut, discardLogger(), `print(1 + 2);`, "p.jot", "yaml"); err != nil {
		t.Fatalf("runParse: %v", err)
	}
	var decoded struct {
		AST []struct {
			Kind string `yaml:"kind"`
		} `yaml:"ast"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(decoded.AST) != 1 || decoded.AST[0].Kind != "ExpressionStmt" {
		t.Errorf("unexpected AST: %+v", decoded.AST)
	}
}

func TestParseKeepsGoodStatements(t *testing.T) {
	var out, errOut bytes.Buffer
	err := runParse(&out, &errOut, discardLogger(), "print(1);\nvar x: int = ;\nprint(2);", "p.jot", "json")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	var decoded struct {
		AST         []interface{}            `json:"ast"`
		Diagnostics []map[string]interface{} `json:"diagnostics"`
	}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.AST) != 2 || len(decoded.Diagnostics) != 1 {
		t.Errorf("expected 2 statements and 1 diagnostic, got %d and %d", len(decoded.AST), len(decoded.Diagnostics))
	}
}

func TestParseRejectsUnknownFormat(t *testing.T) {
	if err := runParse(io.Discard, io.Discard, discardLogger(), `print(1);`, "p.jot", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFile(t *testing.T) {
	path := writeSource(t, `fn sq(n: int): int { return n * n; } print(sq(9));`)
	var out, errOut bytes.Buffer
	if err := runFile(&out, &errOut, path, config.Default(), discardLogger()); err != nil {
		t.Fatalf("runFile: %v (stderr %q)", err, errOut.String())
	}
	if out.String() != "81\n" {
		t.Errorf("expected 81, got %q", out.String())
	}
}

func TestRunFileReportsRuntimeError(t *testing.T) {
	path := writeSource(t, "print(\"ok\");\nprint(missing);")
	var out, errOut bytes.Buffer
	err := runFile(&out, &errOut, path, config.Default(), discardLogger())
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	if out.String() != "ok\n" {
		t.Errorf("expected output before the error, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "E3001") || !strings.Contains(errOut.String(), ":2:") {
		t.Errorf("expected undefined-name diagnostic on line 2, got %q", errOut.String())
	}
}

func TestRunFileStrictSyntax(t *testing.T) {
	path := writeSource(t, "print(1);\nvar x: int = ;\n")
	cfg := config.Default()
	cfg.Interpreter.StrictSyntax = true
	var out, errOut bytes.Buffer
	if err := runFile(&out, &errOut, path, cfg, discardLogger()); !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("strict mode should not run anything, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "E2002") {
		t.Errorf("expected expected-expression code, got %q", errOut.String())
	}
}

func TestDiagnosticsAreLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := runParse(io.Discard, io.Discard, logger, "var x: int = ;\n", "p.jot", "json")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	if !strings.Contains(logs.String(), "code=E2002") || !strings.Contains(logs.String(), "file=p.jot") {
		t.Errorf("expected syntax diagnostic in log, got %q", logs.String())
	}

	logs.Reset()
	err = runTokens(io.Discard, io.Discard, logger, "var a = 1 & 2;", "t.jot", false)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	if !strings.Contains(logs.String(), "phase=lex") {
		t.Errorf("expected lexical diagnostic in log, got %q", logs.String())
	}
}
