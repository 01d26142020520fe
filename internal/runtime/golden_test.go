package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// goldenTest runs a .jot file and compares its output to a .expected file.
func goldenTest(t *testing.T, name string) {
	t.Helper()

	srcPath := filepath.Join("..", "..", "testdata", name+".jot")
	expectedPath := filepath.Join("..", "..", "testdata", name+".expected")

	source, err := os.ReadFile(srcPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", srcPath, err)
	}
	expected, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	got, err := runSource(string(source))
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}

	expectedStr := strings.TrimRight(string(expected), "\n")
	gotStr := strings.TrimRight(got, "\n")
	if gotStr == expectedStr {
		return
	}

	expectedLines := strings.Split(expectedStr, "\n")
	gotLines := strings.Split(gotStr, "\n")
	t.Errorf("output mismatch for %s", name)
	for i := 0; i < max(len(expectedLines), len(gotLines)); i++ {
		exp, g := "<missing>", "<missing>"
		if i < len(expectedLines) {
			exp = expectedLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		prefix := "  "
		if exp != g {
			prefix = "! "
		}
		t.Logf("%sline %d: expected=%q got=%q", prefix, i+1, exp, g)
	}
}

func TestGoldenBasics(t *testing.T) {
	goldenTest(t, "golden_basics")
}

func TestGoldenFunctions(t *testing.T) {
	goldenTest(t, "golden_functions")
}

func TestGoldenClasses(t *testing.T) {
	goldenTest(t, "golden_classes")
}

func TestGoldenRecovery(t *testing.T) {
	goldenTest(t, "golden_recovery")
}
