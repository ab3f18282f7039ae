package gen_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func repoRoot(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}

	return root
}

// runGen runs the generator from the repository root with the given input
// flags, writing into outDir.
func runGen(t *testing.T, outDir string, input ...string) {
	t.Helper()

	args := append([]string{"run", "./cmd/dto-generator", "gen", "-o", outDir}, input...)

	cmd := exec.CommandContext(t.Context(), "go", args...)
	cmd.Dir = repoRoot(t)

	b, err := cmd.CombinedOutput()
	if err != nil {
		// Best-effort: if any file got written, dump it for easier debugging.
		if entries, readErr := os.ReadDir(outDir); readErr == nil {
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".go" {
					continue
				}

				p := filepath.Join(outDir, e.Name())
				if fb, rerr := os.ReadFile(p); rerr == nil {
					t.Logf("generated file %s:\n%s", p, string(fb))
				}
			}
		}

		t.Fatalf("gen failed: %v\n%s", err, string(b))
	}
}

// runExampleIntegrationTest regenerates examples/<name> from its dto.yaml,
// runs the example's tests against the result, then checks that generating
// from the annotated package itself yields the same files.
func runExampleIntegrationTest(t *testing.T, exampleName string, files ...string) {
	t.Helper()

	root := repoRoot(t)
	exampleDir := filepath.Join(root, "examples", exampleName)

	runGen(t, exampleDir, "-f", filepath.Join(exampleDir, "dto.yaml"))

	test := exec.CommandContext(t.Context(), "go", "test", "./examples/"+exampleName, "-count=1")
	test.Dir = root

	b, err := test.CombinedOutput()
	if err != nil {
		t.Fatalf("example tests failed: %v\n%s", err, string(b))
	}

	outDir := t.TempDir()
	runGen(t, outDir, "--pkg", "./examples/"+exampleName)

	for _, name := range files {
		want, err := os.ReadFile(filepath.Join(exampleDir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}

		got, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("reading generated %s: %v", name, err)
		}

		if string(got) != string(want) {
			t.Errorf("%s differs between dto.yaml and --pkg:\n--- dto.yaml\n%s\n--- --pkg\n%s", name, want, got)
		}
	}
}
