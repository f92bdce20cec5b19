package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testDesignJSON = `{
  "name": "soc",
  "tech": "n28",
  "top": {
    "id": "top",
    "name": "SoC Top",
    "children": [
      {"id": "cpu", "name": "CPU", "registers": 42000, "logicGates": 310000},
      {"id": "l2", "name": "L2", "y": 5000, "memoryBits": 1048576, "isRatioLinked": false}
    ]
  }
}`

func writeTestDesign(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "soc.json")
	if err := os.WriteFile(path, []byte(testDesignJSON), 0o644); err != nil {
		t.Fatalf("write design: %v", err)
	}
	return path
}

// run executes the CLI with the given args, isolating the cache directory.
func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"stats", "check", "optimize", "render", "tui", "serve", "catalog", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_Help(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	if err := root.Execute(); err != nil {
		t.Fatalf("help error = %v", err)
	}
	if !strings.Contains(out.String(), "floorplans") {
		t.Errorf("help output missing description:\n%s", out.String())
	}
}

func TestStatsCommand(t *testing.T) {
	if err := run(t, "stats", writeTestDesign(t)); err != nil {
		t.Errorf("stats error = %v", err)
	}
}

func TestStatsCommand_MissingFile(t *testing.T) {
	if err := run(t, "stats", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("stats on missing file succeeded")
	}
}

func TestCheckCommand_CleanDesign(t *testing.T) {
	// l2 sits at y=600, far below cpu; nothing collides.
	if err := run(t, "check", writeTestDesign(t)); err != nil {
		t.Errorf("check error = %v", err)
	}
}

func TestCheckCommand_OverlapExitsNonZero(t *testing.T) {
	overlapping := `{
  "name": "bad",
  "top": {
    "id": "top",
    "children": [
      {"id": "a", "registers": 10000},
      {"id": "b", "registers": 10000}
    ]
  }
}`
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(overlapping), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run(t, "check", path); err == nil {
		t.Error("check on overlapping design succeeded, want error")
	}
}

func TestOptimizeCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	if err := run(t, "optimize", writeTestDesign(t), "-o", out); err != nil {
		t.Fatalf("optimize error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("optimized design not written: %v", err)
	}
}

func TestOptimizeCommand_RefusesOverlaps(t *testing.T) {
	overlapping := `{
  "name": "bad",
  "top": {
    "id": "top",
    "children": [
      {"id": "a", "registers": 10000},
      {"id": "b", "registers": 10000}
    ]
  }
}`
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(overlapping), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run(t, "optimize", path); err == nil {
		t.Error("optimize on overlapping design succeeded without --force")
	}
	if err := run(t, "optimize", path, "--force", "-o", filepath.Join(t.TempDir(), "out.json")); err != nil {
		t.Errorf("optimize --force error = %v", err)
	}
}

func TestRenderCommand_SVGAndJSON(t *testing.T) {
	dir := t.TempDir()
	design := writeTestDesign(t)
	out := filepath.Join(dir, "plan")

	if err := run(t, "render", design, "-f", "svg,json", "-o", out); err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, ext := range []string{"svg", "json"} {
		if _, err := os.Stat(out + "." + ext); err != nil {
			t.Errorf("missing %s artifact: %v", ext, err)
		}
	}
}

func TestRenderCommand_InvalidFormat(t *testing.T) {
	if err := run(t, "render", writeTestDesign(t), "-f", "gif"); err == nil {
		t.Error("render with invalid format succeeded")
	}
}
