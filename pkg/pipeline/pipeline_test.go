package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/floorstack/floorstack/pkg/cache"
	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/layout"
	"github.com/floorstack/floorstack/pkg/store"
)

const testDesignJSON = `{
  "name": "soc",
  "tech": "n28",
  "top": {
    "id": "top",
    "name": "SoC Top",
    "children": [
      {"id": "cpu", "name": "CPU", "registers": 42000, "logicGates": 310000},
      {"id": "l2", "name": "L2", "memoryBits": 1048576, "isRatioLinked": false}
    ]
  }
}`

func writeTestDesign(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "soc.json")
	if err := os.WriteFile(path, []byte(testDesignJSON), 0o644); err != nil {
		t.Fatalf("write test design: %v", err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "png", "pdf", "json"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", f, err)
		}
	}
	if err := ValidateFormat("gif"); err == nil {
		t.Error("ValidateFormat(gif) succeeded, want error")
	}
}

func TestValidateVizType(t *testing.T) {
	for _, v := range []string{VizTypePlan, VizTypeTree} {
		if err := ValidateVizType(v); err != nil {
			t.Errorf("ValidateVizType(%q) = %v, want nil", v, err)
		}
	}
	if err := ValidateVizType("heatmap"); err == nil {
		t.Error("ValidateVizType(heatmap) succeeded, want error")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{
			name:    "no source",
			opts:    Options{},
			wantErr: "design_path or design_name",
		},
		{
			name:    "name without store",
			opts:    Options{DesignName: "soc"},
			wantErr: "requires a catalog store",
		},
		{
			name:    "tech conflict",
			opts:    Options{DesignPath: "x.json", Tech: "n7", TechFile: "t.toml"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "bad format",
			opts:    Options{DesignPath: "x.json", Formats: []string{"gif"}},
			wantErr: "invalid format",
		},
		{
			name:    "bad viz type",
			opts:    Options{DesignPath: "x.json", VizType: "heatmap"},
			wantErr: "invalid viz_type",
		},
		{
			name: "valid minimal",
			opts: Options{DesignPath: "x.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateAndSetDefaults() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{DesignPath: "x.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.VizType != VizTypePlan {
		t.Errorf("VizType = %q, want %q", opts.VizType, VizTypePlan)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %g, want %g", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v", err)
	}
}

func TestOptionsSerialization(t *testing.T) {
	opts := Options{DesignPath: "soc.json", Optimize: true, Formats: []string{"svg", "json"}}
	data, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("marshal options: %v", err)
	}
	if strings.Contains(string(data), "Logger") || strings.Contains(string(data), "Store") {
		t.Errorf("runtime fields leaked into JSON: %s", data)
	}

	var back Options
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal options: %v", err)
	}
	if back.DesignPath != opts.DesignPath || !back.Optimize {
		t.Errorf("round trip changed options: %+v", back)
	}
}

func TestResolveConfig(t *testing.T) {
	d := &design.Design{Name: "soc", Tech: "n28", Top: &floorplan.Node{ID: "t"}}

	cfg, err := ResolveConfig(d, Options{})
	if err != nil {
		t.Fatalf("ResolveConfig() error = %v", err)
	}
	want, _ := design.Preset("n28")
	if cfg != want {
		t.Errorf("design tech ignored: got %+v, want %+v", cfg, want)
	}

	cfg, err = ResolveConfig(d, Options{Tech: "n7"})
	if err != nil {
		t.Fatalf("ResolveConfig(tech override) error = %v", err)
	}
	want, _ = design.Preset("n7")
	if cfg != want {
		t.Errorf("tech override ignored: got %+v, want %+v", cfg, want)
	}

	if _, err := ResolveConfig(d, Options{Tech: "n3"}); err == nil {
		t.Error("unknown preset accepted")
	}
}

func TestSolveDoesNotMutateDesign(t *testing.T) {
	d, err := design.ImportJSON(writeTestDesign(t))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	before := d.Top.Clone()

	cfg, err := d.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if _, err := Solve(d, cfg, Options{Optimize: true}); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	if !reflect.DeepEqual(d.Top, before) {
		t.Error("Solve mutated the input design")
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := Options{
		DesignPath: writeTestDesign(t),
		Optimize:   true,
		Formats:    []string{FormatSVG, FormatJSON},
	}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", result.Stats.NodeCount)
	}
	if result.Breakdown.TotalArea <= 0 {
		t.Errorf("TotalArea = %g, want > 0", result.Breakdown.TotalArea)
	}
	if result.TreeHash == "" {
		t.Error("TreeHash is empty")
	}
	if len(result.Layout.Rects) == 0 {
		t.Error("layout has no rects")
	}
	for _, format := range opts.Formats {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("artifact %q is empty", format)
		}
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact does not start with <svg")
	}
}

func TestRunnerExecuteCacheHit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{
		DesignPath: writeTestDesign(t),
		Formats:    []string{FormatSVG, FormatJSON},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run reported cache hits on a cold cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run missed the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run missed the artifact cache")
	}

	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Error("refresh run reported cache hits")
	}
}

func TestRunnerExecuteFromCatalog(t *testing.T) {
	ctx := context.Background()

	d, err := design.ImportJSON(writeTestDesign(t))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	st := store.NewMemStore()
	if err := st.Put(ctx, d); err != nil {
		t.Fatalf("store put: %v", err)
	}

	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(ctx, Options{
		DesignName: "soc",
		Store:      st,
		Formats:    []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Design.Name != "soc" {
		t.Errorf("Design.Name = %q, want soc", result.Design.Name)
	}

	if _, err := runner.Execute(ctx, Options{
		DesignName: "missing",
		Store:      st,
		Formats:    []string{FormatJSON},
	}); err == nil {
		t.Error("Execute() with unknown catalog entry succeeded")
	}
}

func TestRenderFromLayoutRejectsJSONTree(t *testing.T) {
	d, err := design.ImportJSON(writeTestDesign(t))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	cfg, err := d.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	tree, err := Solve(d, cfg, Options{})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}

	_, err = RenderFromLayout(
		mustLayout(t, tree, cfg), tree, cfg,
		Options{DesignPath: "x", VizType: VizTypeTree, Formats: []string{FormatJSON}})
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Errorf("json tree render error = %v, want unsupported", err)
	}
}

func mustLayout(t *testing.T, tree *floorplan.Node, cfg floorplan.TechConfig) layout.Layout {
	t.Helper()
	l, err := layout.Flatten(tree, cfg)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	return l
}

func TestCountOverlaps(t *testing.T) {
	cfg := floorplan.TechConfig{DFFArea: 2.1, GateArea: 0.25, SRAMAreaPerBit: 0.07, Utilization: 0.65}

	// Two siblings placed at the same origin collide.
	root := &floorplan.Node{
		ID: "top",
		Children: []*floorplan.Node{
			{ID: "a", Registers: 10000},
			{ID: "b", Registers: 10000},
		},
	}
	root = floorplan.Normalize(root)

	n, err := countOverlaps(root, cfg)
	if err != nil {
		t.Fatalf("countOverlaps() error = %v", err)
	}
	if n == 0 {
		t.Error("coincident siblings reported as non-overlapping")
	}
}
