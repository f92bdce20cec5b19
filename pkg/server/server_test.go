package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/floorplan"
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

func newTestServer(t *testing.T) *Server {
	t.Helper()
	d, err := design.ReadJSON(strings.NewReader(testDesignJSON))
	if err != nil {
		t.Fatalf("read design: %v", err)
	}
	s, err := New(d)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return v
}

func TestGetDesign(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/design", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	d := decode[design.Design](t, rec)
	if d.Name != "soc" || d.Top == nil || len(d.Top.Children) != 2 {
		t.Errorf("unexpected design: %+v", d)
	}
}

func TestGetLayout(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/layout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var l struct {
		Rects  []json.RawMessage `json:"rects"`
		Width  float64           `json:"width"`
		Height float64           `json:"height"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(l.Rects) == 0 || l.Width <= 0 || l.Height <= 0 {
		t.Errorf("degenerate layout: %d rects, %gx%g", len(l.Rects), l.Width, l.Height)
	}
}

func TestGetArea(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/nodes/cpu/area", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		ID        string `json:"id"`
		Width     float64
		Height    float64
		Breakdown struct {
			TotalArea float64 `json:"totalArea"`
		} `json:"breakdown"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "cpu" || resp.Breakdown.TotalArea <= 0 {
		t.Errorf("unexpected area response: %+v", resp)
	}

	if rec := do(t, s, http.MethodGet, "/api/nodes/nope/area", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestGetOverlaps(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/nodes/top/overlaps", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// cpu and l2 both sit at the origin, so the top level must report
	// collisions.
	var resp struct {
		Overlaps []struct {
			IDs [2]string `json:"ids"`
		} `json:"overlaps"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Overlaps) == 0 {
		t.Error("coincident children reported no overlaps")
	}
}

func TestOptimizeRefusedOnOverlap(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/nodes/top/optimize", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409\nbody: %s", rec.Code, rec.Body.String())
	}
	var resp errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "OVERLAP_FOUND" || resp.Details == nil {
		t.Errorf("conflict body missing code or markers: %+v", resp)
	}
}

func TestOptimizeCleanSubtree(t *testing.T) {
	s := newTestServer(t)

	// A leaf has no children and never overlaps itself.
	rec := do(t, s, http.MethodPost, "/api/nodes/cpu/optimize", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, s, http.MethodPost, "/api/nodes/nope/optimize", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestPatchNode(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPatch, "/api/nodes/cpu", `{"name": "CPU Cluster", "registers": 50000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	cpu := floorplan.Find(s.snapshot().Top, "cpu")
	if cpu.Name != "CPU Cluster" || cpu.Registers != 50000 {
		t.Errorf("patch not applied: %+v", cpu)
	}

	if rec := do(t, s, http.MethodPatch, "/api/nodes/nope", `{"name": "x"}`); rec.Code != http.StatusNoContent {
		t.Errorf("unknown id status = %d, want 204", rec.Code)
	}

	if rec := do(t, s, http.MethodPatch, "/api/nodes/cpu", `{bad json`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
}

func TestPutNode(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/nodes/l2",
		`{"id": "ignored", "name": "L3", "memoryBits": 4194304}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	// The replacement keeps the addressed ID.
	n := floorplan.Find(s.snapshot().Top, "l2")
	if n == nil {
		t.Fatal("replaced node lost its addressed id")
	}
	if n.Name != "L3" || n.MemoryBits != 4194304 {
		t.Errorf("replacement not applied: %+v", n)
	}

	if rec := do(t, s, http.MethodPut, "/api/nodes/nope", `{"name": "x"}`); rec.Code != http.StatusNoContent {
		t.Errorf("unknown id status = %d, want 204", rec.Code)
	}
}

func TestAddChild(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/nodes/cpu/children",
		`{"name": "L1", "memoryBits": 262144}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	cpu := floorplan.Find(s.snapshot().Top, "cpu")
	if len(cpu.Children) != 1 {
		t.Fatalf("child count = %d, want 1", len(cpu.Children))
	}
	if cpu.Children[0].ID == "" {
		t.Error("child without id did not receive a generated one")
	}

	if rec := do(t, s, http.MethodPost, "/api/nodes/nope/children", `{"name": "x"}`); rec.Code != http.StatusNoContent {
		t.Errorf("unknown parent status = %d, want 204", rec.Code)
	}
}

func TestDeleteNode(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodDelete, "/api/nodes/l2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if floorplan.Find(s.snapshot().Top, "l2") != nil {
		t.Error("deleted node still present")
	}

	// Deleting the root or an unknown id is a no-op.
	if rec := do(t, s, http.MethodDelete, "/api/nodes/top", ""); rec.Code != http.StatusNoContent {
		t.Errorf("root delete status = %d, want 204", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/nodes/nope", ""); rec.Code != http.StatusNoContent {
		t.Errorf("unknown id status = %d, want 204", rec.Code)
	}
}

func TestMutationsDoNotAliasSnapshots(t *testing.T) {
	s := newTestServer(t)

	before := s.snapshot()
	do(t, s, http.MethodPatch, "/api/nodes/cpu", `{"name": "changed"}`)

	if floorplan.Find(before.Top, "cpu").Name != "CPU" {
		t.Error("mutation leaked into a previously taken snapshot")
	}
}

func TestNewRejectsBadDesign(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) succeeded")
	}
	if _, err := New(&design.Design{Name: "x"}); err == nil {
		t.Error("New with nil top succeeded")
	}
	if _, err := New(&design.Design{Name: "x", Tech: "bogus", Top: &floorplan.Node{ID: "a"}}); err == nil {
		t.Error("New with unknown tech succeeded")
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}
