package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/errors"
	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/area"
	"github.com/floorstack/floorstack/pkg/floorplan/compact"
	"github.com/floorstack/floorstack/pkg/floorplan/layout"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	d := s.snapshot()
	l, err := layout.Flatten(d.Top, s.cfg)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidConfig, err, "flatten layout"))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleGetArea(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n := floorplan.Find(s.snapshot().Top, id)
	if n == nil {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "no module with id %q", id))
		return
	}

	w2, h, bd, err := area.Compute(n, s.cfg)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidConfig, err, "compute area"))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ID        string         `json:"id"`
		Width     float64        `json:"width"`
		Height    float64        `json:"height"`
		Breakdown area.Breakdown `json:"breakdown"`
	}{id, w2, h, bd})
}

func (s *Server) handleGetOverlaps(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n := floorplan.Find(s.snapshot().Top, id)
	if n == nil {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "no module with id %q", id))
		return
	}

	overlaps, err := compact.Detect(n, s.cfg)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidConfig, err, "detect overlaps"))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ID       string            `json:"id"`
		Overlaps []compact.Overlap `json:"overlaps"`
	}{id, overlaps})
}

// handleOptimize runs the recursive compactor on one subtree. Compaction
// is refused with 409 and the markers when the addressed module already
// has overlapping stored placements; the frontend shows the collision and
// lets the user resolve it first.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	n := floorplan.Find(s.design.Top, id)
	if n == nil {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "no module with id %q", id))
		return
	}

	overlaps, err := compact.Detect(n, s.cfg)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidConfig, err, "detect overlaps"))
		return
	}
	if len(overlaps) > 0 {
		writeJSON(w, http.StatusConflict, errorBody{
			Code:    string(errors.ErrCodeOverlap),
			Message: "module has overlapping placements; resolve them before optimizing",
			Details: overlaps,
		})
		return
	}

	compacted, err := compact.Tree(n, s.cfg)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "compact subtree"))
		return
	}

	d := *s.design
	d.Top = floorplan.ReplaceNode(s.design.Top, id, compacted)
	s.design = &d

	writeJSON(w, http.StatusOK, s.design)
}

func (s *Server) handlePatchNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p floorplan.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode patch"))
		return
	}

	d, changed := s.mutate(func(top *floorplan.Node) *floorplan.Node {
		return floorplan.UpdateNode(top, id, p)
	})
	respondMutation(w, d, changed)
}

func (s *Server) handlePutNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	repl, err := decodeNode(r)
	if err != nil {
		writeError(w, err)
		return
	}

	d, changed := s.mutate(func(top *floorplan.Node) *floorplan.Node {
		return floorplan.ReplaceNode(top, id, repl)
	})
	respondMutation(w, d, changed)
}

func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	child, err := decodeNode(r)
	if err != nil {
		writeError(w, err)
		return
	}

	d, changed := s.mutate(func(top *floorplan.Node) *floorplan.Node {
		return floorplan.AddChild(top, id, child)
	})
	respondMutation(w, d, changed)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, changed := s.mutate(func(top *floorplan.Node) *floorplan.Node {
		return floorplan.RemoveNode(top, id)
	})
	respondMutation(w, d, changed)
}

// respondMutation answers a mutation: the updated design on change, 204
// on a no-op (unknown ID, or deleting the root).
func respondMutation(w http.ResponseWriter, d *design.Design, changed bool) {
	if !changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// decodeNode reads a module node from a request body. Replacement and
// child bodies must validate as standalone subtrees; the tree-level
// uniqueness check runs against the canonical tree after the rewrite.
func decodeNode(r *http.Request) (*floorplan.Node, error) {
	var n floorplan.Node
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode module")
	}
	return &n, nil
}
