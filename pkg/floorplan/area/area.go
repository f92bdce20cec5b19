package area

import (
	"math"

	"github.com/floorstack/floorstack/pkg/floorplan"
)

// Breakdown is the full area accounting for one module, recomputed from
// scratch on every call and never cached or persisted.
//
// Raw component areas (RegArea, MemArea, LogicArea) are pre-utilization;
// LocalArea is their sum divided by the tech utilization. TotalArea is
// the actual footprint (CalculatedWidth times CalculatedHeight), which
// can exceed LocalArea+ChildrenArea when the envelope forces a dimension
// beyond the target ratio.
type Breakdown struct {
	RegArea   float64 `json:"regArea"`
	MemArea   float64 `json:"memArea"`
	LogicArea float64 `json:"logicArea"`

	LocalArea           float64 `json:"localArea"`
	ChildrenArea        float64 `json:"childrenArea"`
	TotalArea           float64 `json:"totalArea"`
	UtilizationOverhead float64 `json:"utilizationOverhead"`

	// Actual footprint, honoring both the content envelope and the
	// target ratio.
	CalculatedWidth  float64 `json:"calculatedWidth"`
	CalculatedHeight float64 `json:"calculatedHeight"`

	// Footprint the target ratio alone would give, ignoring placement.
	IdealWidth  float64 `json:"idealWidth"`
	IdealHeight float64 `json:"idealHeight"`

	// Local-logic block footprint, shaped by the effective internal ratio.
	InternalWidth  float64 `json:"internalWidth"`
	InternalHeight float64 `json:"internalHeight"`

	// Ordered interval of aspect ratios for which the ideal footprint
	// already satisfies the minimum content envelope in both dimensions.
	// Ratios outside it are in a dead zone where the envelope forces a
	// shape different from the requested one.
	MinFeasibleRatio float64 `json:"minFeasibleRatio"`
	MaxFeasibleRatio float64 `json:"maxFeasibleRatio"`
}

// InDeadZone reports whether the given target ratio falls outside the
// feasible interval, i.e. the envelope would force at least one
// dimension wider than the ratio requests.
func (b Breakdown) InDeadZone(ratio float64) bool {
	return ratio < b.MinFeasibleRatio || ratio > b.MaxFeasibleRatio
}

// Compute sizes the subtree rooted at n under cfg and returns the node's
// footprint width, height, and full area breakdown.
//
// The recursion is post-order: children are sized first, then the node's
// envelope is derived from its local-logic block at (InternalX,
// InternalY) and every child at its declared position with its own
// computed size. The final footprint is the componentwise max of the
// ratio-driven ideal footprint and the minimum envelope required by the
// placed content, so content is never clipped and the target ratio is
// honored whenever content permits.
//
// Compute is pure and total for cfg.Validate() == nil, positive aspect
// ratios, and non-negative resource counts. Callers ingesting external
// data should run [floorplan.Normalize] first. An invalid config returns
// a zero result and the validation error; this is the only error path.
func Compute(n *floorplan.Node, cfg floorplan.TechConfig) (w, h float64, bd Breakdown, err error) {
	if err = cfg.Validate(); err != nil {
		return 0, 0, Breakdown{}, err
	}
	w, h, bd = compute(n, cfg)
	return w, h, bd, nil
}

// compute is the recursive worker. Config validity is established once
// at the top-level entry.
func compute(n *floorplan.Node, cfg floorplan.TechConfig) (float64, float64, Breakdown) {
	var bd Breakdown

	bd.RegArea = float64(n.Registers) * cfg.DFFArea
	bd.MemArea = float64(n.MemoryBits) * cfg.SRAMAreaPerBit
	bd.LogicArea = float64(n.LogicGates) * cfg.GateArea

	raw := bd.RegArea + bd.MemArea + bd.LogicArea
	bd.LocalArea = raw / cfg.Utilization
	bd.UtilizationOverhead = bd.LocalArea - raw

	childW := make([]float64, len(n.Children))
	childH := make([]float64, len(n.Children))
	for i, c := range n.Children {
		childW[i], childH[i], _ = compute(c, cfg)
		bd.ChildrenArea += childW[i] * childH[i]
	}

	content := bd.LocalArea + bd.ChildrenArea
	if content <= 0 {
		// All-zero resources and no children: a degenerate, ratio-
		// preserving zero rectangle rather than NaN from sqrt(0/r).
		bd.TotalArea = 0
		return 0, 0, bd
	}

	ratio := n.AspectRatio
	if ratio <= 0 {
		ratio = floorplan.DefaultAspectRatio
	}
	bd.IdealHeight = math.Sqrt(content / ratio)
	bd.IdealWidth = bd.IdealHeight * ratio

	internalRatio := n.EffectiveInternalRatio()
	if internalRatio <= 0 {
		internalRatio = floorplan.DefaultAspectRatio
	}
	bd.InternalHeight = math.Sqrt(bd.LocalArea / internalRatio)
	bd.InternalWidth = bd.InternalHeight * internalRatio

	maxX := n.InternalX + bd.InternalWidth
	maxY := n.InternalY + bd.InternalHeight
	for i, c := range n.Children {
		maxX = math.Max(maxX, c.X+childW[i])
		maxY = math.Max(maxY, c.Y+childH[i])
	}

	minW := maxX + 2*floorplan.Margin
	minH := maxY + 2*floorplan.Margin + floorplan.Header

	bd.CalculatedWidth = math.Max(bd.IdealWidth, minW)
	bd.CalculatedHeight = math.Max(bd.IdealHeight, minH)
	bd.TotalArea = bd.CalculatedWidth * bd.CalculatedHeight

	// The raw pair is not guaranteed ordered; the interval is reported
	// sorted, matching the editor's use of it as an approximate guide.
	lo := minW * minW / content
	hi := content / (minH * minH)
	bd.MinFeasibleRatio = math.Min(lo, hi)
	bd.MaxFeasibleRatio = math.Max(lo, hi)

	return bd.CalculatedWidth, bd.CalculatedHeight, bd
}

// Size returns just the footprint of the subtree rooted at n, skipping
// config validation. It is the cheap entry used by sibling packages that
// have already validated cfg at their own boundary.
func Size(n *floorplan.Node, cfg floorplan.TechConfig) (w, h float64) {
	w, h, _ = compute(n, cfg)
	return w, h
}

// InternalSize returns the footprint of the node's local-logic block
// alone, shaped by the effective internal ratio.
func InternalSize(n *floorplan.Node, cfg floorplan.TechConfig) (w, h float64) {
	_, _, bd := compute(n, cfg)
	return bd.InternalWidth, bd.InternalHeight
}
