package treeview

import (
	"strings"
	"testing"

	"github.com/floorstack/floorstack/pkg/floorplan"
)

func TestToDOT_Basic(t *testing.T) {
	root := &floorplan.Node{ID: "top", Name: "Top", Children: []*floorplan.Node{
		{ID: "cpu", Name: "CPU"},
	}}

	dot := ToDOT(root, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"top"`) {
		t.Error("ToDOT() output missing node top")
	}
	if !strings.Contains(dot, `"cpu"`) {
		t.Error("ToDOT() output missing node cpu")
	}
	if !strings.Contains(dot, `"top" -> "cpu"`) {
		t.Error("ToDOT() output missing containment edge")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	root := &floorplan.Node{
		ID: "cpu", Name: "CPU",
		Registers:   42000,
		LogicGates:  310000,
		AspectRatio: 1.3,
	}

	dot := ToDOT(root, Options{Detailed: true})

	if !strings.Contains(dot, "regs: 42000") {
		t.Error("ToDOT() detailed output missing register count")
	}
	if !strings.Contains(dot, "gates: 310000") {
		t.Error("ToDOT() detailed output missing gate count")
	}
	if !strings.Contains(dot, "ratio: 1.3") {
		t.Error("ToDOT() detailed output missing aspect ratio")
	}
}

func TestToDOT_LeafFill(t *testing.T) {
	root := &floorplan.Node{ID: "top", Children: []*floorplan.Node{{ID: "leaf"}}}

	dot := ToDOT(root, Options{})

	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, `"leaf" [`) && !strings.Contains(line, "fillcolor=\"#eff6ff\"") {
			t.Error("leaf node missing highlight fill")
		}
		if strings.Contains(line, `"top" [`) && strings.Contains(line, "fillcolor=\"#eff6ff\"") {
			t.Error("container node should keep the default fill")
		}
	}
}

func TestToDOT_FallsBackToID(t *testing.T) {
	root := &floorplan.Node{ID: "anon"}

	dot := ToDOT(root, Options{})

	if !strings.Contains(dot, `label="anon"`) {
		t.Error("unnamed node should use its ID as the label")
	}
}
