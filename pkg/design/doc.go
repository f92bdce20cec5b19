// Package design provides JSON import and export for floorplan design
// documents, plus built-in technology presets.
//
// # Overview
//
// A design document bundles a module tree with the technology it is
// sized against. The format is designed for:
//
//   - Hand-authored planning inputs (a tree of modules with resource
//     counts)
//   - Integration with external tools that produce or consume designs
//   - Round-trip preservation: import, edit, export, and re-import
//     identically
//
// # JSON Format
//
// A design has an optional name, a technology reference, and a required
// module tree:
//
//	{
//	  "name": "riscv-soc",
//	  "tech": "n16",
//	  "top": {
//	    "id": "top",
//	    "name": "SoC Top",
//	    "aspectRatio": 1.3,
//	    "children": [
//	      {"id": "cpu", "name": "CPU", "registers": 42000, "logicGates": 310000},
//	      {"id": "l2", "name": "L2 Cache", "memoryBits": 4194304}
//	    ]
//	  }
//	}
//
// The technology can name a built-in preset ("tech") or spell out the
// process parameters explicitly ("techConfig"); an explicit config wins.
// Tech configs can also be loaded from standalone TOML files with
// [LoadTechTOML].
//
// # Ingest Defaults
//
// Import applies the defaulting rules once, so the in-memory tree is
// always fully specified: missing aspect ratios become 1.0, a missing
// internal ratio falls back to the container ratio, isRatioLinked
// defaults to true for leaves and false for parents, negative resource
// counts are clamped, and missing IDs are generated. Export writes every
// field explicitly, so a round-tripped design decodes to an identical
// tree.
package design
