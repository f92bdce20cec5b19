// Package compact removes overlaps among sibling blocks without changing
// any block's shape.
//
// [Detect] reports pairwise axis-aligned collisions among a module's
// local-logic block and its direct children. [Compact] resolves them by
// translation only, using a two-pass sweep (vertical then horizontal)
// that rests each block against its supporting predecessors with a fixed
// gap, then re-derives the module's aspect ratio from the tightened
// envelope. [Tree] runs Compact post-order over a whole tree.
//
// Compaction assumes overlap-free input: callers check Detect first and
// refuse the operation when it reports markers, returning those markers
// to the user instead. This is an expected, recoverable condition during
// manual editing, not a failure.
package compact
