// Package transplant copies an actor and everything it owns from one
// package into another.
//
// # Overview
//
// An actor lives in a donor [asset.Package] as a root export plus the
// exports whose outer chain leads back to it. Every reference those exports
// hold is an index into the donor's tables, so copying them verbatim would
// leave them pointing at unrelated slots in the recipient. [Engine.Transplant]
// rewrites them:
//
//   - References between moved exports follow them to their new positions.
//   - References to donor exports outside the subtree become null.
//   - Import references are matched by content (class package, class name,
//     object name) against the recipient's import table. Matches are reused;
//     everything else is appended once, together with the import's outer
//     chain.
//   - Names are interned into the recipient's name table.
//
// The root is given a name the recipient does not already use, re-parented
// under the recipient's level export and registered in the level's
// contained and before-serialization lists.
//
// # Atomicity
//
// All of that happens on staged copies. The recipient is modified only
// after every reference has resolved, so a failed transplant leaves it
// exactly as it was:
//
//	res, err := transplant.Transplant(recipient, donor, asset.ExportRef(4))
//	if errors.Is(err, errors.ErrCodeDanglingImport) {
//	    // recipient unchanged
//	}
//
// # Concurrency
//
// Transplants into one recipient must not overlap: positions are computed
// from the table lengths at call time. Donors are only read and may be
// shared. [Engine.Batch] runs many jobs at once while keeping each
// recipient's jobs sequential.
package transplant
