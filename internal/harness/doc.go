// Package harness runs sealcheck test cases end to end.
//
// A case is a directory holding a structure file, a baseline and one
// subdirectory per module:
//
//	basic/
//	  structure.json
//	  expected.txt
//	  A/a.go
//	  B/f.go
//
// Run parses the structure file, builds the module graph into a fresh
// in-memory project, resolves the target file and reconciles the resolved
// inheritors with the baseline. Every run gets its own project database and
// run ID, so runs share nothing and RunAll may execute them concurrently.
//
// # Structure files
//
// The structure file is looked up as structure.json, structure.yaml,
// structure.yml and structure.cue, in that order, unless Options names one.
//
// # Baselines
//
// The baseline lists one qualified name per line. Order, surrounding
// whitespace and blank lines are ignored. A missing baseline reads as empty.
// With Options.Update set the resolved names are written back before
// reconciliation; in Go tests AssertBaseline does the same through goldie:
//
//	go test ./internal/harness -update
package harness
