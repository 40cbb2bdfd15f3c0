// Package project is the host project model used by a sealcheck run.
//
// It records the modules of a case, the dependency edges between them and
// the source files found under each module's source root. Each run opens
// its own in-memory SQLite database, so nothing is shared between runs and
// nothing survives a run.
//
// # Tables
//
//   - modules: one row per module with its source root on disk
//   - dependencies: directed edges, ordered by insertion (seq)
//   - files: source files keyed by module and slash-separated relative path
//
// Queries that return lists always order by insertion sequence or by path
// so results are identical across runs.
package project
