// Package workspace defines the module tree model consumed by every checker
// and the Provider collaborators that discover it. The tree is read-only
// input: it is discovered once per run and never mutated afterwards.
package workspace
