// Package checkers houses the pluggable analysis modules, the registry
// table that maps checker identifiers to factories, and the applicability
// rules deciding which checker runs on which module. Checker instances are
// shared across concurrent invocations and therefore stateless with respect
// to per-run data; anything per-run travels in the Context.
package checkers
