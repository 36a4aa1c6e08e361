// Package versions queries remote package sources for available dependency
// versions and selects the latest stable one. Queries run concurrently under
// a bounded pool with an individual timeout per coordinate; any single
// failure degrades to an "unknown" outcome instead of failing the batch.
package versions
