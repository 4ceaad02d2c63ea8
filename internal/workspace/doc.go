// Package workspace manages the lifecycle of per-job clone directories:
// collision-free allocation, unconditional release, and a sweep for
// orphans left behind by crashed jobs.
package workspace
