// Package model holds the value types exchanged between the sampler, the
// layout engine and the renderer. A Snapshot is immutable once built and has
// no identity across refresh cycles.
package model
