// Package architecture implements the structural and API hygiene
// detectors.
package architecture

const version = "1.0.0"
