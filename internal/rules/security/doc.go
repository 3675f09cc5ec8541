// Package security implements the security-oriented detectors: secrets,
// injection sinks, missing middleware and transport hardening.
package security

const version = "1.0.0"
