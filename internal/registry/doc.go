// Package registry holds the mapping between module manifests (loaded from
// HCL) and the Go handler functions that implement them. Every application
// instance owns exactly one registry.
package registry
