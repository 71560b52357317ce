// Package config defines the format-agnostic configuration model for the
// engine, along with the interfaces a concrete configuration format (HCL)
// must implement to load and decode it.
package config
