// Package app wires the application together: logger, configuration loading,
// module registration, the trigger layer, and pipeline execution.
package app
