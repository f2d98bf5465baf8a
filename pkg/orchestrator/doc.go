// Package orchestrator wires the page pipeline: definitions, decorators,
// localisation, theme resolution and finally the selected renderer. It gives
// HTTP and CLI callers a single entry point.
package orchestrator
