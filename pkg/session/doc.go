// Package session holds the per-client state of the login and registration
// forms and applies the interaction rules: validate on blur, revalidate on
// every keystroke after a failure, live confirm checks, the strength meter,
// password visibility, debounced draft autosave and simulated submission.
//
// A Session is safe for concurrent use. Validation and scoring delegate to
// the pure validation and strength packages.
package session
