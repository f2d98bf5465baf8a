// Package validation checks single form field values against type-specific
// and cross-field rules.
//
// Validate is pure: it reads only its arguments, performs no I/O and keeps no
// state, so calling it again with the same inputs yields the same Result. UI
// adapters rely on that to re-validate on every keystroke once a field has
// failed.
//
// Checks short-circuit in a fixed order: required, email, tel, password
// strength, password confirmation. Each failure carries a Code and a fixed
// English message (see Message).
package validation
