// Package model defines the typed page and form definitions consumed by the
// session layer and renderers. A Page groups the login and registration forms
// shown as tabs; each Field carries the validation Kind used by the core
// validator together with presentation hints (label, placeholder, icon,
// autocomplete, visibility toggle, strength meter). Definitions are plain data
// and can be loaded from YAML or JSON; DefaultPage returns the embedded set.
package model
