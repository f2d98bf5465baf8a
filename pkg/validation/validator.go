package validation

import (
	"strings"
	"time"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/goliatone/go-authform/pkg/strength"
)

// MinPasswordScore is the lowest strength score accepted for a primary
// password.
const MinPasswordScore = 3

const patternTimeout = 250 * time.Millisecond

// spaceClass lists the whitespace the browser's \s matches. regexp2's own \s
// adds U+0085 and misses U+FEFF, so the class is spelled out.
const spaceClass = `\t\n\v\f\r \u00a0\u1680\u2000-\u200a\u2028\u2029\u202f\u205f\u3000\ufeff`

// The patterns are permissive acceptance checks. \A and \z anchor the whole
// value, where $ would also accept a trailing newline.
var (
	emailPattern = mustPattern(`\A[^@`+spaceClass+`]+@[^@`+spaceClass+`]+\.[^@`+spaceClass+`]+\z`, regexp2.IgnoreCase)
	phonePattern = mustPattern(`\A\+?[1-9][0-9]{0,15}\z`, regexp2.None)
)

func mustPattern(expr string, opts regexp2.RegexOptions) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, opts)
	re.MatchTimeout = patternTimeout
	return re
}

// Validate checks field against its kind's rules, short-circuiting on the
// first failure.
func Validate(field Field, ctx Context) Result {
	trimmed := strings.TrimFunc(field.Value, IsSpace)
	if trimmed == "" {
		if field.Required {
			return invalid(CodeRequired)
		}
		// optional and blank: format checks only apply to entered values,
		// except confirmation which compares the raw value once non-empty
		if field.Kind != KindPasswordConfirm || field.Value == "" {
			return valid()
		}
	}

	switch field.Kind {
	case KindEmail:
		if !IsEmail(trimmed) {
			return invalid(CodeEmail)
		}
	case KindTel:
		if !IsPhone(trimmed) {
			return invalid(CodePhone)
		}
	case KindPassword:
		if strength.Score(field.Value).Score < MinPasswordScore {
			return invalid(CodeWeakPassword)
		}
	case KindPasswordConfirm:
		if field.Value != ctx.PrimaryPassword {
			return invalid(CodeMismatch)
		}
	}
	return valid()
}

// IsEmail reports whether the whole of value matches the email acceptance
// pattern. The value is matched as given, so surrounding whitespace fails.
func IsEmail(value string) bool {
	return matches(emailPattern, value)
}

// IsPhone strips all whitespace from value and matches the phone acceptance
// pattern.
func IsPhone(value string) bool {
	return matches(phonePattern, StripSpace(value))
}

// IsSpace reports whether r is whitespace for trimming and matching: the
// Unicode White_Space runes except U+0085, plus the U+FEFF byte order mark.
func IsSpace(r rune) bool {
	if r == '\ufeff' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// StripSpace removes every IsSpace rune from value.
func StripSpace(value string) string {
	return strings.Map(func(r rune) rune {
		if IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

func matches(re *regexp2.Regexp, value string) bool {
	ok, err := re.MatchString(value)
	if err != nil {
		// match timeout
		return false
	}
	return ok
}
