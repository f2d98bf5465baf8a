package strength

import "unicode/utf8"

// Level is the coarse classification derived from a score.
type Level string

const (
	LevelWeak   Level = "weak"
	LevelMedium Level = "medium"
	LevelStrong Level = "strong"
)

// MinLength is the length (in characters) that satisfies the length criterion.
const MinLength = 8

// MaxScore is the number of criteria.
const MaxScore = 5

// Criterion names.
const (
	CriterionLength    = "length"
	CriterionLowercase = "lowercase"
	CriterionUppercase = "uppercase"
	CriterionDigit     = "digit"
	CriterionSpecial   = "special"
)

// Criterion is a single complexity check contributing one point.
type Criterion struct {
	Name string `json:"name"`
	Hint string `json:"hint"`

	check func(string) bool
}

// Satisfied reports whether password meets the criterion.
func (c Criterion) Satisfied(password string) bool {
	if c.check == nil {
		return false
	}
	return c.check(password)
}

var criteria = []Criterion{
	{Name: CriterionLength, Hint: "At least 8 characters", check: hasMinLength},
	{Name: CriterionLowercase, Hint: "Include lowercase letters", check: containsFunc(isLower)},
	{Name: CriterionUppercase, Hint: "Include uppercase letters", check: containsFunc(isUpper)},
	{Name: CriterionDigit, Hint: "Include numbers", check: containsFunc(isDigit)},
	{Name: CriterionSpecial, Hint: "Include special characters", check: containsFunc(isSpecial)},
}

// Criteria returns the ordered criteria. The slice is a copy.
func Criteria() []Criterion {
	out := make([]Criterion, len(criteria))
	copy(out, criteria)
	return out
}

// Result is the immutable outcome of scoring a password.
type Result struct {
	Score    int      `json:"score"`
	Level    Level    `json:"level"`
	Feedback []string `json:"feedback,omitempty"`
}

// Met reports whether the named criterion was satisfied, based on the
// feedback recorded in the result.
func (r Result) Met(name string) bool {
	for _, c := range criteria {
		if c.Name != name {
			continue
		}
		for _, hint := range r.Feedback {
			if hint == c.Hint {
				return false
			}
		}
		return true
	}
	return false
}

// Score counts the satisfied criteria and lists hints for the unmet ones in
// criteria order.
func Score(password string) Result {
	var (
		score    int
		feedback []string
	)
	for _, c := range criteria {
		if c.check(password) {
			score++
			continue
		}
		feedback = append(feedback, c.Hint)
	}
	return Result{
		Score:    score,
		Level:    LevelFor(score),
		Feedback: feedback,
	}
}

// LevelFor maps a score onto a Level: <=2 weak, 3 medium, >=4 strong.
func LevelFor(score int) Level {
	switch {
	case score <= 2:
		return LevelWeak
	case score == 3:
		return LevelMedium
	default:
		return LevelStrong
	}
}

func hasMinLength(password string) bool {
	return utf8.RuneCountInString(password) >= MinLength
}

func containsFunc(fn func(rune) bool) func(string) bool {
	return func(password string) bool {
		for _, r := range password {
			if fn(r) {
				return true
			}
		}
		return false
	}
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSpecial(r rune) bool {
	return !isLower(r) && !isUpper(r) && !isDigit(r)
}
