package strength

import (
	"strings"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// Estimate is an advisory guessability estimate.
type Estimate struct {
	// Guessability is zxcvbn's 0-4 score.
	Guessability int     `json:"guessability"`
	Entropy      float64 `json:"entropy"`
	CrackTime    string  `json:"crackTime"`
}

// EstimateOf runs zxcvbn against password. userInputs (names, email) penalise
// passwords that reuse them. Empty passwords yield the zero Estimate.
func EstimateOf(password string, userInputs ...string) Estimate {
	if password == "" {
		return Estimate{}
	}
	inputs := make([]string, 0, len(userInputs))
	for _, in := range userInputs {
		if trimmed := strings.TrimSpace(in); trimmed != "" {
			inputs = append(inputs, trimmed)
		}
	}
	match := zxcvbn.PasswordStrength(password, inputs)
	return Estimate{
		Guessability: match.Score,
		Entropy:      match.Entropy,
		CrackTime:    match.CrackTimeDisplay,
	}
}
