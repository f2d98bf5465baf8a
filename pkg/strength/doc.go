// Package strength classifies passwords by counting satisfied complexity
// criteria.
//
// Score is pure and safe for concurrent use. The five criteria are evaluated
// independently; the order only affects the feedback sequence:
//
//	res := strength.Score("Abc12345!")
//	// res.Score == 5, res.Level == strength.LevelStrong, res.Feedback == nil
//
// EstimateOf adds an advisory entropy estimate (zxcvbn) that renderers may show
// alongside the score. It never changes Score or Level.
package strength
