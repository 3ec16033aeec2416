package thumbnail

import "errors"

var ErrMalformedCritique = errors.New("critique result does not match the expected schema")

// Critique is the structured verdict returned by the generative
// critique service for one encoded image. Scores are 0-100.
type Critique struct {
	EngagementScore int      `json:"engagement_score"`
	ClarityScore    int      `json:"clarity_score"`
	ColorScore      int      `json:"color_score"`
	OverallVerdict  string   `json:"overall_verdict"`
	Suggestions     []string `json:"suggestions"`
}

// Validate enforces the service contract: every score in [0,100], a
// non-empty verdict, and 2 to 4 suggestions.
func (c *Critique) Validate() error {
	for _, score := range []int{c.EngagementScore, c.ClarityScore, c.ColorScore} {
		if score < 0 || score > 100 {
			return ErrMalformedCritique
		}
	}
	if c.OverallVerdict == "" {
		return ErrMalformedCritique
	}
	if len(c.Suggestions) < 2 || len(c.Suggestions) > 4 {
		return ErrMalformedCritique
	}
	return nil
}
