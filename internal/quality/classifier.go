// Package quality maps a numeric similarity to a discrete review tier.
// Classification is independent of discovery: scores the finder would
// never surface still classify (they land in the poor tier).
package quality

// Tier is the discrete match-quality bucket shown to reviewers.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierPoor      Tier = "poor"
)

// Assessment is the human-readable classification of a similarity score.
type Assessment struct {
	Tier        Tier   `json:"tier"`
	Confidence  string `json:"confidence"`
	Description string `json:"description"`
}

// Classify buckets a similarity in [0, 1] by inclusive lower bounds:
// 0.8 excellent, 0.6 good, 0.4 fair, else poor. Pure and total.
func Classify(similarity float64) Assessment {
	switch {
	case similarity >= 0.8:
		return Assessment{
			Tier:        TierExcellent,
			Confidence:  "90%+",
			Description: "Very high chance this is a match. Multiple matching criteria.",
		}
	case similarity >= 0.6:
		return Assessment{
			Tier:        TierGood,
			Confidence:  "70-89%",
			Description: "Good chance this is a match. Several matching criteria.",
		}
	case similarity >= 0.4:
		return Assessment{
			Tier:        TierFair,
			Confidence:  "50-69%",
			Description: "Possible match. Some matching criteria found.",
		}
	default:
		return Assessment{
			Tier:        TierPoor,
			Confidence:  "30-49%",
			Description: "Low chance of match. Few matching criteria.",
		}
	}
}
