package report

import "idt-crispr-bot/internal/model"

// Tier is the qualitative band of a score.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

const (
	highThreshold   = 60
	mediumThreshold = 40

	// A checked guide is recommended only when both gates pass.
	recommendOnTarget  = 60
	recommendOffTarget = 50
)

// ScoreTier bands a score; absent or non-numeric scores are low.
func ScoreTier(s model.Score) Tier {
	switch {
	case !s.Valid:
		return TierLow
	case s.Value >= highThreshold:
		return TierHigh
	case s.Value >= mediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

func (t Tier) Emoji() string {
	switch t {
	case TierHigh:
		return "🟢"
	case TierMedium:
		return "🟡"
	default:
		return "🔴"
	}
}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "low"
	}
}

// Recommended reports whether a checked guide passes both score gates.
func Recommended(onTarget, offTarget model.Score) bool {
	return onTarget.Valid && onTarget.Value >= recommendOnTarget &&
		offTarget.Valid && offTarget.Value >= recommendOffTarget
}
