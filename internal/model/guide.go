package model

import "strconv"

// Score is an optional numeric metric from the design service. Raw keeps the
// original rendering for display when the value was present but not numeric.
type Score struct {
	Value float64
	Valid bool
	Raw   string
}

// NumericScore builds a valid score.
func NumericScore(v float64) Score {
	return Score{Value: v, Valid: true, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Display returns the value as shown to users, "—" when absent.
func (s Score) Display() string {
	if s.Raw == "" {
		return "—"
	}
	return s.Raw
}

// Guide is one normalized guide RNA record. Every field is optional.
type Guide struct {
	Sequence       string
	OnTargetScore  Score
	OffTargetScore Score
	Position       string
	Strand         string
	DesignID       string
}
