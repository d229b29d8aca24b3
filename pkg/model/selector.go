package model

import "time"

// SelectorLegoData is WeightedSelector's per-LEGO persisted bookkeeping
// (§4.5): when it was last practiced and how many discontinuities it has
// accumulated.
type SelectorLegoData struct {
	LegoID             string
	LastPracticeAt     *time.Time
	DiscontinuityCount int
}

// Candidate is a single weighted-selection result: the chosen LEGO id and
// the probability it was drawn with.
type Candidate struct {
	LegoID      string
	Probability float64
}
