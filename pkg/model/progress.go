package model

import "time"

// LegoProgress is a single thread's spaced-repetition bookkeeping for one
// LEGO, plus the Round-introduction fields that track its introduction
// phases across calls.
type LegoProgress struct {
	LegoID   string
	CourseID string
	ThreadID int

	FibonacciPosition int
	SkipNumber        int
	RepsCompleted     int
	IsRetired         bool
	LastPracticedAt   *time.Time

	IntroductionPlayed   bool
	IntroductionIndex    int
	IntroductionComplete bool
	EternalUrn           []string
	LastEternalPhraseID  string
}

// SeedProgress tracks whether a thread has introduced a given SEED yet.
type SeedProgress struct {
	SeedID       string
	ThreadID     int
	IsIntroduced bool
	IntroducedAt *time.Time
}
