package model

// RoundPhase enumerates a LEGO introduction's phases, in the order
// RoundEngine advances through them. Components is never delivered to
// the learner — it exists only as an internal pass-through phase.
type RoundPhase string

const (
	RoundPhaseIntroAudio     RoundPhase = "intro_audio"
	RoundPhaseComponents     RoundPhase = "components"
	RoundPhaseDebutLego      RoundPhase = "debut_lego"
	RoundPhaseDebutPhrases   RoundPhase = "debut_phrases"
	RoundPhaseSpacedRep      RoundPhase = "spaced_rep"
	RoundPhaseConsolidation  RoundPhase = "consolidation"
)

// RoundState is the in-flight state of a single LEGO's introduction.
// At most one RoundState is active per engine (§3 invariants).
type RoundState struct {
	LegoID                string
	CurrentPhase          RoundPhase
	PhaseIndex             int
	SpacedRepTarget        int
	SpacedRepCompleted     int
	ConsolidationRemaining int
}
