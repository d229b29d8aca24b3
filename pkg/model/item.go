package model

// LearningItem is a single presentable unit of practice the engines hand
// back to the host: either a real phrase or a synthetic introduction-audio
// marker (IsIntroductionAudio).
type LearningItem struct {
	LegoID              string
	ThreadID            int
	Kind                LegoKind
	Mode                ItemMode
	Phrase              *PracticePhrase
	IsIntroductionAudio bool
	RoundComplete       bool
	NeedsSpacedRepItem  bool
}

// Action is the learner-facing verdict AdaptationEngine.ProcessCompletion
// returns for the item just completed.
type Action string

const (
	ActionContinue  Action = "continue"
	ActionRepeat    Action = "repeat"
	ActionBreakdown Action = "breakdown"
)

// AdaptedItem is process_completion's return value: the chosen action,
// a human-readable reason, and the pause duration the host should honor
// before presenting the next item.
type AdaptedItem struct {
	Action          Action
	Reason          string
	PauseDurationMs int
	PauseMultiplier float64
}
