// Package model defines the course-content and learner-progress types
// shared across the scheduler's sub-engines.
package model

// LanguagePair is an ordered pair of known-language and target-language
// text.
type LanguagePair struct {
	KnownText  string
	TargetText string
}

// AudioRef is an opaque reference to a playable audio asset. Duration is
// optional; a nil value means the host has not reported one yet.
type AudioRef struct {
	ID         string
	URL        string
	DurationMs *int
}

// TargetVoices holds the two target-language voice renderings a course
// may supply for a single phrase.
type TargetVoices struct {
	Voice1 AudioRef
	Voice2 AudioRef
}

// AudioRefs bundles the known-language and target-language audio for a
// piece of content.
type AudioRefs struct {
	Known  AudioRef
	Target TargetVoices
}

// LegoKind distinguishes an indivisible building block from one composed
// of smaller components.
type LegoKind string

const (
	LegoKindAtomic    LegoKind = "atomic"
	LegoKindMolecular LegoKind = "molecular"
)

// LegoPair is a single LEGO (the atomic unit of course content): its
// language pair, its kind, and — for Molecular LEGOs — its ordered
// components.
type LegoPair struct {
	ID         string
	Kind       LegoKind
	IsNew      bool
	Pair       LanguagePair
	Components []LanguagePair
	Audio      AudioRefs
}

// PhraseRole classifies how a practice phrase is used during a Round.
// Legacy course content tags phrases with PhraseType instead; callers
// should resolve a phrase's effective role with ResolveRole.
type PhraseRole string

const (
	PhraseRoleComponent PhraseRole = "component"
	PhraseRoleBuild     PhraseRole = "build"
	PhraseRoleUse       PhraseRole = "use"
)

// PhraseType is the legacy classification some course content still
// carries. ResolveRole maps it onto PhraseRole.
type PhraseType string

const (
	PhraseTypeComponent PhraseType = "component"
	PhraseTypeDebut     PhraseType = "debut"
	PhraseTypePractice  PhraseType = "practice"
	PhraseTypeEternal   PhraseType = "eternal"
)

// ResolveRole returns the phrase's role, preferring an explicit role over
// the legacy type mapping: component->Component, debut->Build,
// practice/eternal->Use.
func ResolveRole(role PhraseRole, legacyType PhraseType) PhraseRole {
	if role != "" {
		return role
	}
	switch legacyType {
	case PhraseTypeComponent:
		return PhraseRoleComponent
	case PhraseTypeDebut:
		return PhraseRoleBuild
	case PhraseTypePractice, PhraseTypeEternal:
		return PhraseRoleUse
	default:
		return ""
	}
}

// PracticePhrase is a single deliverable unit of practice content.
type PracticePhrase struct {
	ID              string
	Role            PhraseRole
	Type            PhraseType
	Pair            LanguagePair
	Audio           AudioRefs
	WordCount       int
	ContainsLegoIDs []string
}

// SeedPair is a course's top-level content unit: a language pair plus its
// ordered LEGOs.
type SeedPair struct {
	SeedID string
	Pair   LanguagePair
	Legos  []LegoPair
}

// ClassifiedBasket is the per-LEGO derived view PhraseSelector produces
// from a SeedPair's raw phrases: components are retained only for
// bookkeeping (never delivered), debut phrases drive the Round's
// DebutPhrases phase, and the two pools feed spaced-rep / consolidation
// delivery.
type ClassifiedBasket struct {
	LegoID            string
	IntroductionAudio *AudioRef
	Components        []PracticePhrase
	Debut             PracticePhrase
	DebutPhrases      []PracticePhrase
	BuildPool         []PracticePhrase
	EternalPool       []PracticePhrase
}
