// Package phrase implements PhraseSelector (§4.7): classifies a SEED's
// raw phrases into a per-LEGO basket, and picks debut and eternal
// (spaced-rep/consolidation) phrases from it.
package phrase

import (
	"sort"
	"unicode"

	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
)

// EternalMode selects how SelectEternalPhrase draws from a basket's pool.
type EternalMode string

const (
	EternalRandomUrn   EternalMode = "random_urn"
	EternalSequential  EternalMode = "sequential"
	EternalMaxDistance EternalMode = "max_distance"
)

// Selector has no state of its own; its randomness is supplied per call
// so it can be shared across threads.
type Selector struct{}

// New creates a Selector.
func New() *Selector { return &Selector{} }

// ClassifyBasket builds a ClassifiedBasket for one LEGO from its raw
// phrases and optional introduction audio.
func (s *Selector) ClassifyBasket(lego model.LegoPair, phrases []model.PracticePhrase, introAudio *model.AudioRef) model.ClassifiedBasket {
	basket := model.ClassifiedBasket{LegoID: lego.ID, IntroductionAudio: introAudio}

	var build, use []model.PracticePhrase
	var debut *model.PracticePhrase

	requiredRunes := significantRunes(lego.Pair.TargetText)

	for _, p := range phrases {
		role := model.ResolveRole(p.Role, p.Type)
		switch role {
		case model.PhraseRoleComponent:
			basket.Components = append(basket.Components, p)
		case model.PhraseRoleBuild:
			if !containsAllRunes(p.Pair.TargetText, requiredRunes) {
				continue
			}
			if debut == nil && p.Type == model.PhraseTypeDebut {
				d := p
				debut = &d
				continue
			}
			build = append(build, p)
		case model.PhraseRoleUse:
			if !containsAllRunes(p.Pair.TargetText, requiredRunes) {
				continue
			}
			use = append(use, p)
		}
	}

	if debut == nil {
		d := synthesizeDebut(lego)
		debut = &d
	}
	basket.Debut = *debut

	combined := make([]model.PracticePhrase, 0, len(build)+len(use))
	combined = append(combined, build...)
	combined = append(combined, use...)
	sortByTargetLength(combined)

	basket.BuildPool = combined
	basket.EternalPool = append([]model.PracticePhrase(nil), combined...)
	basket.DebutPhrases = combined

	return basket
}

func synthesizeDebut(lego model.LegoPair) model.PracticePhrase {
	return model.PracticePhrase{
		ID:   lego.ID + "-synthetic-debut",
		Role: model.PhraseRoleBuild,
		Pair: lego.Pair,
	}
}

func significantRunes(s string) map[rune]bool {
	out := make(map[rune]bool)
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		out[r] = true
	}
	return out
}

func containsAllRunes(s string, required map[rune]bool) bool {
	if len(required) == 0 {
		return true
	}
	present := make(map[rune]bool)
	for _, r := range s {
		present[r] = true
	}
	for r := range required {
		if !present[r] {
			return false
		}
	}
	return true
}

func sortByTargetLength(phrases []model.PracticePhrase) {
	sort.SliceStable(phrases, func(i, j int) bool {
		return len([]rune(phrases[i].Pair.TargetText)) < len([]rune(phrases[j].Pair.TargetText))
	})
}

// SelectDebutPhrase returns the phrase for the progress's current
// introduction index: index 0 is the basket's debut phrase, index n
// (n>=1) is DebutPhrases[n-1]. Returns nil past the end.
func (s *Selector) SelectDebutPhrase(basket model.ClassifiedBasket, progress model.LegoProgress) *model.PracticePhrase {
	if progress.IntroductionIndex == 0 {
		d := basket.Debut
		return &d
	}
	idx := progress.IntroductionIndex - 1
	if idx < 0 || idx >= len(basket.DebutPhrases) {
		return nil
	}
	p := basket.DebutPhrases[idx]
	return &p
}

// SelectEternalPhrase draws a phrase from the basket's eternal pool per
// mode, returning the phrase and the urn left after the draw; the caller
// records the phrase as the last one drawn. ok is false if the pool is
// empty or the urn's head is not in the pool.
func (s *Selector) SelectEternalPhrase(basket model.ClassifiedBasket, progress model.LegoProgress, mode EternalMode, rnd randsrc.Source) (model.PracticePhrase, []string, bool) {
	if len(basket.EternalPool) == 0 {
		return model.PracticePhrase{}, progress.EternalUrn, false
	}

	switch mode {
	case EternalSequential:
		urn := progress.EternalUrn
		if len(urn) == 0 {
			urn = idsOf(basket.EternalPool)
		}
		head := urn[0]
		tail := urn[1:]
		phrase, ok := findByID(basket.EternalPool, head)
		if !ok {
			return model.PracticePhrase{}, tail, false
		}
		return phrase, tail, true

	case EternalMaxDistance:
		n := len(basket.EternalPool)
		lastIdx := indexOfID(basket.EternalPool, progress.LastEternalPhraseID)
		if lastIdx < 0 {
			lastIdx = 0
		}
		next := (lastIdx + n/2) % n
		return basket.EternalPool[next], progress.EternalUrn, true

	default: // EternalRandomUrn
		urn := progress.EternalUrn
		if len(urn) == 0 {
			urn = idsOf(basket.EternalPool)
			if rnd != nil {
				rnd.Shuffle(len(urn), func(i, j int) { urn[i], urn[j] = urn[j], urn[i] })
			}
		}
		head := urn[0]
		tail := urn[1:]
		phrase, ok := findByID(basket.EternalPool, head)
		if !ok {
			return model.PracticePhrase{}, tail, false
		}
		return phrase, tail, true
	}
}

func idsOf(phrases []model.PracticePhrase) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = p.ID
	}
	return out
}

func findByID(phrases []model.PracticePhrase, id string) (model.PracticePhrase, bool) {
	for _, p := range phrases {
		if p.ID == id {
			return p, true
		}
	}
	return model.PracticePhrase{}, false
}

func indexOfID(phrases []model.PracticePhrase, id string) int {
	if id == "" {
		return -1
	}
	for i, p := range phrases {
		if p.ID == id {
			return i
		}
	}
	return -1
}
