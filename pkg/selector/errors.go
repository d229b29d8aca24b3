package selector

import "errors"

// ErrEmptyCandidates indicates Select was called with no candidates
// (§7 EmptyCandidates).
var ErrEmptyCandidates = errors.New("no candidates to select from")
