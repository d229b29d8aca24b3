package adaptation

import (
	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
)

// Snapshot is the full persisted-state bag a host needs to resume a
// learner's session: the helix cursor, every thread's LEGO/seed
// progress, mastery ladder positions, selector bookkeeping, the
// calibrated baseline (if any), and the config override layers. §6 lists
// these as six separate calls; Snapshot assembles them into one.
type Snapshot struct {
	HelixState    model.HelixState
	LegoProgress  []model.LegoProgress
	SeedProgress  []model.SeedProgress
	MasteryStates []model.LegoMasteryState
	SelectorData  []model.SelectorLegoData
	Baseline      *model.LearnerBaseline
	Overrides     config.Overrides
}

// Export assembles a Snapshot from the engine's current state. overrides
// is whichever override layer (course or learner) the host wants bundled
// alongside the engine state; pass nil if the host tracks overrides
// separately via ConfigResolver.
func (e *Engine) Export(overrides config.Overrides) Snapshot {
	baseline, ok := e.ExportBaseline()
	snap := Snapshot{
		HelixState:    e.GetHelixState(),
		LegoProgress:  e.GetAllLegoProgress(),
		SeedProgress:  e.GetAllSeedProgress(),
		MasteryStates: e.GetAllMasteryStates(),
		SelectorData:  e.GetAllSelectorData(),
		Overrides:     overrides,
	}
	if ok {
		snap.Baseline = &baseline
	}
	return snap
}

// Import restores engine state from a Snapshot. Entries referring to
// unknown threads or LEGOs are ignored per-entry (§7 MismatchedIds).
func (e *Engine) Import(snap Snapshot) {
	e.LoadState(snap.HelixState, snap.LegoProgress, snap.MasteryStates, snap.SelectorData)
	if snap.Baseline != nil {
		e.ImportBaseline(*snap.Baseline)
	}
}
