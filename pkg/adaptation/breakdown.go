package adaptation

import "github.com/ssi-learning/scheduler/pkg/model"

// continueBreakdownLocked advances an in-flight breakdown sequence:
// first one component per call, then — once components are exhausted —
// progressively larger prefixes ("buildup") until the full phrase has
// been rebuilt, at which point the breakdown state clears.
func (e *Engine) continueBreakdownLocked() model.AdaptedItem {
	b := e.breakdown

	if !b.InBuildup {
		if b.CurrentIndex < len(b.ComponentIDs) {
			b.CurrentIndex++
			if b.CurrentIndex >= len(b.ComponentIDs) {
				b.InBuildup = true
				b.CurrentIndex = 0
			}
			return model.AdaptedItem{Action: model.ActionBreakdown, Reason: "breakdown_component"}
		}
		b.InBuildup = true
		b.CurrentIndex = 0
	}

	if b.CurrentIndex < len(b.ComponentIDs) {
		b.CurrentIndex++
		return model.AdaptedItem{Action: model.ActionBreakdown, Reason: "breakdown_buildup"}
	}

	e.breakdown = nil
	return model.AdaptedItem{Action: model.ActionContinue, Reason: "complete"}
}
