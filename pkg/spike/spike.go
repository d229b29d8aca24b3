// Package spike implements SpikeDetector (§4.3): discontinuity detection
// against a per-learner rolling baseline, plus cooldown-gated response
// selection.
package spike

import (
	"math"

	"github.com/coder/quartz"

	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
)

// RollingStats is the subset of MetricsTracker the detector consumes.
// Defined as an interface so spike tests can supply a fake without
// depending on the metrics package's concrete clock/mutex plumbing.
type RollingStats interface {
	HasEnoughData() bool
	RollingAverage() float64
	RollingStdDev() float64
	RecordSpike(model.SpikeEvent)
}

// Detection is the per-response outcome of the discontinuity algorithm.
type Detection struct {
	IsSpike    bool
	InCooldown bool
	Severity   model.DiscontinuitySeverity
	Magnitude  float64
}

// Detector tracks items-since-last-spike and the alternate-strategy
// cursor across calls.
type Detector struct {
	cfg   config.SpikeConfig
	stats RollingStats
	clock quartz.Clock

	itemsSinceSpike int
	alternateIndex  int
}

// New creates a Detector. clock defaults to quartz.NewReal() when nil.
func New(cfg config.SpikeConfig, stats RollingStats, clock quartz.Clock) *Detector {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Detector{
		cfg:             cfg,
		stats:           stats,
		clock:           clock,
		itemsSinceSpike: math.MaxInt32,
	}
}

// ProcessResponse runs the detection algorithm and, for an out-of-cooldown
// spike, selects a response, records the event on the tracker, and resets
// the cooldown counter.
func (d *Detector) ProcessResponse(legoID string, kind model.LegoKind, normalizedLatency float64, threadID int) (Detection, model.SpikeResponseKind, *model.SpikeEvent) {
	d.itemsSinceSpike++

	det := d.detect(normalizedLatency)
	if !det.IsSpike {
		return det, model.SpikeResponseNone, nil
	}
	if d.itemsSinceSpike < d.cfg.CooldownItems {
		det.InCooldown = true
		return det, model.SpikeResponseNone, nil
	}

	response := d.selectResponse(kind)
	event := &model.SpikeEvent{
		LegoID:         legoID,
		Timestamp:      d.clock.Now(),
		Latency:        normalizedLatency,
		RollingAverage: d.stats.RollingAverage(),
		SpikeRatio:     det.Magnitude,
		Response:       response,
		ThreadID:       threadID,
	}
	d.stats.RecordSpike(*event)
	d.itemsSinceSpike = 0
	if d.cfg.ResponseStrategy == config.ResponseAlternate {
		d.alternateIndex++
	}
	return det, response, event
}

func (d *Detector) detect(x float64) Detection {
	if !d.stats.HasEnoughData() {
		return Detection{}
	}

	mu := d.stats.RollingAverage()
	sigma := d.stats.RollingStdDev()
	delta := x - mu

	useStddev := d.cfg.UseStddevDetection && sigma > 0

	var isSpike bool
	var magnitude float64

	if useStddev {
		magnitude = math.Abs(delta) / sigma
		isSpike = math.Abs(delta) > d.cfg.StddevThreshold*sigma
	} else {
		isSpike = x > mu*d.cfg.ThresholdPercent/100
		switch {
		case sigma > 0:
			magnitude = math.Abs(delta) / sigma
		case mu != 0:
			magnitude = x / mu
		}
	}

	if !isSpike {
		return Detection{IsSpike: false}
	}

	var severity model.DiscontinuitySeverity
	if useStddev {
		severity = classifySeverityFromRatio(magnitude)
	} else {
		severity = classifySeverityFromNonStddevRatio(magnitude)
	}
	return Detection{IsSpike: true, Severity: severity, Magnitude: magnitude}
}

// classifySeverityFromRatio maps a magnitude ratio onto the severity
// ladder for the σ-based detection path: Severe >=4.0σ, Moderate >=2.5σ.
func classifySeverityFromRatio(magnitude float64) model.DiscontinuitySeverity {
	switch {
	case magnitude >= 4.0:
		return model.SeveritySevere
	case magnitude >= 2.5:
		return model.SeverityModerate
	default:
		return model.SeverityMild
	}
}

// classifySeverityFromNonStddevRatio maps a magnitude ratio onto the
// severity ladder for the non-stddev x/mu fallback, whose boundaries
// (>2.5, >1.8) differ from the σ-based path (§9 Open Question).
func classifySeverityFromNonStddevRatio(magnitude float64) model.DiscontinuitySeverity {
	switch {
	case magnitude > 2.5:
		return model.SeveritySevere
	case magnitude > 1.8:
		return model.SeverityModerate
	default:
		return model.SeverityMild
	}
}

func (d *Detector) selectResponse(kind model.LegoKind) model.SpikeResponseKind {
	switch d.cfg.ResponseStrategy {
	case config.ResponseRepeat:
		return model.SpikeResponseRepeat
	case config.ResponseBreakdown:
		return breakdownOrRepeat(kind)
	case config.ResponseAlternate:
		if len(d.cfg.AlternateSequence) == 0 {
			return model.SpikeResponseRepeat
		}
		next := d.cfg.AlternateSequence[d.alternateIndex%len(d.cfg.AlternateSequence)]
		if next == config.ResponseBreakdown {
			return breakdownOrRepeat(kind)
		}
		return model.SpikeResponseRepeat
	default:
		return model.SpikeResponseRepeat
	}
}

func breakdownOrRepeat(kind model.LegoKind) model.SpikeResponseKind {
	if kind == model.LegoKindMolecular {
		return model.SpikeResponseBreakdown
	}
	return model.SpikeResponseRepeat
}
