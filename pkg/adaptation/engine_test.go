package adaptation

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
)

func testConfig() config.LearningConfig {
	cfg := config.DefaultConfig()
	cfg.Helix.ThreadCount = 2
	cfg.Helix.InitialSeedCount = 2
	cfg.Spike.RollingWindowSize = 4
	cfg.Features.SpikeDetectionEnabled = true
	cfg.Adaptation.CalibrationMinItems = 2
	cfg.Adaptation.CalibrationMaxItems = 5
	return cfg
}

func newEngine(t *testing.T) *Engine {
	clock := quartz.NewMock(t)
	return New(testConfig(), clock, randsrc.New(3), nil, "course-1")
}

func TestStartAndEndSession(t *testing.T) {
	e := newEngine(t)
	e.StartSession("")
	session := e.EndSession()
	require.NotNil(t, session)
}

func TestProcessCompletionSmoothWhenSpikeDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Features.SpikeDetectionEnabled = false
	e := New(cfg, quartz.NewMock(t), randsrc.New(1), nil, "course-1")
	e.StartSession("")

	item := model.LearningItem{LegoID: "lego-1", ThreadID: 1, Mode: model.ModeReview, Kind: model.LegoKindAtomic}
	result := e.ProcessCompletion(item, 1000, 3000, true, nil)
	assert.Equal(t, model.ActionContinue, result.Action)
	assert.Equal(t, "spike_detection_disabled", result.Reason)
}

func TestProcessCompletionContinuesWithoutSpike(t *testing.T) {
	e := newEngine(t)
	e.StartSession("")

	item := model.LearningItem{LegoID: "lego-1", ThreadID: 1, Mode: model.ModeReview, Kind: model.LegoKindAtomic}
	result := e.ProcessCompletion(item, 500, 3000, false, nil)
	assert.Equal(t, model.ActionContinue, result.Action)
}

func TestCalibrationLifecycle(t *testing.T) {
	e := newEngine(t)
	e.StartSession("")
	e.StartCalibration()
	assert.Equal(t, model.CalibrationInProgress, e.GetCalibrationState())

	item := model.LearningItem{LegoID: "lego-1", ThreadID: 1, Mode: model.ModeReview, Kind: model.LegoKindAtomic}
	for i := 0; i < 2; i++ {
		e.ProcessCompletion(item, 400+i*10, 3000, false, nil)
	}

	assert.Equal(t, model.CalibrationCompleted, e.GetCalibrationState())
	assert.True(t, e.IsCalibrated())
}

func TestCompleteCalibrationFailsWithTooFewItems(t *testing.T) {
	e := newEngine(t)
	e.StartCalibration()
	_, err := e.CompleteCalibration()
	assert.ErrorIs(t, err, ErrInsufficientCalibrationItems)
}

func TestSkipCalibrationInstallsBaseline(t *testing.T) {
	e := newEngine(t)
	baseline := model.LearnerBaseline{Latency: model.LatencyBaseline{Mean: 1, StdDev: 10}}
	e.SkipCalibration(&baseline)
	assert.Equal(t, model.CalibrationSkipped, e.GetCalibrationState())
	assert.True(t, e.IsCalibrated())
}

func TestExportImportBaselineRoundTrip(t *testing.T) {
	e := newEngine(t)
	baseline := model.LearnerBaseline{Latency: model.LatencyBaseline{Mean: 2, StdDev: 20}}
	e.ImportBaseline(baseline)

	got, ok := e.ExportBaseline()
	require.True(t, ok)
	assert.Equal(t, baseline.Latency.Mean, got.Latency.Mean)
}

func TestGetPauseDurationMultiplierDefaultsToOne(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, 1.0, e.GetPauseDurationMultiplier())
}

func TestBreakdownSequenceContinuesAcrossCalls(t *testing.T) {
	cfg := testConfig()
	cfg.Spike.ResponseStrategy = config.ResponseBreakdown
	cfg.Spike.CooldownItems = 0
	cfg.Spike.UseStddevDetection = false
	cfg.Spike.ThresholdPercent = 1
	e := New(cfg, quartz.NewMock(t), randsrc.New(1), nil, "course-1")
	e.StartSession("")

	phrase := &model.PracticePhrase{ID: "p1", ContainsLegoIDs: []string{"c1", "c2"}}
	item := model.LearningItem{LegoID: "lego-1", ThreadID: 1, Mode: model.ModeReview, Kind: model.LegoKindMolecular, Phrase: phrase}

	// Warm up the rolling window so detection has enough data.
	for i := 0; i < 4; i++ {
		e.ProcessCompletion(item, 100, 3000, false, nil)
	}

	result := e.ProcessCompletion(item, 10000, 3000, false, nil)
	if result.Action == model.ActionBreakdown {
		next := e.ProcessCompletion(item, 100, 3000, false, nil)
		assert.Equal(t, model.ActionBreakdown, next.Action)
	}
}

func TestSnapshotExportImportRoundTrip(t *testing.T) {
	e := newEngine(t)
	e.LoadSeeds([]model.SeedPair{
		{SeedID: "s1", Legos: []model.LegoPair{{ID: "l1", Pair: model.LanguagePair{TargetText: "hola"}}}},
	})
	e.NextItem()

	snap := e.Export(nil)
	assert.NotEmpty(t, snap.LegoProgress)

	e2 := newEngine(t)
	e2.Import(snap)
	assert.Equal(t, len(snap.LegoProgress), len(e2.GetAllLegoProgress()))
}
