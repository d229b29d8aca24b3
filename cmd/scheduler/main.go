// Command scheduler runs a small demo host loop around the adaptation
// engine: it loads a handful of seeds, pulls items, and feeds back
// synthetic completions so the engine's decisions are visible in the log
// on stderr.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/ssi-learning/scheduler/pkg/adaptation"
	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
	"github.com/ssi-learning/scheduler/pkg/version"
)

type CLI struct {
	Course   string `short:"c" help:"Course id to scope the spaced-repetition queues under." default:"demo-course"`
	Items    int    `short:"n" help:"Number of completions to simulate." default:"40"`
	LogLevel string `help:"Set the log level." enum:"debug,info,warn,error" default:"info"`
	Seed     *int64 `help:"Seed for the random number generator; defaults to the current time."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		logger.Fatal("invalid log level", "error", err)
	}
	logger.SetLevel(level)
	logger.Info("starting", "version", version.Full())

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}
	rnd := randsrc.New(seed)

	if err := run(cli, logger, rnd); err != nil {
		logger.Fatal("run failed", "error", err)
	}

	ctx.Exit(0)
}

func run(cli CLI, logger *log.Logger, rnd randsrc.Source) error {
	resolver := config.NewResolver(config.DefaultConfig()).WithLogger(logger)
	cfg := resolver.Resolve()

	engine := adaptation.New(cfg, quartz.NewReal(), rnd, logger, cli.Course)
	engine.StartSession("demo-session")
	defer engine.EndSession()

	engine.LoadSeeds(demoSeeds())
	for _, basket := range demoBaskets() {
		engine.RegisterBasket(basket.LegoID, basket)
	}

	source := rand.New(rand.NewSource(int64(rand.Int())))

	for i := 0; i < cli.Items; i++ {
		item := engine.NextItem()
		if item == nil {
			logger.Info("no item available, stopping early", "completed", i)
			break
		}

		latencyMs := 300 + source.Intn(2500)
		wasFast := latencyMs < 600

		result := engine.ProcessCompletion(*item, latencyMs, 3000, wasFast, nil)
		engine.RecordPractice(item.LegoID, item.ThreadID, result.Action == model.ActionContinue, false)

		logger.Info("completion",
			"lego", item.LegoID,
			"thread", item.ThreadID,
			"mode", item.Mode,
			"latency_ms", latencyMs,
			"action", result.Action,
			"reason", result.Reason,
			"pause_multiplier", fmt.Sprintf("%.2f", result.PauseMultiplier),
		)
	}

	snapshot := engine.Export(nil)
	logger.Info("session complete",
		"legos_tracked", len(snapshot.LegoProgress),
		"seeds_tracked", len(snapshot.SeedProgress),
	)
	return nil
}

func demoSeeds() []model.SeedPair {
	return []model.SeedPair{
		{
			SeedID: "seed-greetings",
			Pair:   model.LanguagePair{KnownText: "Greetings", TargetText: "Saludos"},
			Legos: []model.LegoPair{
				{ID: "lego-hola", Kind: model.LegoKindAtomic, Pair: model.LanguagePair{KnownText: "hello", TargetText: "hola"}},
				{ID: "lego-gracias", Kind: model.LegoKindAtomic, Pair: model.LanguagePair{KnownText: "thank you", TargetText: "gracias"}},
			},
		},
		{
			SeedID: "seed-requests",
			Pair:   model.LanguagePair{KnownText: "Requests", TargetText: "Peticiones"},
			Legos: []model.LegoPair{
				{
					ID:   "lego-puedo",
					Kind: model.LegoKindMolecular,
					Pair: model.LanguagePair{KnownText: "can I have", TargetText: "puedo tener"},
					Components: []model.LanguagePair{
						{KnownText: "can I", TargetText: "puedo"},
						{KnownText: "have", TargetText: "tener"},
					},
				},
			},
		},
	}
}

func demoBaskets() []model.ClassifiedBasket {
	return []model.ClassifiedBasket{
		{
			LegoID: "lego-hola",
			Debut:  model.PracticePhrase{ID: "p-hola-debut", Role: model.PhraseRoleBuild, Pair: model.LanguagePair{KnownText: "hello there", TargetText: "hola"}, WordCount: 1},
			BuildPool: []model.PracticePhrase{
				{ID: "p-hola-1", Role: model.PhraseRoleBuild, Pair: model.LanguagePair{KnownText: "hello friend", TargetText: "hola amigo"}, WordCount: 2, ContainsLegoIDs: []string{"lego-hola"}},
			},
		},
		{
			LegoID: "lego-gracias",
			Debut:  model.PracticePhrase{ID: "p-gracias-debut", Role: model.PhraseRoleBuild, Pair: model.LanguagePair{KnownText: "thank you", TargetText: "gracias"}, WordCount: 1},
		},
		{
			LegoID: "lego-puedo",
			Debut:  model.PracticePhrase{ID: "p-puedo-debut", Role: model.PhraseRoleBuild, Pair: model.LanguagePair{KnownText: "can I have water", TargetText: "puedo tener agua"}, WordCount: 3, ContainsLegoIDs: []string{"lego-puedo"}},
		},
	}
}
