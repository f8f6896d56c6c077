// Package pipeline drives one full map-building run end to end: draft
// proposals, submit them to the single mutator, mirror the decision stream,
// and write the rendered artifacts plus the run report. The CLI stays thin
// by delegating here.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"loom/internal/config"
	"loom/internal/event"
	"loom/internal/graph"
	"loom/internal/mirror"
	"loom/internal/mutator"
	"loom/internal/rank"
	"loom/internal/report"
	"loom/internal/storage"
	"loom/internal/synth"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	Config *config.Config
	Logger *zap.Logger
}

func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Config: cfg, Logger: logger}
}

// Run executes the whole sequence. The mutator is the only writer; the
// mirror consumes the event stream concurrently and journals every decision.
func (r *Runner) Run(ctx context.Context) error {
	chain, mode := r.buildChainStage(ctx)
	rep := report.NewRunReport(mode, r.Config.Output.Dir)

	journal, m, err := r.initMirrorStage(ctx)
	if err != nil {
		return err
	}
	defer journal.Close()

	store := graph.NewStore()
	bus := event.NewBus()
	mut := mutator.New(store, bus)

	events := bus.Subscribe()
	var eg errgroup.Group
	eg.Go(func() error {
		return m.Run(ctx, events)
	})

	r.draftNodesStage(ctx, chain, mut, rep)
	r.draftEdgesStage(ctx, chain, mut, rep)

	bus.Close()
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("failed to drain event stream: %w", err)
	}

	sum := mut.Summary()
	view := m.Snapshot()
	layout := m.Layout()
	r.auditStage(m.Stats(), sum, view, rep)
	printSummary(sum, layout)

	if err := WriteArtifacts(r.Config.Output.Dir, r.Config.Run.Topic, sum, view, layout); err != nil {
		return fmt.Errorf("failed to write artifacts: %w", err)
	}

	if err := rep.Save(filepath.Join(r.Config.Output.Dir, "run_report.json")); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}
	fmt.Printf("✅ Artifacts written to '%s'.\n", r.Config.Output.Dir)
	return nil
}

// buildChainStage assembles the synthesizer chain. The deterministic
// fallback is always the last stage, so drafting itself cannot fail.
func (r *Runner) buildChainStage(ctx context.Context) (*synth.Chain, string) {
	cfg := r.Config
	if !cfg.Run.UseLLM {
		return synth.NewChain(synth.NewFallback()), "fallback"
	}
	if cfg.AI.APIKey == "" {
		log.Printf("⚠️ LLM synthesis requested but no API key is configured, using deterministic drafts.")
		return synth.NewChain(synth.NewFallback()), "fallback"
	}
	gem, err := synth.NewGeminiSynthesizer(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		log.Printf("⚠️ Failed to create gemini synthesizer: %v", err)
		return synth.NewChain(synth.NewFallback()), "fallback"
	}
	return synth.NewChain(gem, synth.NewFallback()), "llm"
}

func (r *Runner) initMirrorStage(ctx context.Context) (*storage.SQLiteJournal, *mirror.Mirror, error) {
	if err := os.MkdirAll(r.Config.Output.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	journal, err := storage.NewSQLiteJournal(r.Config.Output.Journal)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open event journal: %w", err)
	}
	// A fresh run restarts the sequence at one, so stale rows must go first.
	if err := journal.Reset(ctx); err != nil {
		journal.Close()
		return nil, nil, fmt.Errorf("failed to reset event journal: %w", err)
	}
	return journal, mirror.New(journal), nil
}

func (r *Runner) draftNodesStage(ctx context.Context, chain *synth.Chain, mut *mutator.Mutator, rep *report.RunReport) {
	h := rep.BeginStage("draft_nodes")
	drafts, stages := chain.DraftNodes(ctx, synth.NodeRequest{
		Topic:    r.Config.Run.Topic,
		Concepts: r.Config.Run.Concepts,
		Outcomes: r.Config.Run.Outcomes,
	})
	r.recordStages("draft_nodes", stages, rep)

	decisions := mut.SubmitNodes(drafts)
	accepted, rejected := r.logDecisions("node", decisions)
	if rejected > 0 {
		rep.AddSignal("node_rejections", "draft_nodes", "info",
			fmt.Sprintf("%d node proposals were rejected", rejected), float64(rejected))
	}
	rep.EndStage(h, "", map[string]float64{
		"proposed": float64(len(drafts)),
		"accepted": float64(accepted),
		"rejected": float64(rejected),
	}, nil)
	fmt.Printf("🧠 Nodes: %d drafted by %s, %d accepted, %d rejected.\n",
		len(drafts), usedSynth(stages), accepted, rejected)
}

func (r *Runner) draftEdgesStage(ctx context.Context, chain *synth.Chain, mut *mutator.Mutator, rep *report.RunReport) {
	h := rep.BeginStage("draft_edges")
	drafts, stages := chain.DraftEdges(ctx, synth.EdgeRequest{
		Topic:     r.Config.Run.Topic,
		Inventory: mut.Inventory(),
		Edges:     r.Config.Run.Edges,
	})
	r.recordStages("draft_edges", stages, rep)

	decisions := mut.SubmitEdges(drafts)
	accepted, rejected := r.logDecisions("edge", decisions)
	if rejected > 0 {
		rep.AddSignal("edge_rejections", "draft_edges", "info",
			fmt.Sprintf("%d edge proposals were rejected", rejected), float64(rejected))
	}
	rep.EndStage(h, "", map[string]float64{
		"proposed": float64(len(drafts)),
		"accepted": float64(accepted),
		"rejected": float64(rejected),
	}, nil)
	fmt.Printf("🔗 Edges: %d drafted by %s, %d accepted, %d rejected.\n",
		len(drafts), usedSynth(stages), accepted, rejected)
}

func (r *Runner) recordStages(stage string, stages []synth.StageResult, rep *report.RunReport) {
	for _, s := range stages {
		if s.Err != nil {
			r.Logger.Warn("synthesizer failed over",
				zap.String("stage", stage),
				zap.String("synthesizer", s.Synthesizer),
				zap.Error(s.Err))
			rep.AddSignal("synth_failover", stage, "warning",
				fmt.Sprintf("%s failed: %v", s.Synthesizer, s.Err), 1)
		}
		if s.Used && s.Synthesizer == "fallback" && len(stages) > 1 {
			rep.AddSignal("llm_fallback_engaged", stage, "warning",
				"deterministic fallback produced the drafts", 1)
		}
	}
}

func (r *Runner) logDecisions(kind string, decisions []graph.Decision) (accepted, rejected int) {
	for i, d := range decisions {
		if d.Accepted {
			accepted++
			r.Logger.Debug("proposal accepted",
				zap.String("kind", kind),
				zap.Int("index", i),
				zap.String("id", d.AssignedID))
			continue
		}
		rejected++
		r.Logger.Debug("proposal rejected",
			zap.String("kind", kind),
			zap.Int("index", i),
			zap.String("reason", d.Reason))
	}
	return accepted, rejected
}

// auditStage turns anything unusual about the finished run into report
// signals: delivery gaps, journal failures, replica divergence, and the
// never-expected prerequisite cycle.
func (r *Runner) auditStage(stats mirror.Stats, sum graph.Summary, view graph.StructuredView, rep *report.RunReport) {
	if stats.Gaps > 0 {
		r.Logger.Warn("sequence gaps in the decision stream", zap.Int("gaps", stats.Gaps))
		rep.AddSignal("sequence_gap", "mirror", "critical",
			fmt.Sprintf("%d gaps in the decision stream", stats.Gaps), float64(stats.Gaps))
	}
	if stats.RecordFailures > 0 {
		r.Logger.Warn("journal writes failed", zap.Int("failures", stats.RecordFailures))
		rep.AddSignal("journal_record_failures", "mirror", "warning",
			fmt.Sprintf("%d events were not journaled", stats.RecordFailures), float64(stats.RecordFailures))
	}
	if len(view.Nodes) != sum.TotalNodes || len(view.Edges) != sum.TotalEdges {
		r.Logger.Error("mirror diverged from the canonical store",
			zap.Int("mirror_nodes", len(view.Nodes)),
			zap.Int("store_nodes", sum.TotalNodes),
			zap.Int("mirror_edges", len(view.Edges)),
			zap.Int("store_edges", sum.TotalEdges))
		rep.AddSignal("mirror_divergence", "mirror", "critical",
			fmt.Sprintf("replica holds %d/%d nodes and %d/%d edges",
				len(view.Nodes), sum.TotalNodes, len(view.Edges), sum.TotalEdges), 1)
	}
	if !sum.PrerequisiteDAG {
		rep.AddSignal("dag_violation", "summary", "critical",
			fmt.Sprintf("prerequisite cycle: %s", strings.Join(sum.CycleWitness, " -> ")), 1)
	}
}

func printSummary(sum graph.Summary, layout rank.Layout) {
	fmt.Println("📊 Graph summary:")
	fmt.Printf("  -> %d concepts, %d learning outcomes\n", sum.Concepts, sum.LearningOutcomes)
	fmt.Printf("  -> %d prerequisite edges, %d supports edges, rank depth %d\n",
		sum.PrerequisiteEdges, sum.SupportsEdges, layout.Depth())
	if sum.PrerequisiteDAG {
		fmt.Println("  -> prerequisite graph is acyclic")
	} else {
		fmt.Printf("  -> ⚠️ prerequisite cycle: %s\n", strings.Join(sum.CycleWitness, " -> "))
	}
}

func usedSynth(stages []synth.StageResult) string {
	for _, s := range stages {
		if s.Used {
			return s.Synthesizer
		}
	}
	return "none"
}
