package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"loom/internal/config"
	"loom/internal/graph"
	"loom/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// run flags
	topic    string
	concepts int
	outcomes int
	edges    int
	useLLM   bool
	outDir   string

	// render flags
	journalPath string

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Event-sourced knowledge map builder",
	Long: `loom builds a small prerequisite map for a teaching topic.

Untrusted synthesizers draft concept and learning-outcome proposals; a single
mutator validates each proposal against the live graph and publishes exactly
one decision event for it. An observer mirror rebuilds the graph from that
stream alone, journals it, and renders every artifact from its replica.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-decision detail at debug level")

	runCmd.Flags().StringVar(&topic, "topic", "", "Teaching topic the map is built for")
	runCmd.Flags().IntVar(&concepts, "concepts", 0, "Number of concept proposals to draft")
	runCmd.Flags().IntVar(&outcomes, "los", 0, "Number of learning-outcome proposals to draft")
	runCmd.Flags().IntVar(&edges, "edges", 0, "Maximum number of edge proposals to draft")
	runCmd.Flags().BoolVar(&useLLM, "use-llm", false, "Draft with the configured LLM before falling back")
	runCmd.Flags().StringVar(&outDir, "out", "", "Output directory for artifacts")

	renderCmd.Flags().StringVar(&journalPath, "journal", "", "Path to the event journal to replay")
	renderCmd.Flags().StringVar(&topic, "topic", "", "Topic heading for the regenerated summary")
	renderCmd.Flags().StringVar(&outDir, "out", "", "Output directory for artifacts")
	_ = renderCmd.MarkFlagRequired("journal")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(renderCmd)
}

// loadConfig merges the config file with whatever flags were set explicitly;
// flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("topic") {
		cfg.Run.Topic = topic
	}
	if cmd.Flags().Changed("concepts") {
		cfg.Run.Concepts = concepts
	}
	if cmd.Flags().Changed("los") {
		cfg.Run.Outcomes = outcomes
	}
	if cmd.Flags().Changed("edges") {
		cfg.Run.Edges = edges
	}
	if cmd.Flags().Changed("use-llm") {
		cfg.Run.UseLLM = useLLM
	}
	if cmd.Flags().Changed("out") {
		cfg.Output.Dir = outDir
		cfg.Output.Journal = filepath.Join(outDir, "events.db")
	}
	return cfg, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a knowledge map and write its artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("🧵 Building the %q map...\n", cfg.Run.Topic)
		return pipeline.NewRunner(cfg, logger).Run(context.Background())
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Replay an event journal and regenerate the artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		m, err := pipeline.Replay(ctx, journalPath)
		if err != nil {
			return err
		}

		stats := m.Stats()
		fmt.Printf("🔁 Replayed %d events: %d nodes and %d edges accepted, %d proposals rejected.\n",
			stats.LastSeq, stats.NodesAccepted, stats.EdgesAccepted,
			stats.NodesRejected+stats.EdgesRejected)
		if stats.Gaps > 0 {
			fmt.Printf("⚠️ %d sequence gaps detected in the journal.\n", stats.Gaps)
		}

		view := m.Snapshot()
		if err := pipeline.WriteArtifacts(cfg.Output.Dir, cfg.Run.Topic, graph.SummarizeView(view), view, m.Layout()); err != nil {
			return err
		}
		fmt.Printf("✅ Artifacts written to '%s'.\n", cfg.Output.Dir)
		return nil
	},
}
