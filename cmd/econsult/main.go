package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"econsult/internal/config"
	"econsult/internal/database"
	"econsult/internal/export"
	"econsult/internal/pipeline"
	"econsult/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "econsult",
	Short:   "Sentiment analysis for public legislation feedback",
	Long:    "econsult scores, summarizes, and visualizes public comments on draft legislation.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("econsult", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/econsult/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point at your model server.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and analysis status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Data:")
		fmt.Printf("  Drafts: %d\n", stats.Drafts)
		fmt.Printf("  Sections: %d\n", stats.Sections)
		fmt.Printf("  Users: %d\n", stats.Users)
		fmt.Printf("  Submissions: %d\n", stats.Submissions)
		fmt.Printf("  Comments: %d\n", stats.Comments)
		fmt.Println("\nAnalysis:")
		fmt.Printf("  Comments scored: %d\n", stats.ScoredComments)
		fmt.Printf("  Comments summarized: %d\n", stats.SummarizedComments)
		fmt.Printf("  Sections summarized: %d\n", stats.SummarizedSections)
		fmt.Printf("  Drafts summarized: %d\n", stats.SummarizedDrafts)
		fmt.Println("\nWord clouds:")
		fmt.Printf("  Comments: %d\n", stats.RenderedComments)
		fmt.Printf("  Sections: %d\n", stats.RenderedSections)
		fmt.Printf("  Drafts: %d\n", stats.RenderedDrafts)
		return nil
	},
}

// --- run command ---

var (
	dryRun         bool
	skipWordClouds bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: sentiment -> summaries -> roll-up -> word clouds",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)

		if dryRun {
			pending, err := pipe.DryRun()
			if err != nil {
				return err
			}
			fmt.Println("Pending work:")
			fmt.Printf("  Comments to score: %d\n", pending.Sentiment)
			fmt.Printf("  Comments to summarize: %d\n", pending.CommentSummaries)
			fmt.Printf("  Sections to roll up: %d\n", pending.Sections)
			fmt.Printf("  Drafts to roll up: %d\n", pending.Drafts)
			fmt.Printf("  Word clouds to render: %d\n", pending.WordClouds)
			return nil
		}

		result := pipe.Run(context.Background(), skipWordClouds)
		fmt.Println("\nPipeline complete:")
		for _, step := range result.Steps {
			fmt.Printf("  %s: %d processed", step.Name, step.Processed)
			if step.Skipped > 0 {
				fmt.Printf(", %d skipped", step.Skipped)
			}
			if step.Errors > 0 {
				fmt.Printf(", %d errors", step.Errors)
			}
			fmt.Println()
		}
		fmt.Println("\nRun 'econsult serve' to view the results.")
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
	runCmd.Flags().BoolVar(&skipWordClouds, "skip-wordclouds", false, "Skip word cloud rendering")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if !cmd.Flags().Changed("port") && cfg.Server.Port != 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, cfg.GetDataDir(), port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

// --- reset command ---

var resetScope string

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear derived analysis columns so the pipeline recomputes them",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		switch resetScope {
		case "sentiment":
			err = db.ResetSentiment()
		case "summaries":
			err = db.ResetSummaries()
		case "wordclouds":
			err = db.ResetWordClouds()
		case "all":
			err = db.ResetAll()
		default:
			return fmt.Errorf("unknown scope %q (want sentiment, summaries, wordclouds, or all)", resetScope)
		}
		if err != nil {
			return fmt.Errorf("resetting %s: %w", resetScope, err)
		}
		fmt.Printf("Reset %s. Run 'econsult run' to recompute.\n", resetScope)
		return nil
	},
}

func init() {
	resetCmd.Flags().StringVar(&resetScope, "scope", "all", "What to reset: sentiment, summaries, wordclouds, or all")
}

// --- export command ---

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tables to CSV files",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		written, err := export.ToCSV(db, exportDir)
		if err != nil {
			return err
		}
		if len(written) == 0 {
			fmt.Println("Nothing to export.")
			return nil
		}
		fmt.Printf("Exported %d tables to %s\n", len(written), exportDir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "out", "export", "Directory to write CSV files to")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "econsult.db")
	return database.Open(dbPath)
}
