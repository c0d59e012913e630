package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"perturbkit/internal/config"
	"perturbkit/internal/document"
	"perturbkit/internal/lexicon"
	"perturbkit/internal/logging"
	"perturbkit/internal/perturb"
	"perturbkit/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:   "perturbkit",
		Short: "Generate label-preserving perturbations of annotated text",
	}
	configPath string
	dbPath     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the SQLite run database (overrides config)")

	runCmd.Flags().StringP("rule", "r", "", fmt.Sprintf("Perturbation rule %v", ruleNames()))
	runCmd.Flags().String("corpus", "", "Annotated corpus (.json array or .jsonl)")
	runCmd.Flags().IntP("n", "n", 0, "Maximum variants per document")
	runCmd.Flags().Int("nsamples", 0, "Stop after this many documents produced variants (0 = all)")
	runCmd.Flags().Bool("keep-original", true, "Emit the original text first in every group")
	runCmd.Flags().Bool("meta", false, "Include substitution metadata")
	runCmd.Flags().Uint64("seed", 0, "Random seed (0 = time based)")
	runCmd.Flags().Int("typos", 0, "Adjacent swaps per variant for the typos rule")
	runCmd.Flags().Bool("first-only", false, "names: replace first names only")
	runCmd.Flags().Bool("last-only", false, "names: replace last names only")
	runCmd.Flags().Bool("save", false, "Store the result in the run database")
	_ = runCmd.MarkFlagRequired("rule")
	_ = runCmd.MarkFlagRequired("corpus")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(runsCmd)
}

// runSettings is the fully resolved input of a perturbation run.
type runSettings struct {
	Rule      string
	Corpus    string
	Rules     ruleSettings
	NSamples  int
	Keep      bool
	Meta      bool
	Seed      uint64
	Save      bool
	NamesPath string
	BasicPath string
	DB        string
}

type runOutput struct {
	RunID   string           `json:"run_id,omitempty"`
	Groups  [][]string       `json:"groups"`
	Meta    [][]perturb.Meta `json:"meta,omitempty"`
	Sources []int            `json:"sources"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply a perturbation rule to an annotated corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err := logging.New(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		s := settingsFrom(cmd, cfg)
		return runPerturb(cmd.Context(), s, cmd.OutOrStdout(), logger)
	},
}

func settingsFrom(cmd *cobra.Command, cfg *config.Config) runSettings {
	f := cmd.Flags()
	s := runSettings{
		Rules: ruleSettings{
			N:     cfg.Sampling.N,
			Typos: cfg.Typos.Count,
		},
		NSamples: cfg.Sampling.NSamples,
		Keep:     cfg.Sampling.KeepOriginal,
		Meta:     cfg.Sampling.ReturnsMeta,
		Seed:     cfg.Sampling.Seed,
		DB:       cfg.Storage.DB,
	}
	s.NamesPath, s.BasicPath = cfg.LexiconPaths()
	s.Rule, _ = f.GetString("rule")
	s.Corpus, _ = f.GetString("corpus")
	s.Save, _ = f.GetBool("save")
	s.Rules.FirstOnly, _ = f.GetBool("first-only")
	s.Rules.LastOnly, _ = f.GetBool("last-only")
	if f.Changed("n") {
		s.Rules.N, _ = f.GetInt("n")
	}
	if f.Changed("typos") {
		s.Rules.Typos, _ = f.GetInt("typos")
	}
	if f.Changed("nsamples") {
		s.NSamples, _ = f.GetInt("nsamples")
	}
	if f.Changed("keep-original") {
		s.Keep, _ = f.GetBool("keep-original")
	}
	if f.Changed("meta") {
		s.Meta, _ = f.GetBool("meta")
	}
	if f.Changed("seed") {
		s.Seed, _ = f.GetUint64("seed")
	}
	if dbPath != "" {
		s.DB = dbPath
	}
	return s
}

func runPerturb(ctx context.Context, s runSettings, out io.Writer, logger *zap.Logger) error {
	factory, err := lookupRule(s.Rule)
	if err != nil {
		return err
	}

	lex := lexicon.New(nil)
	if factory.needsLexicon {
		lex, err = lexicon.Load(s.NamesPath, s.BasicPath)
		if err != nil {
			return err
		}
		logger.Info("Lexicon loaded", zap.Any("categories", lex.Categories()))
	}

	corpus, err := document.LoadCorpus(s.Corpus)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	logger.Info("Corpus loaded", zap.String("path", s.Corpus), zap.Int("documents", len(corpus)))

	p := perturb.New(lex, nil)
	if s.Seed != 0 {
		p = perturb.NewSeeded(lex, s.Seed)
	}

	res, err := perturb.Run(p, corpus, factory.build(p, s.Rules), perturb.RunOptions[document.Document, string]{
		KeepOriginal: s.Keep,
		ReturnsMeta:  s.Meta,
		NSamples:     s.NSamples,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	logger.Info("Perturbation finished", zap.String("rule", s.Rule), zap.Int("groups", res.Len()))

	o := runOutput{Groups: res.Groups, Meta: res.Meta, Sources: res.Sources}
	if s.Save {
		store, err := storage.NewSQLiteStore(s.DB)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		params := map[string]any{
			"corpus":        s.Corpus,
			"n":             s.Rules.N,
			"nsamples":      s.NSamples,
			"keep_original": s.Keep,
			"seed":          s.Seed,
		}
		switch s.Rule {
		case "typos":
			params["typos"] = s.Rules.Typos
		case "names":
			params["first_only"] = s.Rules.FirstOnly
			params["last_only"] = s.Rules.LastOnly
		}
		o.RunID, err = store.SaveRun(ctx, storage.RunRecord{Rule: s.Rule, Params: params}, res)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info("Run saved", zap.String("id", o.RunID), zap.String("db", s.DB))
	}

	return writeJSON(out, o)
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.LoadRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), run)
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d groups\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Rule, r.Groups)
		}
		return nil
	},
}

// openStore opens the run database named by --db or the configuration.
func openStore() (*storage.SQLiteStore, error) {
	path := dbPath
	if path == "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		path = cfg.Storage.DB
	}
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
