package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cfgpkg "github.com/KaramelBytes/crocstat-cli/internal/config"
	"github.com/KaramelBytes/crocstat-cli/internal/dataset"
	"github.com/KaramelBytes/crocstat-cli/internal/menu"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Dataset flags (override config if set)
	flagData      string
	flagDelimiter string
	flagDecimal   string
	flagSheet     string

	// Loaded configuration
	cfg *cfgpkg.Global
)

// reportedError marks a failure whose message was already printed.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "crocstat",
	Short: "Crocstat: interactive analyzer for crocodile observation datasets",
	Long: `Crocstat loads a crocodile observation dataset (CSV, TSV or XLSX) and
offers a fixed catalog of descriptive analyses through an interactive menu,
one-shot commands and exportable reports.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		t, err := loadDataset(cmd, c)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return menu.Run(ctx, t, menu.Options{
			In:       cmd.InOrStdin(),
			Out:      cmd.OutOrStdout(),
			Analysis: c.AnalysisOptions(),
			Pause:    c.Pause,
		})
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var rep reportedError
		if !errors.As(err, &rep) {
			fmt.Fprintln(os.Stderr, "✗ Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(setupLogging, loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.crocstat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "dataset file (.csv, .tsv, .txt or .xlsx)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'tab'|'|' (default: auto)")
	rootCmd.PersistentFlags().StringVar(&flagDecimal, "decimal", "", "decimal separator: '.'|'comma' (default: auto)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX worksheet name (default: first sheet)")
}

func setupLogging() {
	log.SetHandler(cli.New(os.Stderr))
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults, flags still apply
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagData != "" {
		cfg.DatasetPath = flagData
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("decimal") {
		cfg.Decimal = flagDecimal
	}
	if f.Changed("sheet") {
		cfg.Sheet = flagSheet
	}
	if !cfg.Color {
		color.NoColor = true
	}
}

// settings returns the loaded config, or defaults when loading failed.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return cfgpkg.Defaults()
}

// loadOptions translates the configured separators into dataset options.
func loadOptions(c *cfgpkg.Global) (dataset.LoadOptions, error) {
	var opt dataset.LoadOptions
	switch strings.ToLower(strings.TrimSpace(c.Delimiter)) {
	case "":
	case ",", "comma":
		opt.Delimiter = ','
	case ";", "semicolon":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab'|'|')", c.Delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(c.Decimal)) {
	case "":
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	default:
		return opt, fmt.Errorf("unsupported decimal separator: %s (use '.'|'comma')", c.Decimal)
	}
	opt.Sheet = c.Sheet
	return opt, nil
}

// loadDataset loads the configured dataset, printing the outcome. Load
// failures are printed in full and returned as reportedError.
func loadDataset(cmd *cobra.Command, c *cfgpkg.Global) (*dataset.Table, error) {
	opt, err := loadOptions(c)
	if err != nil {
		return nil, err
	}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintln(out, "Carregando dados...")
	t, err := dataset.Load(c.DatasetPath, opt)
	if err != nil {
		if errors.Is(err, dataset.ErrFileNotFound) {
			fmt.Fprintf(errOut, "Erro: Arquivo %s não encontrado!\n", c.DatasetPath)
		} else {
			fmt.Fprintf(errOut, "Erro ao carregar dados: %v\n", err)
		}
		return nil, reportedError{err}
	}
	fmt.Fprintf(out, "Dataset carregado com sucesso! %d observações encontradas.\n", t.Len())
	return t, nil
}
