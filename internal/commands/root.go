package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/releve/internal/buildinfo"
	"github.com/cleared-dev/releve/internal/config"
	"github.com/cleared-dev/releve/internal/extract"
	"github.com/cleared-dev/releve/internal/importer"
	"github.com/cleared-dev/releve/internal/logger"
)

// app carries state shared by every subcommand once the root has loaded
// configuration.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg      *config.Config
	registry *importer.Registry
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "releve",
		Short:   "Bank statement ingestion",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "path to the releve.yaml config")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (console or json)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newDetectCommand(a))
	rootCmd.AddCommand(newParseCommand(a))
	rootCmd.AddCommand(newImportCommand(a))
	rootCmd.AddCommand(newAccountsCommand(a))
	rootCmd.AddCommand(newExportCommand(a))

	return rootCmd
}

// setup loads .env and the config file, then puts a logger on the command
// context. A missing config file is fine unless --config was given.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(a.configPath)
	switch {
	case err == nil:
		cfg.ResolvePaths(filepath.Dir(a.configPath))
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
	default:
		return err
	}
	cfg.ApplyEnv()
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.registry = importer.DefaultRegistry(extract.NewSniffing())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx, log))
	return nil
}

// owner resolves the --owner flag against the config.
func (a *app) owner(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.cfg.Owner != "" {
		return a.cfg.Owner, nil
	}
	return "", errors.New("an owner is required (--owner, RELEVE_OWNER or owner in releve.yaml)")
}
