package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/releve/internal/config"
	"github.com/cleared-dev/releve/internal/seal"
)

func newInitCommand() *cobra.Command {
	var owner string
	var driver string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a releve workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			path, err := runInit(absDir, owner, driver, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized releve workspace at %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "default owner for imports")
	cmd.Flags().StringVar(&driver, "driver", config.DriverSQLite, "store driver (sqlite or memory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing releve.yaml")

	return cmd
}

func runInit(dir, owner, driver string, force bool) (string, error) {
	cfg := config.Default()
	cfg.Owner = owner
	cfg.Store.Driver = driver

	key, err := seal.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generating label key: %w", err)
	}
	cfg.Store.LabelKey = key

	if err := cfg.Validate(); err != nil {
		return "", err
	}

	for _, d := range []string{cfg.Import.LogDir, "statements"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	gitignore := "*.db\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	return path, nil
}
