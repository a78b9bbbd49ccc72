package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/releve/internal/config"
	"github.com/cleared-dev/releve/internal/importer"
	"github.com/cleared-dev/releve/internal/importlog"
	"github.com/cleared-dev/releve/internal/logger"
	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/reconcile"
)

type importOptions struct {
	owner   string
	dryRun  bool
	archive bool
	workers int
	timeout time.Duration
}

// statementFile is one file to import. Dir is set when the file was found
// by scanning a directory, so it can be archived there.
type statementFile struct {
	importer.FileInfo
	Dir string
}

func newImportCommand(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file or directory>...",
		Short: "Parse statements and store their transactions without duplicates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := a.owner(opts.owner)
			if err != nil {
				return err
			}
			cfg := *a.cfg
			cfg.Owner = owner
			if opts.workers > 0 {
				cfg.Import.Workers = opts.workers
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Import.Timeout = opts.timeout
			}
			if opts.dryRun {
				cfg.Store.Driver = config.DriverMemory
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), a.registry, &cfg, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.owner, "owner", "", "owner the transactions belong to")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and reconcile in memory without persisting anything")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "move imported files from scanned directories to processed/")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "statements parsed in parallel (default from config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-statement parse timeout (default from config)")

	return cmd
}

func collectFiles(args []string) ([]statementFile, error) {
	var files []statementFile
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, statementFile{FileInfo: importer.FileInfo{
				Name: filepath.Base(arg),
				Path: arg,
				Size: info.Size(),
				Kind: importer.KindFor(arg),
			}})
			continue
		}
		found, err := importer.Scan(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			files = append(files, statementFile{FileInfo: f, Dir: arg})
		}
	}
	return files, nil
}

// parseAll parses files concurrently, bounded by workers. Results keep the
// order of files.
func parseAll(ctx context.Context, reg *importer.Registry, files []statementFile, workers int, timeout time.Duration) ([]model.Result, error) {
	results := make([]model.Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			pctx := gctx
			if timeout > 0 {
				var cancel context.CancelFunc
				pctx, cancel = context.WithTimeout(gctx, timeout)
				defer cancel()
			}
			in, err := readInput(f.Path, f.Kind)
			if err != nil {
				results[i] = model.Result{Error: err.Error(), Err: err}
				return nil
			}
			results[i] = reg.Parse(pctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

func runImport(ctx context.Context, out io.Writer, reg *importer.Registry, cfg *config.Config, opts importOptions, args []string) error {
	log := logger.FromContext(ctx)

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statements found")
		return nil
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	results, err := parseAll(ctx, reg, files, cfg.Import.Workers, cfg.Import.Timeout)
	if err != nil {
		return err
	}

	rec := reconcile.New(st)
	entries := make([]importlog.Entry, 0, len(files))
	failed := 0
	for i, f := range files {
		entry, err := reconcileOne(ctx, rec, cfg.Owner, f, results[i])
		entries = append(entries, entry)
		if err != nil {
			failed++
			log.Warn().Err(err).Str("file", f.Name).Msg("statement not imported")
			fmt.Fprintf(out, "%s\tFAILED\t%v\n", f.Name, err)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\tinserted=%d duplicates=%d skipped=%d\n",
			f.Name, entry.BankID, entry.Inserted, entry.Duplicates, entry.Skipped)

		if opts.archive && f.Dir != "" && !opts.dryRun {
			if err := importer.MarkProcessed(f.Dir, f.Name); err != nil {
				log.Warn().Err(err).Str("file", f.Name).Msg("could not archive statement")
			}
		}
	}

	if !opts.dryRun {
		if err := importlog.Append(cfg.Import.LogDir, entries); err != nil {
			log.Warn().Err(err).Msg("failed to write import log")
		}
	}
	logSummary(log, entries)

	if failed > 0 {
		return fmt.Errorf("%d of %d statements failed", failed, len(files))
	}
	return nil
}

func reconcileOne(ctx context.Context, rec *reconcile.Reconciler, owner string, f statementFile, res model.Result) (importlog.Entry, error) {
	entry := importlog.Entry{
		Timestamp: time.Now().UTC(),
		Owner:     owner,
		File:      f.Name,
		BankID:    res.BankID,
		Skipped:   res.Skipped + res.Incomplete,
	}
	if !res.Success {
		entry.Error = res.Error
		return entry, res.Err
	}

	o, err := rec.Reconcile(ctx, owner, res.BankID, res.Accounts, res.Transactions)
	if err != nil {
		entry.Error = err.Error()
		return entry, err
	}
	entry.Inserted = o.Inserted
	entry.Duplicates = o.Duplicates
	return entry, nil
}

func logSummary(log zerolog.Logger, entries []importlog.Entry) {
	var inserted, duplicates int
	for _, e := range entries {
		inserted += e.Inserted
		duplicates += e.Duplicates
	}
	log.Info().
		Int("statements", len(entries)).
		Int("inserted", inserted).
		Int("duplicates", duplicates).
		Msg("import finished")
}
