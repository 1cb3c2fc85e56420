package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/prissleague/internal/app"
	"github.com/riskibarqy/prissleague/internal/config"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
	"github.com/riskibarqy/prissleague/internal/usecase"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

const (
	cmdCleanupInactive     = "cleanup-inactive"
	cmdBackfillAuthUsers   = "backfill-auth-users"
	cmdRestoreDisplayNames = "restore-display-names"
)

var errUsage = errors.New("usage")

type invocation struct {
	command string
	dryRun  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	inv, err := parseArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
		}
		printUsage(stderr)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return exitFatal
	}

	logger := logging.NewJSONWriter(stderr, cfg.LogLevel).Named("maintenance")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	db, err := app.OpenDB(ctx, cfg, logger)
	if err != nil {
		logger.Error("open database", "error", err)
		return exitFatal
	}
	defer func() { _ = db.Close() }()

	// maintenance writes must not be shadowed by stale reads
	cfg.CacheEnabled = false
	svc, err := app.NewMaintenanceService(cfg, app.NewRepositories(cfg, db), inv.command == cmdBackfillAuthUsers, logger)
	if err != nil {
		logger.Error("build maintenance service", "error", err)
		return exitFatal
	}

	result, err := execute(ctx, svc, cfg, inv)
	if err != nil {
		logger.Error("maintenance command failed", "command", inv.command, "error", err)
		return exitFatal
	}

	out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		return exitFatal
	}
	fmt.Fprintln(stdout, string(out))
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (invocation, error) {
	if len(args) == 0 {
		return invocation{}, errUsage
	}

	inv := invocation{command: args[0]}
	switch inv.command {
	case cmdCleanupInactive, cmdBackfillAuthUsers, cmdRestoreDisplayNames:
	default:
		return invocation{}, fmt.Errorf("unknown command %q", inv.command)
	}

	fs := flag.NewFlagSet(inv.command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&inv.dryRun, "dry-run", false, "report what would change without writing")
	if err := fs.Parse(args[1:]); err != nil {
		return invocation{}, errUsage
	}
	if fs.NArg() > 0 {
		return invocation{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return inv, nil
}

func execute(ctx context.Context, svc *usecase.MaintenanceService, cfg config.Config, inv invocation) (any, error) {
	switch inv.command {
	case cmdCleanupInactive:
		return svc.CleanupInactive(ctx, usecase.CleanupInput{
			InactivityDays: cfg.CleanupInactivityDays,
			DryRun:         inv.dryRun,
		})
	case cmdBackfillAuthUsers:
		return svc.BackfillAuthUsers(ctx, usecase.BackfillInput{
			PageSize: cfg.AuthBackfillPageSize,
			DryRun:   inv.dryRun,
		})
	case cmdRestoreDisplayNames:
		return svc.RestoreDisplayNames(ctx, usecase.RestoreInput{
			MatchLimit: cfg.RestoreMatchLimit,
			DryRun:     inv.dryRun,
		})
	default:
		return nil, fmt.Errorf("unknown command %q", inv.command)
	}
}

func printUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s <%s|%s|%s> [-dry-run]\n", name, cmdCleanupInactive, cmdBackfillAuthUsers, cmdRestoreDisplayNames)
	fmt.Fprintln(w, "examples:")
	fmt.Fprintf(w, "  %s %s -dry-run\n", name, cmdCleanupInactive)
	fmt.Fprintf(w, "  %s %s\n", name, cmdBackfillAuthUsers)
	fmt.Fprintf(w, "  %s %s\n", name, cmdRestoreDisplayNames)
}
