package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"gqaudit/adapters/geometry"
	"gqaudit/adapters/postgres"
	"gqaudit/adapters/report"
	"gqaudit/adapters/rng"
	"gqaudit/app"
	"gqaudit/domain/audit"
	"gqaudit/domain/core"
	"gqaudit/internal"
	"gqaudit/internal/config"
	"gqaudit/ports"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gqaudit",
		Short: "Baseline audit suite for symbolic expression searches over finite-geometry invariants",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newCalibrateCmd(),
		newVerifyCmd(),
		newStructuresCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var base string
	var geometryKey string
	var seed int64
	var depth, pool int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Enumerate the expression pool for the real base set and score it against the targets",
		Long: `Run a single real-set audit: enumerate the bounded expression pool,
score every distinct value against the physical-constant targets, and
write the report artifacts.

Example: gqaudit run --base 15,15,1440 --seed 42 --depth 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg, base, geometryKey, seed, depth, pool)

			svc, cleanup, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			result, paths, err := svc.RunAudit(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("audit run failed: %w", err)
			}

			fmt.Printf("run %s complete\n", result.RunID)
			fmt.Printf("  base set:    %s\n", result.BaseSet)
			fmt.Printf("  pool size:   %d\n", result.PoolSize)
			fmt.Printf("  fingerprint: %s\n", result.Fingerprint)
			for _, fit := range result.Fits {
				if fit.Defined && fit.Best != nil {
					fmt.Printf("  %-28s %s = %.10g (%.4f%% error)\n",
						fit.Target.Name, fit.Best.ExpressionText, fit.Best.Value, fit.Best.PercentError)
				} else {
					fmt.Printf("  %-28s undefined (empty pool)\n", fit.Target.Name)
				}
			}
			for _, p := range paths {
				fmt.Printf("  wrote %s\n", p)
			}
			return nil
		},
	}

	addRunFlags(cmd, &base, &geometryKey, &seed, &depth, &pool)
	return cmd
}

func newCalibrateCmd() *cobra.Command {
	var base string
	var geometryKey string
	var seed int64
	var depth, pool int
	var trials, workers int
	var policy string

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Run null-model calibration against shape-matched random base sets",
		Long: `Run the audit pipeline for the real base set plus N null trials over
randomly sampled base sets of the same shape, then report empirical
p-values and null quantiles.

Example: gqaudit calibrate --base 15,15,1440 --trials 200 --policy uniform-int`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg, base, geometryKey, seed, depth, pool)
			if cmd.Flags().Changed("trials") {
				cfg.Calibration.TrialCount = trials
			}
			if cmd.Flags().Changed("policy") {
				cfg.Calibration.NullPolicy = policy
			}
			if cmd.Flags().Changed("workers") {
				cfg.Calibration.Workers = workers
			}

			svc, cleanup, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			result, paths, err := svc.RunCalibration(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("calibration failed: %w", err)
			}

			fmt.Printf("calibration %s complete (%d trials, policy=%s)\n",
				result.RunID, result.TrialCount, result.NullPolicy)
			fmt.Printf("  fingerprint: %s\n", result.Fingerprint)
			for _, tc := range result.Targets {
				if !tc.RealDefined {
					fmt.Printf("  %-28s real fit undefined, p = 1\n", tc.Target.Name)
					continue
				}
				fmt.Printf("  %-28s real best %.4f%%  null median %.4f%%  p(best) %s  CI [%.4f, %.4f]\n",
					tc.Target.Name, tc.RealBestError, tc.NullBestError.P50,
					tc.PBest.Display(), tc.PBestConfidence.Lower, tc.PBestConfidence.Upper)
			}
			for _, caveat := range result.Caveats {
				fmt.Printf("  note: %s\n", caveat)
			}
			for _, p := range paths {
				fmt.Printf("  wrote %s\n", p)
			}
			return nil
		},
	}

	addRunFlags(cmd, &base, &geometryKey, &seed, &depth, &pool)
	cmd.Flags().IntVar(&trials, "trials", 200, "Number of null trials")
	cmd.Flags().StringVar(&policy, "policy", config.PolicyUniformInt, "Null sampling policy: uniform-int|magnitude-bucket")
	cmd.Flags().IntVar(&workers, "workers", 4, "Parallel trial workers (results are identical for any count)")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var base string
	var geometryKey string
	var seed int64
	var depth, pool int

	cmd := &cobra.Command{
		Use:   "verify <run.json>",
		Short: "Replay a recorded run and check it reproduces bit-identically",
		Long: `Re-enumerate the expression pool from the inputs recorded in a run's
JSON artifact and compare seed, configuration fingerprint, and pool
hash against the record.

Example: gqaudit verify reports/run_0198.json --base 7,40,24`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg, base, geometryKey, seed, depth, pool)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read run artifact: %w", err)
			}
			var rec audit.RunReport
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("failed to decode run artifact: %w", err)
			}

			svc, cleanup, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.VerifyReplay(cmd.Context(), cfg, &rec); err != nil {
				if core.IsDeterminismError(err) {
					return fmt.Errorf("replay diverged: %w", err)
				}
				return err
			}
			fmt.Printf("run %s replays bit-identically (pool hash %s)\n", rec.RunID, rec.PoolHash)
			return nil
		},
	}

	addRunFlags(cmd, &base, &geometryKey, &seed, &depth, &pool)
	return cmd
}

func newStructuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "structures",
		Short: "List the built-in finite-geometry structures and their invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := geometry.NewCatalog()
			keys, err := catalog.Structures(cmd.Context())
			if err != nil {
				return err
			}
			for _, key := range keys {
				values, err := catalog.Invariants(cmd.Context(), key)
				if err != nil {
					return err
				}
				fmt.Printf("%-10s %v\n", key, values)
			}
			return nil
		},
	}
}

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent archived runs (requires DATABASE_URL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Archive.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set; the run archive is disabled")
			}

			db, err := sqlx.Connect("postgres", cfg.Archive.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to archive database: %w", err)
			}
			defer db.Close()

			repo := postgres.NewRunRepository(db)
			records, err := repo.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Printf("%s  %-11s  %-6s  %-24s  seed=%d  %s\n",
					r.CreatedAt, r.Kind, r.Mode, r.BaseSet, r.Seed, r.RunID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to list")
	return cmd
}

func addRunFlags(cmd *cobra.Command, base, geometryKey *string, seed *int64, depth, pool *int) {
	cmd.Flags().StringVar(base, "base", "", "Comma-separated base constants, e.g. 15,15,1440")
	cmd.Flags().StringVar(geometryKey, "geometry", "", "Structure key from the invariant catalog, e.g. GQ(2,2)")
	cmd.Flags().Int64Var(seed, "seed", 42, "Random seed for deterministic operations")
	cmd.Flags().IntVar(depth, "depth", 3, "Maximum expression nesting depth")
	cmd.Flags().IntVar(pool, "pool", 20000, "Maximum distinct values in the pool")
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config, base, geometryKey string, seed int64, depth, pool int) {
	if cmd.Flags().Changed("base") {
		cfg.Run.BaseSpec = base
		cfg.Run.Geometry = ""
	}
	if cmd.Flags().Changed("geometry") {
		cfg.Run.Geometry = geometryKey
		cfg.Run.BaseSpec = ""
	}
	if cmd.Flags().Changed("seed") {
		cfg.Run.Seed = seed
	}
	if cmd.Flags().Changed("depth") {
		cfg.Run.MaxDepth = depth
	}
	if cmd.Flags().Changed("pool") {
		cfg.Run.MaxPool = pool
	}
}

// buildService wires the real adapters. The archive repository is only
// attached when DATABASE_URL is configured.
func buildService(ctx context.Context, cfg *config.Config) (*app.AuditService, func(), error) {
	logger := internal.DefaultLogger
	sink := report.NewFileSink(cfg.Output.Dir, cfg.Output.WriteXLSX, logger)

	var archive ports.RunRepository
	cleanup := func() {}
	if cfg.Archive.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", cfg.Archive.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to archive database: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		archive = postgres.NewRunRepository(db)
		cleanup = func() { db.Close() }
	}

	svc := app.NewAuditService(
		rng.New(),
		sink,
		geometry.NewCatalog(),
		archive,
		logger,
		cfg.Calibration.Workers,
	)
	return svc, cleanup, nil
}
