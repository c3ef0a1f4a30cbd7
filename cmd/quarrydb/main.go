// Command quarrydb is the embedded engine's standalone front end: it opens
// a database directory and either runs a single statement, drops into an
// interactive shell, or serves /metrics while holding the database open
// (its directory lock keeps every other process out), following the same
// cobra root-command-plus-subcommands shape cuemby-warren's cmd/warren
// binary uses.
package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"quarrydb/internal/config"
	"quarrydb/internal/engine"
	"quarrydb/internal/iface"
	"quarrydb/internal/logging"
	"quarrydb/internal/metrics"
	"quarrydb/internal/plan"
	"quarrydb/internal/storage/tx"
)

var (
	dbDir      string
	configPath string
	logLevel   string
	logJSON    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quarrydb",
	Short: "quarrydb - an embedded SQL storage and execution engine",
	Long: `quarrydb is a relational database stored in one directory: paged disk I/O, a
write-ahead log, strict two-phase locking, undo-only recovery, heap
records, hash and B-tree indexes, and a small SQL dialect, all reachable
either as a Go library (database/sql driver "quarrydb") or through this
CLI.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDir, "db", "", "database directory (overrides --config's dbDirectory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config resource")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output logs in JSON format")

	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the engine configuration from --config (if given),
// falling back to Default(), then applies the --db/--log-level/--log-json
// overrides on top.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if dbDir != "" {
		cfg.DBDirectory = dbDir
	}
	cfg.LogLevel = logLevel
	cfg.JSONLogs = logJSON
	return cfg, nil
}

var execCmd = &cobra.Command{
	Use:   "exec SQL",
	Short: "Run a single SQL statement against the database",
	Long: `Run one statement and exit. SELECT statements print their result
set; INSERT/DELETE/UPDATE/CREATE statements print the number of affected
rows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := engine.Open(cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer eng.Close()

		t, err := eng.NewTx()
		if err != nil {
			return fmt.Errorf("start transaction: %w", err)
		}
		if err := runStatement(eng.Planner(), t, args[0], os.Stdout); err != nil {
			_ = t.Rollback()
			return err
		}
		return t.Commit()
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive SQL shell against the database",
	Long: `Read statements from stdin, one per line, each run and committed
as its own autocommit transaction; EOF ends the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := engine.Open(cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer eng.Close()

		fmt.Println("quarrydb shell. One statement per line; Ctrl+D to quit.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("quarrydb> ")
			if !scanner.Scan() {
				break
			}
			stmt := strings.TrimSpace(scanner.Text())
			if stmt == "" {
				continue
			}

			t, err := eng.NewTx()
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			if err := runStatement(eng.Planner(), t, stmt, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				_ = t.Rollback()
				continue
			}
			if err := t.Commit(); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		fmt.Println()
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Open the database and serve its Prometheus metrics",
	Long: `Open the database, holding its directory lock so no other process
can open it, and block, serving /metrics on --metrics-addr until the
process is killed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		if metricsAddr != "" {
			cfg.MetricsAddr = metricsAddr
		}
		if cfg.MetricsAddr == "" {
			cfg.MetricsAddr = "127.0.0.1:9090"
		}

		eng, err := engine.Open(cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer eng.Close()

		log := logging.Component("cmd")
		log.Info().Str("addr", cfg.MetricsAddr).Str("db", cfg.DBDirectory).Msg("serving metrics")

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		return http.ListenAndServe(cfg.MetricsAddr, mux)
	},
}

func init() {
	serveCmd.Flags().String("metrics-addr", "", "address to serve /metrics on (overrides config's metricsAddr)")
}

// runStatement classifies stmt as a query or an update by its leading
// keyword, runs it through p, and prints the result to w.
func runStatement(p *plan.Planner, t *tx.Transaction, stmt string, w io.Writer) error {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(stmt)), "select") {
		plan, err := p.CreateQueryPlan(stmt, t)
		if err != nil {
			return err
		}
		return printRows(plan, w)
	}

	n, err := p.ExecuteUpdate(stmt, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d row(s) affected\n", n)
	return nil
}

// printRows opens plan's scan and writes its result set as a simple
// whitespace-separated table with a header row.
func printRows(p iface.Plan, w io.Writer) error {
	scan, err := p.Open()
	if err != nil {
		return err
	}
	defer scan.Close()

	fields := p.Schema().Fields()
	fmt.Fprintln(w, strings.Join(fields, "\t"))

	if err := scan.BeforeFirst(); err != nil {
		return err
	}
	for scan.Next() {
		values := make([]string, len(fields))
		for i, f := range fields {
			val, err := scan.GetVal(f)
			if err != nil {
				return err
			}
			values[i] = val.String()
		}
		fmt.Fprintln(w, strings.Join(values, "\t"))
	}
	return nil
}
