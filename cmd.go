package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blogem/time-tracker/config"
	"github.com/blogem/time-tracker/database"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/repositories"
	"github.com/blogem/time-tracker/services"
)

type rootFlags struct {
	port   string
	dbPath string
}

// loadConfig reads the environment and applies command-line overrides
func (f *rootFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = f.port
	}
	if cmd.Flags().Changed("db") {
		cfg.DatabasePath = f.dbPath
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	// root command
	rootCmd := &cobra.Command{
		Use:           "time-tracker",
		Short:         "Employee time tracking and attendance reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.port, "port", "8080", "HTTP port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "time_tracker.db", "SQLite database path (overrides DATABASE_PATH)")

	rootCmd.AddCommand(newServeCmd(flags))
	rootCmd.AddCommand(newMigrateCmd(flags))
	rootCmd.AddCommand(newReportCmd(flags))
	rootCmd.AddCommand(newAuditCmd(flags))

	return rootCmd
}

// command for running the web server
func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

// command for applying database migrations
func newMigrateCmd(flags *rootFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			pending, err := database.PendingMigrations(db)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "✅ Database is up to date")
				return nil
			}
			for _, m := range pending {
				fmt.Fprintf(cmd.OutOrStdout(), "pending: %s\n", m.Filename)
			}
			if dryRun {
				return nil
			}
			return database.RunMigrations(db)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only list pending migrations")

	return cmd
}

type reportFlags struct {
	employeeID string
	period     string
	date       string
	format     string
	out        string
}

// command for exporting an attendance report
func newReportCmd(flags *rootFlags) *cobra.Command {
	rf := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export an attendance report as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			return runReport(cmd.Context(), cfg, rf, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&rf.employeeID, "employee", "", "employee id (default all employees)")
	cmd.Flags().StringVar(&rf.period, "period", string(models.PeriodAll), "all, today, week or custom")
	cmd.Flags().StringVar(&rf.date, "date", "", "day for the custom period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rf.format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&rf.out, "out", "o", "", "output file, \"-\" for stdout (default attendance-report-<today>.<format>)")

	return cmd
}

func runReport(ctx context.Context, cfg *config.Config, rf *reportFlags, stdout io.Writer) error {
	format := strings.ToLower(rf.format)
	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("unknown format %q, want csv or xlsx", rf.format)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	pending, err := database.PendingMigrations(db)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return fmt.Errorf("database has %d pending migrations, run migrate first", len(pending))
	}

	repos := repositories.NewRepositories(db)
	reports := services.NewReportService(repos.TimeLogs, repos.Employees, cfg.Location)
	filter := models.ReportFilter{
		EmployeeID: rf.employeeID,
		Period:     models.Period(rf.period),
		Date:       rf.date,
	}

	out := rf.out
	if out == "" {
		out = reports.ExportFilename(format)
	}

	var w io.Writer = stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	var rows int
	if format == "xlsx" {
		rows, err = reports.WriteXLSX(ctx, filter, w)
	} else {
		rows, err = reports.WriteCSV(ctx, filter, w)
	}
	if err != nil {
		return err
	}

	if out != "-" {
		fmt.Fprintf(stdout, "📄 Wrote %d rows to %s\n", rows, out)
	}
	return nil
}

// command for listing recent mutations from the audit log
func newAuditCmd(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the most recent audited requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			return runAudit(cmd.Context(), cfg, limit, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")

	return cmd
}

func runAudit(ctx context.Context, cfg *config.Config, limit int, stdout io.Writer) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be positive")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := repositories.NewAuditRepository(db).GetRecent(ctx, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tUSER\tMETHOD\tPATH\tIP")
	for _, e := range entries {
		user := e.UserEmail
		if user == "" {
			user = models.Placeholder
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), user, e.Method, e.Path, e.IPAddress)
	}
	return tw.Flush()
}
