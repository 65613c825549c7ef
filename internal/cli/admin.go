package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/auth"
	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/records"
)

// NewReportCmd prints the admin leaderboard.
func NewReportCmd(configPath *string) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print rankings, difficulty rates and learners in progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, b, _, err := openServices(ctx, *configPath)
			if err != nil {
				return err
			}
			defer b.Close()

			report, err := app.NewAdminService(b.results).Report(ctx, top)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().IntVar(&top, "top", app.DefaultRankingSize, "length of the top and bottom lists")
	return cmd
}

// NewExportCmd writes one record set as CSV.
func NewExportCmd(configPath *string) *cobra.Command {
	var set, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a record set (attempts, answers, progress) as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			recordSet, err := records.ParseSet(set)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			_, b, _, err := openServices(ctx, *configPath)
			if err != nil {
				return err
			}
			defer b.Close()

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}
			return app.NewAdminService(b.results).Export(ctx, recordSet, w)
		},
	}
	cmd.Flags().StringVar(&set, "set", string(records.SetAttempts), "record set to export")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout when empty)")
	return cmd
}

// NewClearCmd erases every stored record.
func NewClearCmd(configPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all attempts, answer logs and progress rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return domain.ErrClearNotConfirmed
			}
			ctx := cmd.Context()
			_, b, _, err := openServices(ctx, *configPath)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := app.NewAdminService(b.results).ClearAll(ctx, yes); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all results cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

// NewHashPasswordCmd prints a bcrypt hash for admin.pass_hash.
func NewHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Hash an admin password for the config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pass string
			if len(args) == 1 {
				pass = args[0]
			} else {
				line, ok := readLine(bufio.NewReader(cmd.InOrStdin()))
				if !ok || line == "" {
					return fmt.Errorf("password required")
				}
				pass = line
			}
			hash, err := auth.HashPassword(pass)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func printReport(out io.Writer, r domain.Report) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Generated %s UTC, %d learners\n\n", records.FormatTime(r.GeneratedAt), r.Learners)
	printRanking(w, "TOP", r.Top)
	printRanking(w, "BOTTOM", r.Bottom)

	fmt.Fprintln(w, "RECENT")
	fmt.Fprintln(w, "time\tname\tpoints\tpercent")
	for _, a := range r.Recent {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", records.FormatTime(a.Timestamp), a.StudentName, a.FinalPoints, a.PercentOfficial)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "DIFFICULTY")
	fmt.Fprintln(w, "level\tcorrect\ttotal\trate")
	for _, s := range r.Difficulty {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\n", s.Level, s.Correct, s.Total, s.Rate)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "IN PROGRESS")
	fmt.Fprintln(w, "name\tquestion\tpoints\tpercent\tupdated")
	for _, p := range r.InProgress {
		fmt.Fprintf(w, "%s\t%d/%d\t%d\t%.2f\t%s\n", p.StudentName, p.QuestionIndex, p.Total, p.FinalPoints, p.PercentLive, records.FormatTime(p.Timestamp))
	}
	return w.Flush()
}

func printRanking(w io.Writer, title string, rows []domain.RankedAttempt) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "#\tname\tpoints\tpercent\tstreak\twhen")
	for _, row := range rows {
		pos := fmt.Sprintf("%d", row.Position)
		if row.Medal != "" {
			pos = strings.TrimSpace(row.Medal + " " + pos)
		}
		a := row.Attempt
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%d\t%s\n", pos, a.StudentName, a.FinalPoints, a.PercentOfficial, a.MaxStreak, records.FormatTime(a.Timestamp))
	}
	fmt.Fprintln(w)
}
