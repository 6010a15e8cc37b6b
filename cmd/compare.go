package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/courtsource/hooprank/internal/model"
)

var compareCmd = &cobra.Command{
	Use:   "compare <player-a> <season-a> <player-b> <season-b>",
	Short: "Compare two player seasons head to head",
	Long: `Rate two player seasons under the same profile and report the winner.
A failure on one side does not hide the other side's rating.

Examples:
  # Cross-era centers
  hooprank compare "Nikola Jokic" 2024 "Shaquille O'Neal" 2000

  # Same player, two seasons
  hooprank compare "Stephen Curry" 2016 "Stephen Curry" 2021 --profile qualified`,
	Args: cobra.ExactArgs(4),
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.String("profile", "", "scoring profile (default from config)")
	f.String("format", "table", "output format: table or json")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seasonA, err := strconv.Atoi(args[1])
	if err != nil {
		return eris.Errorf("season %q is not a number", args[1])
	}
	seasonB, err := strconv.Atoi(args[3])
	if err != nil {
		return eris.Errorf("season %q is not a number", args[3])
	}

	env, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	profile, _ := cmd.Flags().GetString("profile")
	cmp, err := env.Ratings.Compare(ctx, args[0], seasonA, args[2], seasonB, profileOrDefault(profile))
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cmp)
	case "table":
		return printComparison(cmp)
	default:
		return eris.Errorf("unknown format %q", format)
	}
}

func printComparison(cmp *model.Comparison) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\t%s (%d)\t%s (%d)\n", cmp.A.Player, cmp.A.Season, cmp.B.Player, cmp.B.Season)
	printSide := func(label string, pick func(*model.RatingResult) string) {
		a, b := "-", "-"
		if cmp.A.Result != nil {
			a = pick(cmp.A.Result)
		}
		if cmp.B.Result != nil {
			b = pick(cmp.B.Result)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", label, a, b)
	}
	printSide("Position", func(r *model.RatingResult) string { return string(r.Position) })
	printSide("Minutes", func(r *model.RatingResult) string { return fmt.Sprintf("%.1f", r.MinutesPlayed) })
	printSide("Offense", func(r *model.RatingResult) string { return fmt.Sprintf("%.3f", r.Offensive) })
	printSide("Defense", func(r *model.RatingResult) string { return fmt.Sprintf("%.3f", r.Defensive) })
	printSide("Rating", func(r *model.RatingResult) string { return fmt.Sprintf("%.3f", r.Composite) })
	if err := w.Flush(); err != nil {
		return err
	}

	if cmp.A.Err != "" {
		fmt.Printf("\n%s: %s\n", cmp.A.Player, cmp.A.Err)
	}
	if cmp.B.Err != "" {
		fmt.Printf("\n%s: %s\n", cmp.B.Player, cmp.B.Err)
	}

	switch cmp.Winner {
	case "a":
		fmt.Printf("\nWinner: %s (%d)\n", cmp.A.Player, cmp.A.Season)
	case "b":
		fmt.Printf("\nWinner: %s (%d)\n", cmp.B.Player, cmp.B.Season)
	case "tie":
		fmt.Println("\nDead even.")
	}
	return nil
}
