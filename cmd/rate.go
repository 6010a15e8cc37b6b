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
)

var rateCmd = &cobra.Command{
	Use:   "rate <player> <season>",
	Short: "Rate a single player season",
	Long: `Fetch the per-100-possessions and advanced tables for a season,
build position-peer baselines, and print the player's adjusted rating.

Examples:
  # Jokic's 2024 season with the default profile
  hooprank rate "Nikola Jokic" 2024

  # Same season through the qualified profile
  hooprank rate "Nikola Jokic" 2024 --profile qualified

  # Machine-readable output
  hooprank rate "Stephen Curry" 2016 --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runRate,
}

func init() {
	f := rateCmd.Flags()
	f.String("profile", "", "scoring profile (default from config)")
	f.String("format", "table", "output format: table or json")

	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	player := args[0]
	season, err := strconv.Atoi(args[1])
	if err != nil {
		return eris.Errorf("season %q is not a number", args[1])
	}

	env, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	profile, _ := cmd.Flags().GetString("profile")
	result, err := env.Ratings.Rate(ctx, player, season, profileOrDefault(profile))
	if err != nil {
		return err
	}

	rounded := result.Rounded()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rounded)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Player\t%s\n", rounded.Player)
		fmt.Fprintf(w, "Season\t%d\n", rounded.Season)
		fmt.Fprintf(w, "Position\t%s\n", rounded.Position)
		fmt.Fprintf(w, "Minutes\t%.1f\n", rounded.MinutesPlayed)
		fmt.Fprintf(w, "Offense\t%.3f\n", rounded.Offensive)
		fmt.Fprintf(w, "Defense\t%.3f\n", rounded.Defensive)
		fmt.Fprintf(w, "Rating\t%.3f\n", rounded.Composite)
		return w.Flush()
	default:
		return eris.Errorf("unknown format %q", format)
	}
}
