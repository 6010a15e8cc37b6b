package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "Manage cached season snapshots",
}

var seasonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached seasons",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Store == nil {
			return eris.New("no store configured")
		}

		infos, err := env.Store.ListSeasons(ctx)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No cached seasons.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SEASON\tPLAYERS\tFETCHED\tEXPIRES")
		for _, info := range infos {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n",
				info.Season,
				info.Players,
				info.FetchedAt.Format("2006-01-02 15:04"),
				info.ExpiresAt.Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}

var seasonsPurgeCmd = &cobra.Command{
	Use:   "purge <season>",
	Short: "Drop a cached season so the next request refetches it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		season, err := strconv.Atoi(args[0])
		if err != nil {
			return eris.Errorf("season %q is not a number", args[0])
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Ratings.Invalidate(ctx, season); err != nil {
			return err
		}
		zap.L().Info("season purged", zap.Int("season", season))
		fmt.Printf("Purged %d.\n", season)
		return nil
	},
}

var seasonsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired season snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Store == nil {
			return eris.New("no store configured")
		}

		n, err := env.Store.DeleteExpiredSnapshots(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d expired snapshot(s).\n", n)
		return nil
	},
}

func init() {
	seasonsCmd.AddCommand(seasonsListCmd)
	seasonsCmd.AddCommand(seasonsPurgeCmd)
	seasonsCmd.AddCommand(seasonsPruneCmd)
	rootCmd.AddCommand(seasonsCmd)
}
