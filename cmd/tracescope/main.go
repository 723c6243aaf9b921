package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tracescope/tracescope/internal/viewer"
	"github.com/tracescope/tracescope/pkg/maxprocs"
	"github.com/tracescope/tracescope/pkg/must"
	"github.com/tracescope/tracescope/pkg/timeline"
	"github.com/tracescope/tracescope/pkg/tracefile"
	"github.com/tracescope/tracescope/pkg/xlog"
)

var (
	configPath string
	logLevel   string
	addr       string
	merged     bool
)

var rootCmd = &cobra.Command{
	Use:           "tracescope",
	Short:         "Execution-trace indexer and viewport query service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var infoCmd = &cobra.Command{
	Use:   "info <trace>",
	Short: "Build the index for a trace file and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		trace, err := tracefile.Open(args[0])
		if err != nil {
			return err
		}

		snap, err := timeline.Build(ctx, trace.Reader())
		if err != nil {
			return err
		}

		lanes := snap.Lanes
		if merged {
			lanes = snap.MergedLanes
		}

		fmt.Printf("command:      %s\n", snap.CommandLine)
		fmt.Printf("pid:          %d\n", snap.ProcessID)
		fmt.Printf("events:       %d\n", snap.EventCount)
		fmt.Printf("symbols:      %d\n", snap.Symbols.Len())
		fmt.Printf("duration:     %s\n", timeline.FormatDuration(timeline.TotalNs(snap.MinNs(), snap.MaxNs)))
		fmt.Printf("threads:      %d\n", len(snap.Lanes))
		fmt.Printf("lanes:        %d\n", len(lanes))
		for i, lane := range lanes {
			fmt.Printf("  lane %-3d threads=%v max_depth=%d levels=%d\n",
				i, lane.ThreadIDs(), lane.MaxDepth, len(lane.Levels))
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the viewer query API over HTTP",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		level, err := xlog.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger, err := xlog.TryNew(xlog.NewDeployLogger(level))
		if err != nil {
			return err
		}

		conf, err := viewer.ParseConfig(configPath)
		if err != nil {
			return err
		}
		if addr != "" {
			conf.Addr = addr
		}

		logger.Info(ctx, "Starting tracescope", zap.String("addr", conf.Addr))
		return viewer.NewViewer(conf, logger).Run(ctx)
	},
}

func init() {
	infoCmd.Flags().BoolVar(
		&merged,
		"merged",
		false,
		"Summarize the packed (merged) lane layout instead of one lane per thread",
	)

	serveCmd.Flags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to viewer service config",
	)
	must.Must(serveCmd.MarkFlagFilename("config"))

	serveCmd.Flags().StringVar(
		&logLevel,
		"log-level",
		"info",
		"Logging level - ('info') {'debug', 'info', 'warn', 'error'}",
	)

	serveCmd.Flags().StringVar(
		&addr,
		"addr",
		"",
		"Listen address, overrides the config value",
	)

	rootCmd.AddCommand(infoCmd, serveCmd)
}

func main() {
	maxprocs.Adjust()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
