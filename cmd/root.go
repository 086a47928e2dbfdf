package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	evictCmd "github.com/icesnap/icesnap/cmd/evict"
	"github.com/icesnap/icesnap/cmd/util"
	versionCmd "github.com/icesnap/icesnap/cmd/version"
	"github.com/icesnap/icesnap/pkg/cloud"
	"github.com/icesnap/icesnap/pkg/config"
	"github.com/icesnap/icesnap/pkg/snapshot"
)

type rootFlags struct {
	timecodeSnapshot  bool
	overwriteFiles    bool
	evictFiles        bool
	skipSnapshotFiles bool
	debug             bool
	configPath        string
	provider          string
}

// Execute runs the main CLI process.
func Execute() {
	log.SetFormatter(util.Formatter{})

	var flags rootFlags
	rootCmd := &cobra.Command{
		Use:   "icesnap <source_dir> <dest_dir>",
		Short: "Snapshot a directory tree whose files may live in remote storage.",
		Long: "icesnap mirrors a source tree into a destination tree. Files that\n" +
			"exist only as remote placeholders are materialized first, copied,\n" +
			"and then released so the snapshot doesn't inflate local disk usage.",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
		Run: func(_ *cobra.Command, args []string) {
			if flags.debug {
				log.SetLevel(log.DebugLevel)
			}
			if err := run(args[0], args[1], flags); err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	rootCmd.Flags().BoolVar(&flags.timecodeSnapshot, "timecode-snapshot", false,
		"place the snapshot in a timestamped subdirectory of the destination")
	rootCmd.Flags().BoolVar(&flags.overwriteFiles, "overwrite-files", false,
		"overwrite destination files that already exist")
	rootCmd.Flags().BoolVar(&flags.evictFiles, "evict-files", false,
		"release materialized files under the source tree before snapshotting")
	rootCmd.Flags().BoolVar(&flags.skipSnapshotFiles, "skip-snapshot-files", false,
		"skip the snapshot phase")
	rootCmd.Flags().BoolVar(&flags.debug, "debug", false,
		"enable debug logging")
	rootCmd.Flags().StringVar(&flags.configPath, "config", config.DefaultPath,
		"path to the icesnap config file")
	rootCmd.Flags().StringVar(&flags.provider, "provider", "",
		"remote storage provider (auto, brctl, or local)")

	rootCmd.AddCommand(
		evictCmd.New(),
		versionCmd.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

func run(source, dest string, flags rootFlags) error {
	cfg, err := config.Parse(flags.configPath)
	if err != nil {
		return err
	}

	providerName := flags.provider
	if providerName == "" {
		providerName = cfg.Provider
	}
	convention := cfg.GetConvention()
	provider, err := cloud.Select(providerName, convention)
	if err != nil {
		return err
	}

	pollInterval, err := cfg.GetPollInterval()
	if err != nil {
		return err
	}
	waitTimeout, err := cfg.GetWaitTimeout()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	_, err = snapshot.Run(ctx, snapshot.Options{
		Source:           source,
		Dest:             dest,
		TimecodeSnapshot: flags.timecodeSnapshot,
		Overwrite:        flags.overwriteFiles,
		EvictFiles:       flags.evictFiles,
		SkipSnapshot:     flags.skipSnapshotFiles,
		Provider:         provider,
		Convention:       convention,
		PollInterval:     pollInterval,
		WaitTimeout:      waitTimeout,
	})
	return err
}
