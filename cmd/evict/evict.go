package evict

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/icesnap/icesnap/cmd/util"
	"github.com/icesnap/icesnap/pkg/cloud"
	"github.com/icesnap/icesnap/pkg/config"
	"github.com/icesnap/icesnap/pkg/errors"
	"github.com/icesnap/icesnap/pkg/snapshot"
)

// New creates a new `evict` command.
func New() *cobra.Command {
	var configPath, provider string
	var debug bool

	cmd := &cobra.Command{
		Use:   "evict <dir>",
		Short: "Release the materialized local copies under a directory.",
		Long: "Walk the directory and release every file that's both\n" +
			"remote-backed and fully downloaded, reclaiming local disk space.\n" +
			"Files that aren't materialized are left alone.",
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if debug {
				log.SetLevel(log.DebugLevel)
			}
			if err := run(args[0], configPath, provider); err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath,
		"path to the icesnap config file")
	cmd.Flags().StringVar(&provider, "provider", "",
		"remote storage provider (auto, brctl, or local)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func run(dir, configPath, providerName string) error {
	cfg, err := config.Parse(configPath)
	if err != nil {
		return err
	}

	if providerName == "" {
		providerName = cfg.Provider
	}
	provider, err := cloud.Select(providerName, cfg.GetConvention())
	if err != nil {
		return err
	}

	expanded, err := homedir.Expand(dir)
	if err != nil {
		return errors.WithContext(err, "expand path")
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.WithField("dir", expanded).Info("Evicting local copies")
	evictor := snapshot.NewEvictor(provider, provider)
	if err := evictor.Evict(ctx, expanded); err != nil {
		return errors.WithContext(err, "evict")
	}
	return nil
}
