package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mogaika/levelport/config"
	"github.com/mogaika/levelport/status"
	"github.com/mogaika/levelport/utils"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "levelport",
	Short: "Transplant level objects between container versions",
	Long: `levelport moves static meshes, placeable props, terrain fragments,
bounding volumes, textures and lights from one level container into another,
repairing model id collisions and regenerating the engine index tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// env is what every command needs before touching a container.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	status *status.Stream
}

func setup() (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.SetEncoding(cfg.Merge.Encoding); err != nil {
		return nil, err
	}
	log, err := utils.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &env{cfg: cfg, log: log, status: status.New(os.Stderr)}, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		l, logErr := utils.NewLogger(config.LogConfig{Level: "info", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
