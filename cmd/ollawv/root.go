package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ollawv/ollawvconfig"
)

var (
	cfgFile   string
	activeCfg ollawvconfig.Config
)

// NewRootCmd builds the ollawv command tree: train, classify, version.
// PersistentPreRunE loads configuration from flags/file/env exactly once,
// per CWBudde-go-pocket-tts's cmd/pockettts root command, then installs a
// JSON slog handler on stderr at Info level as the process-wide default. The
// level is fixed; no configuration option changes it.
func NewRootCmd() *cobra.Command {
	defaults := ollawvconfig.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "ollawv",
		Short: "Online kernel SVM training via the OLLAWV worst-violator rule",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := ollawvconfig.Load(ollawvconfig.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	ollawvconfig.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newTrainCmd())
	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func setupLogger(cfg ollawvconfig.Config) {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (ollawvconfig.Config, error) {
	if activeCfg.CacheSize == 0 {
		return ollawvconfig.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}
