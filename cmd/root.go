package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wifibear/keybear/internal/config"
	"github.com/wifibear/keybear/internal/keygen"
	"github.com/wifibear/keybear/internal/result"
)

const banner = `
  _  __          ___
 | |/ /___ _  _ | _ ) ___  __ _  _ _
 | ' </ -_) || || _ \/ -_)/ _' || '_|
 |_|\_\___|\_, ||___/\___|\__,_||_|
           |__/
`

// cli carries state shared by every subcommand. It is filled in by the
// root command's PersistentPreRunE.
type cli struct {
	v       *viper.Viper
	cfgFile string

	cfg    *config.Config
	log    *zap.Logger
	engine *keygen.Engine
}

func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

// NewRootCmd builds the command tree. Each call returns an independent tree
// with its own viper instance.
func NewRootCmd(version string) *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "keybear",
		Short: "Router factory-default key recovery",
		Long:  banner + "\n  KeyBear v" + version + " - derive default WPA keys and WPS PINs from SSID and BSSID\n",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&c.cfgFile, "config", "c", "", "Config file (yaml, json or toml)")
	pf.StringP("format", "f", "text", "Output format: text, json or yaml")
	pf.Bool("psk", false, "Add the hex WPA PSK next to each passphrase")
	pf.String("history", "", "History file (empty string disables)")
	pf.IntP("workers", "w", 4, "Concurrent derivations for batch imports")
	pf.StringP("log-level", "v", "warn", "Log level: debug, info, warn or error")
	pf.String("log-format", "console", "Log format: console or json")

	for key, flag := range map[string]string{
		"output.format":  "format",
		"output.psk":     "psk",
		"output.history": "history",
		"batch.workers":  "workers",
		"logging.level":  "log-level",
		"logging.format": "log-format",
	} {
		_ = c.v.BindPFlag(key, pf.Lookup(flag))
	}

	// Subcommands
	rootCmd.AddCommand(deriveCmd(c))
	rootCmd.AddCommand(importCmd(c))
	rootCmd.AddCommand(algorithmsCmd(c))
	rootCmd.AddCommand(pinCmd())
	rootCmd.AddCommand(historyCmd(c))

	return rootCmd
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	engine, err := keygen.NewEngine()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	c.cfg = cfg
	c.log = log
	c.engine = engine
	c.log.Debug("configured",
		zap.String("config", c.cfgFile),
		zap.String("format", cfg.Output.Format),
		zap.Int("workers", cfg.Batch.Workers),
		zap.String("history", cfg.Output.History),
	)
	return nil
}

func (c *cli) outputFormat() (result.Format, error) {
	return result.ParseFormat(c.cfg.Output.Format)
}

// openStore returns the history store, or nil when history is disabled.
func (c *cli) openStore() (*result.Store, error) {
	if c.cfg.Output.History == "" {
		return nil, nil
	}
	store, err := result.NewStore(c.cfg.Output.History)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// remember saves reports to the history, logging instead of failing: the
// command's output has already been written.
func (c *cli) remember(reports ...result.Report) {
	store, err := c.openStore()
	if err != nil {
		c.log.Warn("history not saved", zap.Error(err))
		return
	}
	if store == nil {
		return
	}
	if err := store.Add(reports...); err != nil {
		c.log.Warn("history not saved", zap.String("path", c.cfg.Output.History), zap.Error(err))
	}
}
