package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is reported by -v and shown in the empty container's title.
var Version = "0.1"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "focustabs [flags] [command ...]",
		Short: "FocusTabs - tabbed XEmbed container",
		Long: `FocusTabs is a window container that embeds XEmbed-capable clients as tabs.

The trailing command is started with the container's window id appended, or
in place of argument N with -r N. Every client also sees the id in $XEMBED.
The container's window id is printed to stdout once it exists.

Features:
  • Tab bar with urgency highlighting and scrolling
  • Keyboard control with configurable bindings
  • Remote tab selection through a window property
  • Optional control socket (focustabs ctl)
  • Persistent configuration`,
		Example: `  # Tab st instances
  focustabs -r 2 st -w ''

  # Tab surf windows, closing the container with the last tab
  focustabs -c surf -e

  # Detach and keep the window id for later
  id=$(focustabs -d surf -e)`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTabs,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/focustabs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	// The client command's own flags must not be parsed as ours.
	rootCmd.Flags().SetInterspersed(false)
	addRunFlags(rootCmd)

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("FOCUSTABS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "focustabs: %v\n", err)
		os.Exit(1)
	}
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}
