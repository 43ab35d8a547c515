package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgMagenta, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

var (
	cfgFile  string
	noColor  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "launchctl",
	Short: "Run and watch declarative launch descriptions",
	Long: `launchctl drives a launch description: a tree of processes, event
handlers and groups described in YAML, executed by a single-threaded
event loop until every process has exited or a shutdown is requested.

  launchctl run my_launch.yaml
  launchctl watch my_launch.yaml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || cmd.Flags().Changed("no-color") {
			color.NoColor = noColor
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (none is read when unset)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LAUNCH_LOG_LEVEL (debug, info, warn, error)")

	viper.SetEnvPrefix("LAUNCH")
	viper.AutomaticEnv()

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func initViper() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		_ = viper.ReadInConfig()
	}
}
