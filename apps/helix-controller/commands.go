package main

import (
	"fmt"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/apps/helix-controller/command"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	command.BoolConfig(rootCmd, "debug", "d", false, "enable debug mode")
	command.BindClusterFlags(rootCmd)

	rootCmd.AddCommand(command.RunCmd)
	rootCmd.AddCommand(command.RebalanceCmd)
}

var rootCmd = &cobra.Command{
	Use:     "helix-controller",
	Short:   "Helix controller computing ideal states with pluggable rebalancers.",
	Version: fmt.Sprintf("%s %s", helix.Ver, helix.BuildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("debug") {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	},
	SilenceUsage: true,
}
