package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// @title                       Production Advisor API
// @version                     1.0
// @description                 Ranked idle, overload and urgency recommendations for a production plan.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := newRootCmd(newViper()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Every subcommand sees v after the config file is read.
func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "production-advisor",
		Short:         "Ranked recommendations for a manufacturing production plan",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfigFile(v, cfgPath); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "config file (default configs/config.yml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	if err := bindFlags(v, flags, map[string]string{"log-level": "log.level"}); err != nil {
		panic(err)
	}

	root.AddCommand(newServeCmd(v), newAnalyzeCmd(v))
	return root
}
