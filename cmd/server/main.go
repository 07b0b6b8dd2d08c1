package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/silenteer-oss/eatery"
	"gitlab.com/silenteer-oss/eatery/internal/app"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "server",
	Short:        "Restaurant directory service",
	Long:         `Serves the restaurant directory over HTTP (REST, GraphQL and a websocket change feed) and over NATS when enabled.`,
	SilenceUsage: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return eatery.ReadConfigFile(cfgFile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApplication(app.LoadConfig())
		if err != nil {
			return err
		}
		return application.Start()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
