package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kerberos-io/translator/src/cameras"
	"github.com/kerberos-io/translator/src/components"
	configService "github.com/kerberos-io/translator/src/config"
	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/models"
	"github.com/kerberos-io/translator/src/schema"
	"github.com/spf13/cobra"
)

var VERSION = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "translator",
	Short: "Translates host camera commands into IP camera requests",
	Long: `Receives camera move commands and camera options from a device
management host, persists the camera connection settings and drives the
camera's pan/tilt control endpoint.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run <configDirectory> <port>",
	Short: "Start the translator",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		configDirectory := args[0]
		port := args[1]

		// Read the config on start, and pass it to the other
		// function and features.
		configuration := models.Configuration{
			Name: "translator",
			Port: port,
		}
		if err := configService.OpenConfig(configDirectory, &configuration); err != nil {
			return err
		}
		// We will override the configuration with the environment variables
		configService.OverrideWithEnvironmentVariables(&configuration)

		timezone, err := time.LoadLocation(configuration.Config.Timezone)
		if err != nil {
			timezone = time.UTC
		}
		log.Log.Logger = configuration.Config.LogOutput
		log.Log.Init(configuration.Config.LogLevel, configDirectory, timezone)
		log.Log.Info("main.Main(): running translator " + VERSION + " on port " + port)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		communication := models.NewCommunication()
		return components.Bootstrap(ctx, configDirectory, &configuration, communication)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("You are currently running the translator " + VERSION)
	},
}

var schemaCmd = &cobra.Command{
	Use:       "schema [message|options]",
	Short:     "Print the message or options schema",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"message", "options"},
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, _ := cameras.Lookup(cameras.DefaultModel)
		var output interface{} = map[string]interface{}{
			"messageSchema": schema.MessageSchema(),
			"optionsSchema": schema.OptionsSchema(defaults),
		}
		if len(args) == 1 && args[0] == "message" {
			output = schema.MessageSchema()
		} else if len(args) == 1 && args[0] == "options" {
			output = schema.OptionsSchema(defaults)
		}
		return printJSON(output)
	},
}

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Print the known camera models and their defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cameras.All())
	},
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd, versionCmd, schemaCmd, camerasCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
