// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/rds110bacnet/bacnet"
)

var (
	cfgFile  string
	host     string
	port     int
	deviceID uint32
	timeout  time.Duration
	verbose  bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rds110bacnet",
	Short: "A BACnet/IP client for the Siemens RDS110.R room thermostat",
	Long: `rds110bacnet talks ReadPropertyMultiple and WriteProperty to a single
directly-addressed Siemens RDS110.R room thermostat over BACnet/IP.

Examples:
  rds110bacnet read -H 10.0.0.20 -d 1234 -o analog-value:1 -p present-value
  rds110bacnet write -H 10.0.0.20 -d 1234 -o analog-value:1 -p present-value -V 21.5`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rds110bacnet.yaml)")
	rootCmd.PersistentFlags().StringVarP(&host, "host", "H", "", "thermostat IP address")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "P", bacnet.DefaultPort, "BACnet/IP port")
	rootCmd.PersistentFlags().Uint32VarP(&deviceID, "device", "d", 0, "device instance ID")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 1*time.Second, "per-datagram request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("device", rootCmd.PersistentFlags().Lookup("device"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".rds110bacnet")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BACNET")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}

// newClient builds a Client with the current flags, wiring in a hex-dump
// Tracer when DEBUG is set in the environment.
func newClient() (*bacnet.Client, error) {
	opts := []bacnet.Option{
		bacnet.WithTimeout(timeout),
		bacnet.WithLogger(logger),
	}
	if os.Getenv("DEBUG") != "" {
		opts = append(opts, bacnet.WithTracer(bacnet.NewHexDumpTracer(logger)))
	}
	return bacnet.NewClient(host, port, opts...)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("rds110bacnet version 1.0.0")
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
