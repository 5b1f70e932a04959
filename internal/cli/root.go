package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexaforge/imwrap/internal/config"
	"github.com/hexaforge/imwrap/internal/logging"
)

var (
	cfgFile  string
	verbose  bool
	jsonLogs bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imwrap",
	Short: "imwrap - LuaJIT FFI binding generator for C++ UI libraries",
	Long: `imwrap reads a C++ library header and generates the three artifacts a
LuaJIT host needs to call it: a C declaration header for ffi.cdef, a C++
source exporting flat host functions, and a Lua module wrapping them with
default arguments and nil guards.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./imwrap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON")
}

func initLogging() {
	if err := logging.Initialize(verbose, jsonLogs); err != nil {
		fmt.Fprintln(os.Stderr, "initializing logging:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration, honoring --config when set
// and falling back to discovery in the working directory.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadConfigFromFile(cfgFile)
	}
	return config.LoadConfig()
}
