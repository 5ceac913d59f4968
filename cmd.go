package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "1.0.0" // set during build with -ldflags
	config  *Config
)

// rootCmd represents the base command when called without any
// subcommands, adapted from the teacher's rootCmd (cmd.go).
var rootCmd = &cobra.Command{
	Use:   "nanodis-server",
	Short: "nanodis - a miniature in-memory data-structure server",
	Long: `nanodis is a small in-memory data-structure server speaking a
framed, type-tagged protocol over TCP.

Data types: scalars, hashes, lists, sets.
Lazy key expiration and a timestamp-ordered delivery schedule.
Snapshot-to-disk and restore-from-disk.`,
	Version: version,
	RunE:    runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	var err error
	config, err = LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := configureLogging(config.LogFile, config.Debug, config.ErrorsOnly); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	logInfof("starting nanodis v%s", version)
	logInfof("%s", config.String())

	server := NewServer(config)

	if len(config.Extensions) > 0 {
		if err := loadExtensions(server, config.Extensions); err != nil {
			logWarnf("extension load errors: %v", err)
		}
	}

	WatchReload(config, func(updated *Config) {
		logInfof("config reloaded: %s", updated.String())
		configureLogging(updated.LogFile, updated.Debug, updated.ErrorsOnly)
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve()
	}()

	select {
	case <-sigChan:
		logInfof("received interrupt, shutting down")
		server.Close()
		<-serveErr
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	logInfof("nanodis stopped")
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := LoadConfig()
		if err != nil {
			return err
		}
		fmt.Println(config.String())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nanodis-server v%s\n", version)
		fmt.Printf("Built with Go %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("host", "H", "127.0.0.1", "Host to bind to")
	rootCmd.PersistentFlags().IntP("port", "p", 33737, "Port to listen on")
	rootCmd.PersistentFlags().Int("max-clients", 1024, "Maximum number of concurrent clients")
	rootCmd.PersistentFlags().Bool("threaded", false, "Use the preemptive (goroutine-per-client) transport instead of the cooperative pool")
	rootCmd.PersistentFlags().String("log-file", "", "Redirect logging to a file instead of stderr")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().Bool("errors", false, "Restrict logging to warnings and errors")
	rootCmd.PersistentFlags().StringArray("extension", nil, "Name of an extension to load (repeatable)")

	viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("max_clients", rootCmd.PersistentFlags().Lookup("max-clients"))
	viper.BindPFlag("threaded", rootCmd.PersistentFlags().Lookup("threaded"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("errors", rootCmd.PersistentFlags().Lookup("errors"))
	viper.BindPFlag("extensions", rootCmd.PersistentFlags().Lookup("extension"))

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute is the main entry point for the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
