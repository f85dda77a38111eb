package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/siohaza/recursedit/internal/telemetry"
	"github.com/siohaza/recursedit/internal/textenc"
	"github.com/siohaza/recursedit/pkg/config"
)

const defaultConfigPath = "recursedit.toml"

var (
	configPath   string
	logLevel     string
	charset      string
	traceEnabled bool
	jobs         int
	version      = "0.1.0"
)

var (
	cfg               *config.Config
	logger            *slog.Logger
	logFile           *os.File
	tracer            trace.Tracer = telemetry.NoopTracer()
	shutdownTelemetry func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "recursedit",
	Short: "Recursed map script toolkit",
	Long: `recursedit decodes, edits and re-encodes the Lua map scripts of Recursed.
Rooms are kept as a dry and a wet variant and written back with only their
differences guarded by the wet parameter.`,
	Version:            version,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("recursedit v%s\n", version)
		fmt.Println("Recursed map script toolkit")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&charset, "charset", "", "script file charset (utf-8, windows-1252, iso-8859-1, cp437)")
	rootCmd.PersistentFlags().BoolVar(&traceEnabled, "trace", false, "export traces over OTLP/HTTP")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 4, "files processed in parallel")

	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	envErr := godotenv.Load()

	var err error
	explicit := cmd.Flags().Changed("config")
	cfg, err = config.LoadConfig(configPath, !explicit)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	level := slog.LevelInfo
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var logWriter io.Writer = os.Stderr
	if cfg.Log.LogToFile {
		logDir := "logs"
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		timestamp := time.Now().Unix()
		logPath := filepath.Join(logDir, fmt.Sprintf("recursedit_%d.log", timestamp))

		logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logWriter = io.MultiWriter(os.Stderr, logFile)
	}

	logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if envErr != nil {
		logger.Debug(".env file not loaded", "error", envErr)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if charset == "" {
		charset = cfg.Output.Charset
	}
	if !textenc.Supported(charset) {
		return fmt.Errorf("unsupported charset: %s", charset)
	}

	if jobs < 1 {
		jobs = 1
	}

	if traceEnabled || cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(cmd.Context(), version)
		if err != nil {
			logger.Warn("telemetry setup failed, continuing without traces", "error", err)
		} else {
			shutdownTelemetry = shutdown
			tracer = telemetry.Tracer("cli")
		}
	}

	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
