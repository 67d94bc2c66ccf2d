package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/pbn-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pbn-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "convert":
			os.Exit(runConvert(os.Args[2:]))
		}
	}

	cfg, err := server.ConfigFromEnv(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pbn-tools-mcp: %v\n", err)
		os.Exit(2)
	}

	// stdout carries the MCP protocol; logs go to stderr
	logger := newLogger(cfg.LogLevel)
	logger.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("starting paint-by-numbers MCP server")

	srv := server.New(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newLogger(level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func printUsage() {
	fmt.Println("pbn-tools-mcp - MCP server that turns photos into paint-by-numbers templates")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pbn-tools-mcp [options]             Serve MCP over stdin/stdout")
	fmt.Println("  pbn-tools-mcp convert [flags] FILE  Convert one image and write PNGs")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PBN_MCP_LOG_LEVEL=debug      Log level (trace, debug, info, warn, error)")
	fmt.Println("  PBN_MAX_DIMENSION=1024       Longest working side in pixels, 0 disables")
	fmt.Println("  PBN_SMOOTH_RADIUS=4          Mode filter radius")
	fmt.Println("  PBN_SEED=1                   Clustering seed")
	fmt.Println("  PBN_DENOISE=bilateral        Pre-blur filter (bilateral, gaussian)")
	fmt.Println()
	fmt.Println("Run 'pbn-tools-mcp convert -h' for conversion flags.")
}
