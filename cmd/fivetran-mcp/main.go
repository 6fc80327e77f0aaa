package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fivetran-mcp/internal/catalog"
	"github.com/bobmcallan/fivetran-mcp/internal/common"
	"github.com/bobmcallan/fivetran-mcp/internal/config"
	"github.com/bobmcallan/fivetran-mcp/internal/dispatch"
	"github.com/bobmcallan/fivetran-mcp/internal/mcp"
	"github.com/bobmcallan/fivetran-mcp/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	stdio       = flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	serverPort  = flag.Int("port", 0, "Server port (overrides config)")
	serverHost  = flag.String("host", "", "Server host (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
	listTools   = flag.Bool("list-tools", false, "Print the tool catalog as JSON and exit")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion {
		fmt.Printf("fivetran-mcp version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	cat := catalog.Default()

	if *listTools {
		out, err := json.MarshalIndent(cat.Export(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to export catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		os.Exit(0)
	}

	// Auto-discover config file if not specified.
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Values can be set via TOML file, FIVETRAN_* environment variables, or CLI flags.")
		os.Exit(1)
	}

	// CLI flags have the highest priority.
	config.ApplyFlagOverrides(cfg, *serverPort, *serverHost)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if *stdio {
		cfg.Logging.Outputs = stdioOutputs(cfg.Logging.Outputs)
	}
	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Str("version", common.GetVersion()).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Bool("stdio", *stdio).
		Msg("configuration loaded")

	if !cfg.Policy().Credentials().Complete() {
		logger.Warn().Msg("FIVETRAN_API_KEY/FIVETRAN_API_SECRET not set; every tool call will fail until they are provided")
	}

	if err := cat.Validate(); err != nil {
		logger.Error().Str("error", err.Error()).Msg("operation catalog is invalid")
		os.Exit(1)
	}

	d := dispatch.NewFromConfig(cfg, cat, logger)

	mcpSrv, err := mcp.NewServer(cfg, d, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to create MCP server")
		os.Exit(1)
	}

	if *stdio {
		// stdin/stdout carry the JSON-RPC stream.
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			logger.Error().Str("error", err.Error()).Msg("stdio server failed")
			os.Exit(1)
		}
		return
	}

	srv := server.New(cfg, mcp.NewHandler(mcpSrv), logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Str("error", err.Error()).Msg("server failed to start")
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server shutdown failed")
	}

	logger.Info().Msg("server stopped")
}

// stdioOutputs drops the console writer so nothing but protocol traffic
// reaches the terminal. File logging is kept, and added when nothing remains.
func stdioOutputs(outputs []string) []string {
	kept := slices.DeleteFunc(slices.Clone(outputs), func(o string) bool {
		return o == "console"
	})
	if len(kept) == 0 {
		kept = []string{"file"}
	}
	return kept
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD fallbacks after.
func configSearchPaths() []string {
	candidates := []string{
		"fivetran-mcp.toml",
		"config/fivetran-mcp.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "fivetran-mcp.toml"),
		filepath.Join(binDir, "config", "fivetran-mcp.toml"),
	}
	paths = append(paths, candidates...)

	// Deduplicate via absolute path.
	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
