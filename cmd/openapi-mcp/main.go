package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/phuslu/log"
	"github.com/urfave/cli/v3"

	"github.com/restmap/openapi-mcp/internal/config"
	"github.com/restmap/openapi-mcp/pkg/openapimcp"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/mapper"
)

// version is set by build flags during release
var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "openapi-mcp",
		Usage:   "Serve an OpenAPI-described REST API as an MCP server.",
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve an OpenAPI document over MCP stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
			},
			&cli.StringFlag{
				Name:  "spec",
				Usage: "Path to the OpenAPI document (JSON or YAML)",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Base URL of the upstream API",
			},
			&cli.StringFlag{
				Name:  "timeout",
				Usage: "Upstream request timeout in seconds",
			},
			&cli.StringFlag{
				Name:  "route-map",
				Usage: "Route mapping preset: tools, smart, or resources",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: trace, debug, info, warn, error",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadFromFile(cmd.String("config"))
	if err != nil {
		return err
	}

	if spec := cmd.String("spec"); spec != "" {
		cfg.Upstream.SpecPath = spec
	}
	if baseURL := cmd.String("base-url"); baseURL != "" {
		cfg.Upstream.BaseURL = baseURL
	}
	if timeout := cmd.String("timeout"); timeout != "" {
		seconds, err := strconv.Atoi(timeout)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid timeout %q", timeout)
		}
		cfg.Upstream.TimeoutSeconds = seconds
	}
	if routeMap := cmd.String("route-map"); routeMap != "" {
		cfg.Server.RouteMap = routeMap
	}
	if level := cmd.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if cfg.Upstream.SpecPath == "" {
		return fmt.Errorf("no OpenAPI document: set --spec or upstream.spec_path")
	}

	logger := newLogger(cfg.Logging)

	spec, err := os.ReadFile(cfg.Upstream.SpecPath)
	if err != nil {
		return fmt.Errorf("failed to read spec: %w", err)
	}

	routeMaps, err := routeMapsFor(cfg.Server.RouteMap)
	if err != nil {
		return err
	}

	headers := make(http.Header, len(cfg.Upstream.Headers))
	for name, value := range cfg.Upstream.Headers {
		headers.Set(name, value)
	}

	srv, err := openapimcp.NewServer(spec,
		openapimcp.WithServerInfo(cfg.Server.Name, cfg.Server.Version),
		openapimcp.WithBaseURL(cfg.Upstream.BaseURL),
		openapimcp.WithBaseHeaders(headers),
		openapimcp.WithTimeout(time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second),
		openapimcp.WithRouteMaps(routeMaps),
		openapimcp.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	logger.Info().
		Str("spec", cfg.Upstream.SpecPath).
		Str("base_url", cfg.Upstream.BaseURL).
		Str("route_map", cfg.Server.RouteMap).
		Msg("serving over stdio")

	return srv.ServeStdio()
}

func routeMapsFor(preset string) ([]mapper.RouteMap, error) {
	switch preset {
	case "", "tools":
		return mapper.DefaultRouteMappings(), nil
	case "smart":
		return mapper.SmartRouteMappings(), nil
	case "resources":
		return mapper.ResourceOnlyMappings(), nil
	default:
		return nil, fmt.Errorf("unknown route map preset %q", preset)
	}
}

// newLogger writes to stderr: stdout carries the MCP transport.
func newLogger(cfg config.LoggingConfig) *log.Logger {
	logger := &log.Logger{
		Level:      log.ParseLevel(cfg.Level),
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	}

	if cfg.Format == "json" {
		logger.Writer = &log.IOWriter{Writer: os.Stderr}
	} else {
		logger.Writer = &log.ConsoleWriter{
			Writer:      os.Stderr,
			ColorOutput: false,
		}
	}

	return logger
}
