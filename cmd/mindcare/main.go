package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/mindcare/internal"
	"github.com/starford/mindcare/internal/auth"
	pkgconfig "github.com/starford/mindcare/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func issueToken(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.Auth.AuthEnabled() {
		return fmt.Errorf("auth mode is %q; set auth.mode to %q to issue tokens", cfg.Auth.Mode, internal.AuthModeJWT)
	}

	id := auth.Identity{
		ID:    cmd.String("user"),
		Name:  cmd.String("name"),
		Email: cmd.String("email"),
	}
	ttl := cfg.Auth.TokenTTL
	if d := cmd.Duration("ttl"); d > 0 {
		ttl = d
	}

	tok, err := auth.Issue(cfg.Auth.Secret, cfg.Auth.Issuer, id, ttl)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	owner := auth.Identity{ID: cmd.String("user"), Name: cmd.String("name")}
	if err := internal.RunMCP(ctx, owner, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "mindcare",
		Usage:  "Private journaling service with AI suggestions and mood analysis",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "token",
				Usage:  "Issue a signed bearer token for local use",
				Action: issueToken,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "User id (token subject)", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name"},
					&cli.StringFlag{Name: "email", Usage: "Email address"},
					&cli.DurationFlag{Name: "ttl", Usage: "Token lifetime (defaults to auth.token_ttl)"},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve a user's journal to MCP clients over stdio",
				Action: runMCP,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "User id whose thoughts are exposed", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
