// Command tutor is the terminal dashboard for the AI tutor server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mansimran2992/ai-tutor-bot/internal/client"
	"github.com/mansimran2992/ai-tutor-bot/internal/config"
	"github.com/mansimran2992/ai-tutor-bot/internal/dashboard"
	"github.com/mansimran2992/ai-tutor-bot/internal/tui"
	"github.com/mattn/go-isatty"
)

func main() {
	var (
		configPath   = flag.String("config", "", "optional YAML config file")
		serverURL    = flag.String("server", "", "tutor server URL (overrides config)")
		plain        = flag.Bool("plain", false, "line mode instead of the full-screen interface")
		logPath      = flag.String("log", "", "write logs to this file")
		singleFlight = flag.Bool("single-flight", false, "ignore sends while a request is pending")
	)
	flag.Parse()

	if err := run(*configPath, *serverURL, *plain, *logPath, *singleFlight); err != nil {
		fmt.Fprintf(os.Stderr, "tutor: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, serverURL string, plain bool, logPath string, singleFlight bool) error {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg.ApplyEnvironmentOverrides()
	}
	if serverURL != "" {
		cfg.Client.BaseURL = serverURL
	}
	if singleFlight {
		cfg.Client.SingleFlight = true
	}

	// stdout belongs to the renderer, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := cfg.Logging.NewLogger(logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var clientOpts []client.Option
	if cfg.Client.RequestTimeout > 0 {
		clientOpts = append(clientOpts, client.WithTimeout(time.Duration(cfg.Client.RequestTimeout)*time.Second))
	}
	api := client.New(cfg.Client.BaseURL, clientOpts...)

	flowOpts := []dashboard.Option{dashboard.WithLogger(logger)}
	if cfg.Client.SingleFlight {
		flowOpts = append(flowOpts, dashboard.WithSingleFlight())
	}
	session := tui.NewSession(api, flowOpts...)

	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	logger.Info("tutor client starting", "server", cfg.Client.BaseURL, "interactive", interactive && !plain)
	if plain || !interactive {
		return tui.RunPlain(ctx, os.Stdin, os.Stdout, session)
	}
	return tui.Run(ctx, session, cfg.Client.BaseURL)
}
