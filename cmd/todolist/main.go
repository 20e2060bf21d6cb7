package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/app"
	"github.com/nhle/todolist/internal/controller"
	"github.com/nhle/todolist/internal/health"
	"github.com/nhle/todolist/internal/logging"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/session"
	"github.com/nhle/todolist/internal/storage"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "todolist: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// A missing .env is fine; TODOLIST_* variables may come from the shell.
	_ = godotenv.Load()

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, closer, err := logging.OpenFile(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer closer.Close()

	st, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	sessions := session.NewStore(st, logger)
	sess := sessions.Load(context.Background())
	logger.Info("starting", "api", cfg.API.BaseURL, "session", sess.Label())

	timeout := time.Duration(cfg.API.TimeoutSec) * time.Second
	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(timeout),
		api.WithIdentityHeader(cfg.API.IdentityHeader),
		api.WithLogger(logger),
	)

	monitor := health.New(client,
		time.Duration(cfg.Display.PollIntervalSec)*time.Second,
		health.WithLogger(logger),
	)
	defer monitor.Stop()

	root := app.New(
		controller.New(client, sessions, logger),
		controller.NewAdmin(client, sessions, logger),
		app.WithMonitor(monitor),
		app.WithTimeout(timeout+time.Second),
		app.WithLogger(logger),
	)

	if _, err := tea.NewProgram(root, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
