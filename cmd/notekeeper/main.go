package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/nzaccagnino/notekeeper/internal/api"
	"github.com/nzaccagnino/notekeeper/internal/config"
	"github.com/nzaccagnino/notekeeper/internal/i18n"
	"github.com/nzaccagnino/notekeeper/internal/session"
	"github.com/nzaccagnino/notekeeper/internal/ui"
)

func main() {
	cmd := &cli.Command{
		Name:  "notekeeper",
		Usage: "terminal client for the NoteKeeper notes service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the config file",
				Sources: cli.EnvVars("NOTEKEEPER_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "override the API base URL",
				Sources: cli.EnvVars("NOTEKEEPER_SERVER"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	if !config.Exists(configPath) {
		if err := firstTimeSetup(configPath); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if server := cmd.String("server"); server != "" {
		cfg.ServerURL = server
	}

	if cfg.Language != "" {
		i18n.SetLanguage(i18n.Language(cfg.Language))
	}

	// The TUI owns stdout, so logs go to a file.
	log, closeLog, err := openLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("notekeeper needs an interactive terminal")
	}

	store := session.NewFileStore(cfg.SessionPath)
	client := api.NewClient(cfg.ServerURL, store, log)

	log.Info().Str("server", cfg.ServerURL).Msg("starting")

	m := ui.NewModel(client, store, cfg, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("%s: %w", i18n.T().Error, err)
	}
	return nil
}

func openLogger(path string) (zerolog.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("opening log file: %w", err)
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}

func firstTimeSetup(configPath string) error {
	fmt.Println("  Welcome to NoteKeeper! / Benvenuto in NoteKeeper!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("  Select language / Seleziona lingua:")
	fmt.Println("  [1] English")
	fmt.Println("  [2] Italiano")
	fmt.Print("  > ")

	choice, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	choice = strings.TrimSpace(choice)

	language := "en"
	if choice == "2" {
		language = "it"
	}
	i18n.SetLanguage(i18n.Language(language))

	cfg := config.Default()
	cfg.Language = language

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	if language == "it" {
		fmt.Println("  Configurazione creata!")
		fmt.Println("  Modifica config.yml per personalizzare.")
	} else {
		fmt.Println("  Configuration created!")
		fmt.Println("  Edit config.yml to customize.")
	}
	fmt.Println()

	return nil
}
