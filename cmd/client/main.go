package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/status"
	"github.com/blukai/mcwire/internal/statusclient"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
	"github.com/phuslu/log"
)

type Config struct {
	Addr    string        `envconfig:"CLIENT_ADDR" required:"true" default:"127.0.0.1:25565"`
	Timeout time.Duration `envconfig:"CLIENT_TIMEOUT" default:"5s"`
	// Legacy prints the description with § formatting codes instead of
	// plain text.
	Legacy bool `envconfig:"CLIENT_LEGACY" default:"false"`
	// Login also attempts a login with this name and prints the outcome.
	Login string `envconfig:"CLIENT_LOGIN"`
	Debug bool   `envconfig:"CLIENT_DEBUG" default:"false"`
}

func loadConfig() (*Config, error) {
	config := new(Config)
	if err := envconfig.Process("mcwire", config); err != nil {
		return nil, err
	}
	return config, nil
}

func configureLogger(config *Config) *log.Logger {
	logger := log.DefaultLogger

	// https://github.com/phuslu/log?tab=readme-ov-file#pretty-console-writer
	logger.Caller = 1
	logger.TimeFormat = "15:04:05"
	logger.Writer = &log.ConsoleWriter{
		ColorOutput:    true,
		QuoteString:    true,
		EndWithMessage: true,
	}
	if !config.Debug {
		logger.Level = log.InfoLevel
	}

	return &logger
}

func printServerInfo(info *status.ServerInfo, latency time.Duration, legacy bool) {
	description := chat.PlainText(info.Description)
	if legacy {
		description = chat.LegacyText(info.Description)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.Append([]string{"version", info.Version.Name})
	table.Append([]string{"protocol", strconv.Itoa(int(info.Version.Protocol))})
	table.Append([]string{"players", fmt.Sprintf("%d/%d", info.Players.Online, info.Players.Max)})
	table.Append([]string{"description", description})
	table.Append([]string{"favicon", strconv.FormatBool(info.Favicon != nil)})
	table.Append([]string{"latency", latency.String()})
	table.Render()

	if len(info.Players.Sample) > 0 {
		players := tablewriter.NewWriter(os.Stdout)
		players.SetHeader([]string{"Name", "ID"})
		for _, sample := range info.Players.Sample {
			players.Append([]string{sample.Name, sample.ID.String()})
		}
		players.Render()
	}

	if info.ModInfo != nil {
		mods := tablewriter.NewWriter(os.Stdout)
		mods.SetHeader([]string{"Mod", "Version"})
		mods.SetCaption(true, "type: "+info.ModInfo.Type)
		for _, mod := range info.ModInfo.ModList {
			mods.Append([]string{mod.ModID, mod.Version})
		}
		mods.Render()
	}
}

func erringMain() error {
	config, err := loadConfig()
	if err != nil {
		return fmt.Errorf("could not process config: %w", err)
	}

	logger := configureLogger(config)

	statusClient, err := statusclient.NewStatusClient("tcp", config.Addr, logger)
	if err != nil {
		return fmt.Errorf("could not construct status client: %w", err)
	}
	statusClient.SetTimeout(config.Timeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	info, latency, err := statusClient.Ping(ctx)
	if err != nil {
		return fmt.Errorf("could not ping %s: %w", config.Addr, err)
	}
	printServerInfo(info, latency, config.Legacy)

	if config.Login != "" {
		success, err := statusClient.Login(ctx, config.Login)
		var disconnect *statusclient.DisconnectError
		switch {
		case errors.As(err, &disconnect):
			logger.Info().Msgf("login refused: %s", chat.PlainText(disconnect.Reason))
		case err != nil:
			return fmt.Errorf("could not log in: %w", err)
		default:
			logger.Info().Msgf("logged in as %s (%s)", success.Name, success.ID)
		}
	}

	return nil
}

func main() {
	if err := erringMain(); err != nil {
		fmt.Fprintf(os.Stderr, "fucky wucky! %v\n", err)
		os.Exit(42)
	}
}
