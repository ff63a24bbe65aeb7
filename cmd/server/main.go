package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/blukai/mcwire/internal/chat"
	"github.com/blukai/mcwire/internal/protocol"
	"github.com/blukai/mcwire/internal/status"
	"github.com/blukai/mcwire/internal/statusserver"
	"github.com/kelseyhightower/envconfig"
	"github.com/phuslu/log"
)

type Config struct {
	Addr        string `envconfig:"SERVER_ADDR" required:"true" default:"0.0.0.0:25565"`
	VersionName string `envconfig:"VERSION_NAME" default:"1.12.2"`
	// MOTD may contain legacy formatting codes, they are passed through
	// as is.
	MOTD        string `envconfig:"MOTD" default:"A Minecraft Server"`
	MaxPlayers  int32  `envconfig:"MAX_PLAYERS" default:"20"`
	KickMessage string `envconfig:"KICK_MESSAGE" default:"This server only answers status requests"`
	// Favicon is the path of a 64x64 png.
	Favicon string `envconfig:"FAVICON"`
}

func loadConfig() (*Config, error) {
	config := new(Config)
	if err := envconfig.Process("mcwire", config); err != nil {
		return nil, err
	}
	return config, nil
}

func configureLogger() *log.Logger {
	logger := log.DefaultLogger

	// https://github.com/phuslu/log?tab=readme-ov-file#pretty-console-writer
	logger.Caller = 1
	logger.TimeFormat = "15:04:05"
	logger.Writer = &log.ConsoleWriter{
		ColorOutput:    true,
		QuoteString:    true,
		EndWithMessage: true,
	}

	return &logger
}

func buildServerInfo(config *Config) (*status.ServerInfo, error) {
	info := &status.ServerInfo{
		Version: status.Version{
			Name:     config.VersionName,
			Protocol: protocol.Version,
		},
		Players: status.Players{
			Max: config.MaxPlayers,
		},
		Description: chat.NewText(config.MOTD),
	}

	if config.Favicon != "" {
		f, err := os.Open(config.Favicon)
		if err != nil {
			return nil, fmt.Errorf("could not open favicon: %w", err)
		}
		defer f.Close()

		img, err := png.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("could not decode favicon: %w", err)
		}
		// fail now rather than on the first ping
		if _, err := status.EncodeFavicon(img); err != nil {
			return nil, err
		}
		info.Favicon = img
	}

	return info, nil
}

func erringMain() error {
	config, err := loadConfig()
	if err != nil {
		return fmt.Errorf("could not process config: %w", err)
	}

	logger := configureLogger()

	info, err := buildServerInfo(config)
	if err != nil {
		return fmt.Errorf("could not build server info: %w", err)
	}

	statusServer, err := statusserver.NewStatusServer("tcp", config.Addr, info, logger)
	if err != nil {
		return fmt.Errorf("could not construct status server: %w", err)
	}
	statusServer.SetKickMessage(chat.NewText(config.KickMessage))
	logger.Info().Msgf("started status server on %s", statusServer.Addr())

	wg := new(sync.WaitGroup)
	ctx, cancel := context.WithCancel(context.Background())

	wg.Add(1)
	var statusServerRunErr error
	go func() {
		defer wg.Done()
		statusServerRunErr = statusServer.Run(ctx)
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-signalChan
	logger.Info().Msgf("received %+v signal", sig)

	cancel()
	wg.Wait()
	if statusServerRunErr != nil {
		return fmt.Errorf("status server run failed: %w", statusServerRunErr)
	}

	return nil
}

func main() {
	if err := erringMain(); err != nil {
		fmt.Fprintf(os.Stderr, "fucky wucky! %v\n", err)
		os.Exit(42)
	}
}
