package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	scene := flag.Int("scene", 0, "build index of the first scene")
	settingsPath := flag.String("settings", defaultSettingsPath(), "settings yaml file")
	settingsDB := flag.String("settings-db", "", "sqlite settings database (overrides -settings)")
	watch := flag.Bool("watch", false, "hot reload prefabs, scripts and settings from disk")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("wallrunner")
	ebiten.SetTPS(ebiten.SyncWithFPS)

	game, err := NewGame(Options{
		Debug:        *debug,
		Scene:        *scene,
		SettingsPath: *settingsPath,
		SettingsDB:   *settingsDB,
		Watch:        *watch,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("start game")
	}
	defer func() {
		if err := game.Close(); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error().Err(err).Msg("game loop")
	}
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "settings.yaml"
	}
	return filepath.Join(dir, "wallrunner", "settings.yaml")
}
