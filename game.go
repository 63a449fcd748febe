package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/wallrunner/assets"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/milk9111/wallrunner/ecs/entity"
	"github.com/milk9111/wallrunner/ecs/system"
	"github.com/milk9111/wallrunner/levels"
	"github.com/milk9111/wallrunner/prefabs"
	"github.com/milk9111/wallrunner/settings"
	"github.com/milk9111/wallrunner/ui"
	"github.com/rs/zerolog/log"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// maxFrameDelta bounds a single frame after a stall (window drag, breakpoint).
	maxFrameDelta = 0.25
)

type Options struct {
	Debug        bool
	Scene        int
	SettingsPath string
	SettingsDB   string
	Watch        bool
}

type Game struct {
	world     *ecs.World
	scheduler *ecs.Scheduler

	physics    *system.PhysicsSystem
	transition *system.TransitionSystem
	scenes     *system.SceneSystem
	scripted   *system.ScriptedMotionSystem
	render     *system.RenderSystem

	store      settings.Store
	closeStore func() error
	menu       *ui.MainMenu
	watcher    *prefabs.Watcher

	debug bool
	quit  bool
	last  time.Time
}

func NewGame(opts Options) (*Game, error) {
	store, closeStore, err := openStore(opts)
	if err != nil {
		return nil, err
	}

	catalog, err := levels.Default()
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("levels: %w", err)
	}
	builder, err := entity.NewSceneBuilder(catalog, openTrack)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	g := &Game{
		world:      ecs.NewWorld(),
		scheduler:  ecs.NewScheduler(),
		physics:    system.NewPhysicsSystem(),
		transition: system.NewTransitionSystem(),
		render:     system.NewRenderSystem(),
		store:      store,
		closeStore: closeStore,
		debug:      opts.Debug,
	}
	if err := g.wireSystems(builder); err != nil {
		_ = closeStore()
		return nil, err
	}

	if opts.Watch {
		g.watcher, err = prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"), "levels")
		if err != nil {
			log.Warn().Err(err).Msg("hot reload disabled")
		}
	}

	if err := g.scenes.Load(g.world, opts.Scene); err != nil {
		_ = g.Close()
		return nil, err
	}
	return g, nil
}

func (g *Game) wireSystems(builder system.SceneBuilder) error {
	controller, err := system.NewPlayerControllerSystem(g.physics)
	if err != nil {
		return err
	}
	collision, err := system.NewPlayerCollisionSystem(g.transition)
	if err != nil {
		return err
	}
	audio, err := system.NewAudioFaderSystem(g.store)
	if err != nil {
		return err
	}
	g.scripted, err = system.NewScriptedMotionSystem(prefabs.LoadScript)
	if err != nil {
		return err
	}
	g.scenes, err = system.NewSceneSystem(builder, g.physics.Reset)
	if err != nil {
		return err
	}
	g.scenes.OnLoad(g.onSceneLoaded)

	g.scheduler.AddInput(system.NewInputSystem())

	g.scheduler.AddFixed(controller.Fixed())
	g.scheduler.AddFixed(g.physics)
	g.scheduler.AddFixed(collision)

	g.scheduler.AddFrame(system.NewCameraLookSystem())
	g.scheduler.AddFrame(controller)
	g.scheduler.AddFrame(system.NewOrbitSystem())
	g.scheduler.AddFrame(g.scripted)
	g.scheduler.AddFrame(audio)
	g.scheduler.AddFrame(g.transition)
	g.scheduler.AddFrame(g.scenes)
	g.scheduler.AddFrame(system.NewAnimationSystem())
	return nil
}

func (g *Game) onSceneLoaded(loaded component.SceneLoaded) {
	if err := g.store.Flush(); err != nil {
		log.Error().Err(err).Msg("flush settings")
	}

	g.menu = nil
	if !loaded.Menu {
		return
	}
	menu, err := ui.NewMainMenu(g.store, ui.Actions{
		Play: func() { g.transition.LoadNextLevel(g.world) },
		Quit: func() { g.quit = true },
	}, baseWidth, baseHeight)
	if err != nil {
		log.Error().Err(err).Str("scene", loaded.Name).Msg("build menu")
		return
	}
	g.menu = menu
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	now := time.Now()
	dt := 1.0 / 60
	if !g.last.IsZero() {
		dt = min(now.Sub(g.last).Seconds(), maxFrameDelta)
	}
	g.last = now

	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	g.hotReload()

	g.scheduler.Update(g.world, dt)
	if g.menu != nil {
		g.menu.Update()
	}
	return nil
}

// hotReload restarts the scene when a prefab or level changes and recompiles
// motion scripts when a script changes.
func (g *Game) hotReload() {
	if g.watcher == nil {
		return
	}
	reload, scripts := false, false
	for _, name := range g.watcher.Drain() {
		if strings.HasSuffix(name, ".tengo") {
			scripts = true
		} else {
			reload = true
		}
		log.Debug().Str("path", name).Msg("hot reload")
	}
	if scripts {
		g.scripted.Reload(g.world)
	}
	if reload {
		e := ecs.CreateEntity(g.world)
		_ = ecs.Add(g.world, e, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{})
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	if g.menu != nil {
		g.menu.Draw(screen)
	}
	if g.debug {
		system.DrawPhysicsDebug(g.physics, g.world, screen)
		system.DrawPlayerStateDebug(g.world, screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close stops audio and the watchers and persists settings.
func (g *Game) Close() error {
	system.StopAudio(g.world)
	var errs []error
	if g.watcher != nil {
		errs = append(errs, g.watcher.Close())
		g.watcher = nil
	}
	if g.closeStore != nil {
		errs = append(errs, g.closeStore())
		g.closeStore = nil
	}
	return errors.Join(errs...)
}

func openStore(opts Options) (settings.Store, func() error, error) {
	if opts.SettingsDB != "" {
		s, err := settings.OpenSQLStore(opts.SettingsDB)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	s, err := settings.OpenFileStore(opts.SettingsPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.Watch {
		if err := s.Watch(); err != nil {
			log.Warn().Err(err).Str("path", s.Path()).Msg("settings reload disabled")
		}
	}
	return s, s.Close, nil
}

func openTrack(track string) (component.AudioChannel, error) {
	return assets.NewLoopPlayer(track)
}
