package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/hud"
	"github.com/spacehole-rogue/deckview/internal/logger"
	"github.com/spacehole-rogue/deckview/internal/render"
	"github.com/spacehole-rogue/deckview/internal/station"
	"github.com/spacehole-rogue/deckview/internal/world"
)

const (
	stationWidth  = 80
	stationHeight = 40

	hudCols = 80
	hudRows = 12

	zoomStep      = 1.0
	elevationStep = 2.0
	modelDelay    = 150 * time.Millisecond // per model, so decoration deferral is visible
)

// Game is the Ebitengine game struct. It owns input and drawing; the
// station state lives in sim and the 3D view in engine.
type Game struct {
	cfg    config.Config
	sim    *station.Sim
	engine *render.Engine
	hud    *hud.Overlay
	log    *logrus.Entry
}

func NewGame(cfg config.Config) (*Game, error) {
	st, err := loadStation(cfg)
	if err != nil {
		return nil, err
	}

	cache := render.NewModelCache()
	go streamModels(cache, modelDelay)

	g := &Game{
		cfg:    cfg,
		sim:    station.NewSim(st, cfg.Seed),
		engine: render.New(cfg, st.Grid.Width, st.Grid.Height, cache),
		hud:    hud.NewOverlay(hudCols, hudRows, cfg.Camera),
		log:    logger.Component("main"),
	}
	return g, nil
}

// loadStation reads the configured layout, or generates a deck from the seed.
func loadStation(cfg config.Config) (*station.Station, error) {
	if cfg.Layout == "" {
		return station.Generate(cfg.Seed, stationWidth, stationHeight), nil
	}
	data, err := os.ReadFile(cfg.Layout)
	if err != nil {
		return nil, err
	}
	layout, err := world.LoadStationLayout(data)
	if err != nil {
		return nil, err
	}
	return station.FromLayout(layout), nil
}

// streamModels fills the cache the way an asset loader would, one model at
// a time, so rooms seen early decorate with fallback geometry or wait.
func streamModels(cache *render.ModelCache, delay time.Duration) {
	log := logger.Component("models")
	for key, m := range render.StockModels() {
		time.Sleep(delay)
		cache.Put(key, m)
		log.WithField("key", key).Debug("model loaded")
	}
	log.WithField("models", cache.Len()).Info("model cache ready")
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	// Player movement
	dx, dy := 0, 0
	if inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		dy = -1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) || inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		dy = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) || inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		dx = -1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) || inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		dx = 1
	}
	if dx != 0 || dy != 0 {
		g.sim.TryMovePlayer(dx, dy)
	}

	// Camera and overlay controls
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.engine.ToggleCameraMode()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o := g.sim.CycleOverlay()
		g.log.WithField("overlay", o).Info("hazard overlay")
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.engine.AdjustZoom(wy * zoomStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyPageUp) {
		g.engine.AdjustElevation(elevationStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyPageDown) {
		g.engine.AdjustElevation(-elevationStep)
	}

	g.sim.Tick()

	if err := g.engine.Render(g.sim.Snapshot()); err != nil {
		if errors.Is(err, render.ErrGridResized) {
			return nil // frame skipped; the engine already logged it
		}
		return err
	}
	g.engine.Update(1.0 / float64(ebiten.TPS()))

	g.hud.Compose(hud.Status{
		Station:   g.sim.Station.Name,
		Location:  g.sim.Location(),
		Underfoot: g.sim.Underfoot(),
		Events:    g.sim.Events.Recent(hud.EventRows),
		Overlay:   g.sim.Overlay,
		Stats:     g.engine.Stats(),
		FPS:       ebiten.ActualFPS(),
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.engine.Draw(screen)
	g.hud.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func main() {
	configPath := flag.String("config", "", "JSON config file (defaults are used when empty)")
	layoutPath := flag.String("layout", "", "JSON station layout, overrides the generator")
	seed := flag.Int64("seed", 0, "station seed (0 keeps the configured seed)")
	flag.Parse()

	logger.Init()
	log := logger.Component("main")

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("load config")
		}
	}
	if *layoutPath != "" {
		cfg.Layout = *layoutPath
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	game, err := NewGame(cfg)
	if err != nil {
		log.WithError(err).Fatal("load station")
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.WithError(err).Fatal("run")
	}
}
