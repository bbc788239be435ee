package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"example.com/arena/config"
	"example.com/arena/level"
	"example.com/arena/logger"
	"example.com/arena/model"
	"example.com/arena/movement"
	"example.com/arena/netsync"
	"example.com/arena/raycast"
	"example.com/arena/render"
	"example.com/arena/sprite"
)

// -- game

// main game object
type Game struct {
	paused      bool
	showMinimap bool

	screenWidth  int
	screenHeight int

	level      *level.Level
	player     *model.Player
	controller *movement.Controller
	scene      *render.Scene
	canvas     *screenCanvas
	minimap    *ebiten.Image

	link *netsync.Link

	mouseX, mouseY int

	log *zap.SugaredLogger
}

func NewGame(cfg *config.Config, lvl *level.Level, sprites *sprite.Set, client *netsync.Client) *Game {
	fov := cfg.Render.FovRadians()

	g := &Game{
		showMinimap:  cfg.Render.Minimap,
		screenWidth:  cfg.Screen.Width,
		screenHeight: cfg.Screen.Height,
		level:        lvl,
		link:         netsync.NewLink(client, logger.Named("netsync")),
		canvas:       newScreenCanvas(),
		log:          logger.Named("game"),
	}

	g.player = model.NewPlayer(cfg.Player.SpawnX, cfg.Player.SpawnY, 0, 0, float64(cfg.Screen.Height)/2)

	g.controller = &movement.Controller{
		Level:            lvl,
		Speed:            cfg.Player.Speed,
		MouseSensitivity: cfg.Player.MouseSensitivity,
		PitchFactor:      cfg.Player.PitchFactor,
		TurnStep:         cfg.Player.TurnStep,
		PitchStep:        cfg.Player.PitchStep,
	}

	g.scene = &render.Scene{
		Caster: raycast.NewCaster(lvl, cfg.Render.Rays, fov, cfg.Render.MaxDepth),
		Projector: raycast.Projector{
			ScreenWidth:  cfg.Screen.Width,
			ScreenHeight: cfg.Screen.Height,
			Fov:          fov,
			Rays:         cfg.Render.Rays,
			WallScale:    cfg.Render.WallScale,
			Epsilon:      cfg.Render.Epsilon,
			ShadeFactor:  cfg.Render.ShadeFactor,
			SpriteScale:  cfg.Render.SpriteScale,
		},
		Sprites: sprites,
	}

	g.generateStaticMinimap()
	g.mouseX, g.mouseY = math.MinInt32, math.MinInt32

	return g
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenWidth, g.screenHeight
}

// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	in, err := g.handleInput()
	if err != nil {
		return err
	}

	if !g.paused {
		g.controller.Update(g.player, in)
	}

	// a late reply keeps the previous table; a lost connection leaves the
	// game running offline without remote players
	if prev, next := g.link.Status(), g.link.Step(context.Background(), g.player.State()); next != prev {
		g.log.Infow("network status changed", "from", prev, "to", next)
	}
	g.player.Moved = false
	return nil
}

// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.link.Snapshot()
	prims := g.scene.Build(g.player.State(), snap.Self, snap.Players)

	g.canvas.target = screen
	render.Emit(g.canvas, prims)

	if g.showMinimap {
		g.drawMinimap(screen)
	}
	g.drawUI(screen)
}

func clientCommand(cfg *config.Config, address string) error {
	if err := overrideAddress(cfg, address); err != nil {
		return err
	}
	if err := initLogger(cfg, false); err != nil {
		return err
	}
	log := logger.Named("client")

	lvl := level.Default(cfg.Level.TileSize)

	sprites, err := loadSprites(cfg.Render.AssetDir)
	if err != nil {
		return err
	}

	client, err := netsync.Dial(context.Background(), cfg.Net.Address, cfg.Net.DialTimeout, netsync.ClientOptions{
		ReadTimeout: cfg.Net.ReadTimeout,
		Logger:      logger.Named("netsync"),
	})
	if err != nil {
		return err
	}
	defer client.Close()
	log.Infow("connected", "address", cfg.Net.Address)

	return runGame(cfg, NewGame(cfg, lvl, sprites, client))
}

// soloCommand walks the arena alone, without a server.
func soloCommand(cfg *config.Config) error {
	if err := initLogger(cfg, false); err != nil {
		return err
	}

	sprites, err := loadSprites(cfg.Render.AssetDir)
	if err != nil {
		return err
	}
	logger.Named("client").Infow("playing solo")

	return runGame(cfg, NewGame(cfg, level.Default(cfg.Level.TileSize), sprites, nil))
}

func runGame(cfg *config.Config, g *Game) error {
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Screen.Title)
	ebiten.SetTPS(cfg.Screen.TPS)
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

// loadSprites reads player frames from dir, or builds placeholders when no
// directory is configured.
func loadSprites(dir string) (*sprite.Set, error) {
	if dir == "" {
		return sprite.Placeholder(64, 128), nil
	}

	sprites, err := sprite.LoadDir(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("load sprites from %s: %w", dir, err)
	}
	return sprites, nil
}
