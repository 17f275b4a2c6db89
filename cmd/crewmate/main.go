package main

import (
	"context"
	"flag"
	"log"

	"chosenoffset.com/crewmate/internal/game"
	ebitenrender "chosenoffset.com/crewmate/internal/render/ebiten"
	"chosenoffset.com/crewmate/internal/session"
	"chosenoffset.com/crewmate/internal/simulation"
	"chosenoffset.com/crewmate/internal/world/maploader"
	"chosenoffset.com/crewmate/internal/world/mapstore"
)

func main() {
	configPath := flag.String("config", "data/simulation.json", "Simulation config file")
	sessionPath := flag.String("session", "data/game_config.json", "Session bundle written by the setup screen")
	envPath := flag.String("env", ".env", "Optional dotenv file overriding the session bundle")
	mapsDir := flag.String("maps", "", "Map store directory (overrides the config)")
	flag.Parse()

	cfg, err := simulation.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *mapsDir != "" {
		cfg.Maps.Dir = *mapsDir
	}

	settings, err := session.Load(*sessionPath, *envPath)
	if err != nil {
		log.Printf("Warning: Failed to load session settings, joining as %s: %v", session.DefaultNickname, err)
		settings = session.Default()
	}
	log.Printf("Joining as %s (host: %v)", settings.Nickname, settings.IsHost)

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	store := mapstore.NewFileStore(cfg.Maps.Dir, mapstore.DefaultMaps())
	loader := maploader.New(store, store)

	loop := game.NewLoop(game.Deps{
		Config:   cfg,
		Session:  settings,
		Renderer: renderer,
		Input:    inputMgr,
		Loader:   loader,
		Clock:    game.SystemClock{},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loop.Start(ctx); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	// Set up the window
	engine.SyncWithDisplay()
	engine.SetWindowSize(cfg.Display.Width, cfg.Display.Height)
	engine.SetWindowTitle(cfg.Display.Title)
	engine.SetWindowResizable(cfg.Display.Resizable)

	log.Println("Starting game...")
	if err := engine.RunGame(loop); err != nil {
		log.Fatal(err)
	}
	loop.Stop()
}
