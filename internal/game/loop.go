package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"chosenoffset.com/crewmate/internal/core/camera"
	"chosenoffset.com/crewmate/internal/core/geom"
	"chosenoffset.com/crewmate/internal/core/motion"
	"chosenoffset.com/crewmate/internal/input"
	"chosenoffset.com/crewmate/internal/render"
	"chosenoffset.com/crewmate/internal/session"
	"chosenoffset.com/crewmate/internal/simulation"
	"chosenoffset.com/crewmate/internal/world/entity"
	"chosenoffset.com/crewmate/internal/world/maploader"
)

// State is the lifecycle stage of a Loop.
type State int32

const (
	StateIdle State = iota
	StateInitializing
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// ErrNotIdle is returned by Start on a loop that was already started.
var ErrNotIdle = errors.New("game: loop already started")

// Deps are the collaborators a Loop is built from. Nil Renderer, Input or
// Loader degrade the session instead of failing it.
type Deps struct {
	Config   *simulation.Config
	Session  session.Settings
	Renderer render.Renderer
	Input    render.InputManager
	Loader   *maploader.Loader
	Clock    Clock
}

// Loop drives one session: every tick it integrates the local entity, moves
// the camera and renders. It implements render.Game, so the engine supplies
// one Update/Draw pair per display refresh.
type Loop struct {
	cfg      *simulation.Config
	settings session.Settings
	params   motion.Params
	clock    Clock

	renderer render.Renderer
	frames   *FrameRenderer
	camera   *camera.Camera

	inputMgr render.InputManager
	poller   *input.Poller
	events   *input.Queue
	input    *input.State

	loader  *maploader.Loader
	pending *maploader.Pending

	// Written only once the pending map result is first observed.
	mapObserved bool
	gameMap     *maploader.Map
	background  render.Image
	bounds      geom.Bounds

	entities []*entity.Entity
	local    *entity.Entity

	// Touched only from Update, on the engine goroutine.
	released bool

	state         atomic.Int32
	lastTimestamp time.Time
	viewWidth     int
	viewHeight    int
}

// NewLoop creates an idle loop.
func NewLoop(d Deps) *Loop {
	cfg := d.Config
	if cfg == nil {
		cfg = simulation.DefaultConfig()
	}
	clock := d.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	if d.Session.Nickname == "" {
		d.Session.Nickname = session.DefaultNickname
	}

	return &Loop{
		cfg:        cfg,
		settings:   d.Session,
		params:     cfg.MotionParams(),
		clock:      clock,
		renderer:   d.Renderer,
		inputMgr:   d.Input,
		loader:     d.Loader,
		camera:     camera.New(),
		viewWidth:  cfg.Display.Width,
		viewHeight: cfg.Display.Height,
	}
}

// Start binds input, claims the drawing surface, creates the local entity and
// kicks off the map load without waiting for it, then begins running.
func (l *Loop) Start(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(StateIdle), int32(StateInitializing)) {
		return ErrNotIdle
	}
	log.Printf("Initializing session for %s", l.settings.Nickname)

	l.input = input.NewState()
	l.events = input.NewQueue(l.cfg.InputQueueSize)
	l.poller = input.NewPoller(l.inputMgr)
	if l.inputMgr == nil {
		log.Printf("Warning: No input source, local participant will not move")
	}

	l.frames = NewFrameRenderer(l.renderer, l.cfg.Display.SurfaceName, l.params.Radius)
	if l.frames.Ready() {
		log.Printf("Claimed render surface %q", l.frames.Surface())
	} else {
		log.Printf("Warning: Render surface %q unavailable, frames will not be drawn", l.cfg.Display.SurfaceName)
	}

	start := l.cfg.Spawn.Start
	l.local = entity.New(entity.LocalID, l.settings.Nickname, start.X, start.Y, l.settings.BodyColor())
	l.entities = append(l.entities, l.local)

	if l.loader != nil {
		l.pending = l.loader.Start(ctx)
	} else {
		l.pending = maploader.NewPending()
		l.pending.Resolve(nil, fmt.Errorf("%w: no loader configured", maploader.ErrNoMap))
	}

	l.lastTimestamp = l.clock.Now()
	if l.state.CompareAndSwap(int32(StateInitializing), int32(StateRunning)) {
		log.Printf("Session running")
	}
	return nil
}

// Stop requests the loop to end. The next tick observes the request and does
// no further work; an in-flight map load is left to finish on its own.
func (l *Loop) Stop() {
	for {
		cur := l.state.Load()
		if State(cur) == StateStopped {
			return
		}
		if l.state.CompareAndSwap(cur, int32(StateStopped)) {
			log.Printf("Session stopped")
			return
		}
	}
}

// State returns the current lifecycle stage.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Update runs the simulation half of a tick: integrate, then follow.
func (l *Loop) Update() error {
	if l.State() != StateRunning {
		l.release()
		return render.ErrTerminated
	}
	if l.poller.StopRequested() {
		l.Stop()
		l.release()
		return render.ErrTerminated
	}

	now := l.clock.Now()
	dt := motion.ClampDelta(now.Sub(l.lastTimestamp).Seconds(), l.params.MaxDelta)
	l.lastTimestamp = now

	l.poller.Poll(l.events)
	l.input.Drain(l.events)

	l.observeMap()

	motion.Integrate(l.local, l.input, dt, l.bounds, l.params)
	l.camera.Follow(l.local.X, l.local.Y, l.bounds, float64(l.viewWidth), float64(l.viewHeight))
	return nil
}

// Draw renders the frame produced by the preceding Update.
func (l *Loop) Draw(screen render.Image) {
	if l.State() != StateRunning {
		return
	}
	l.frames.RenderFrame(screen, l.entities, l.background, l.camera)
}

// Layout caches the viewport size; world coordinates are unaffected.
func (l *Loop) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		l.viewWidth = outsideWidth
		l.viewHeight = outsideHeight
	}
	return l.viewWidth, l.viewHeight
}

// release frees the background image once the loop has stopped.
func (l *Loop) release() {
	if l.released {
		return
	}
	l.released = true
	if l.background != nil {
		l.background.Dispose()
		l.background = nil
	}
}

// observeMap picks up the map load result the first time it is available.
func (l *Loop) observeMap() {
	if l.mapObserved || l.pending == nil {
		return
	}
	res, ok := l.pending.Poll()
	if !ok {
		return
	}
	l.mapObserved = true

	if res.Err != nil {
		if errors.Is(res.Err, maploader.ErrNoMap) {
			log.Printf("Warning: No maps found, using empty void: %v", res.Err)
		} else {
			log.Printf("Warning: Failed to load map, using empty void: %v", res.Err)
		}
		return
	}

	m := res.Map
	l.gameMap = m
	l.bounds = m.Bounds
	if l.renderer != nil {
		l.background = l.renderer.NewImageFromImage(m.Image)
	}

	spawn := m.Spawn(l.cfg.Spawn.Fallback)
	l.local.X, l.local.Y = spawn.X, spawn.Y

	log.Printf("Loaded map: %s (%.0fx%.0f, %d spawns, %d tasks)",
		m.Record.Name, m.Bounds.Width, m.Bounds.Height, len(m.Record.Spawns), len(m.Record.Tasks))
}

// MapReady is closed once the map load has finished, successfully or not.
func (l *Loop) MapReady() <-chan struct{} {
	if l.pending == nil {
		return nil
	}
	return l.pending.Done()
}

// Map returns the loaded map, or nil in void mode or before the load is observed.
func (l *Loop) Map() *maploader.Map {
	return l.gameMap
}

// Bounds returns the map bounds; the zero value until a map is loaded.
func (l *Loop) Bounds() geom.Bounds {
	return l.bounds
}

// Local returns the entity driven by this process.
func (l *Loop) Local() *entity.Entity {
	return l.local
}

// Camera returns the loop's camera.
func (l *Loop) Camera() *camera.Camera {
	return l.camera
}

// Events returns the queue external producers may push input events onto.
func (l *Loop) Events() *input.Queue {
	return l.events
}

// Frames returns how many frames have been rendered.
func (l *Loop) Frames() uint64 {
	if l.frames == nil {
		return 0
	}
	return l.frames.Frames()
}
