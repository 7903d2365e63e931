package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"toy-engine/core"
	"toy-engine/internal/opengl"
	"toy-engine/platform"
	"toy-engine/renderer"
	"toy-engine/scene"
	"toy-engine/shader"
)

// demoState is the application state driven by keys and the frame step.
type demoState struct {
	Yaw       float32 // radians around the target
	Pitch     float32
	Distance  float32
	Spin      float64 // radians
	SpinSpeed float64 // radians per second
	Paused    bool
	ShowGrid  bool
}

const (
	orbitSpeed = 1.5 // radians per second
	zoomSpeed  = 400 // units per second

	maxPitch    = 1.5
	minDistance = 50
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	debug := flag.Bool("debug", false, "log assembled shaders and frame errors verbosely")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := core.NewDefaultLogger("demo", cfg.Debug || *debug)

	if err := run(cfg, *configPath, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg core.Config, configPath string, log core.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	win, err := platform.NewWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer win.Destroy()

	surf, err := opengl.NewSurface(win.Size)
	if err != nil {
		return err
	}
	surf.ClearColor = cfg.ClearColor()
	log.Infof("OpenGL %s", surf.Version())

	lib := shader.NewLibrary(surf, log)
	cache := scene.NewGeometryCache()

	sun := scene.NewDirectionalLight(mgl32.Vec3{0.3, 1, 0.35})
	lights := &scene.Lights{}
	lights.AddDirectional(sun)

	material, err := lib.Get(lights.Option(shader.NewOption()))
	if err != nil {
		return fmt.Errorf("build lit material: %w", err)
	}

	world, spinners, err := buildWorld(cache)
	if err != nil {
		return err
	}
	lit := scene.NewScene(surf, material, world...)
	lit.Lights = lights

	persp := scene.Perspective{
		FovY: cfg.Projection.FovY,
		Near: cfg.Projection.Near,
		Far:  cfg.Projection.Far,
	}
	target := mgl32.Vec3(cfg.Camera.Target)
	offset := mgl32.Vec3(cfg.Camera.Position).Sub(target)
	camera := scene.NewCamera(mgl32.Vec3(cfg.Camera.Position), target)

	initial := demoState{
		Yaw:       math32.Atan2(offset.X(), offset.Z()),
		Pitch:     math32.Asin(mgl32.Clamp(offset.Y()/offset.Len(), -1, 1)),
		Distance:  offset.Len(),
		SpinSpeed: 0.6,
		ShowGrid:  true,
	}
	engine := renderer.NewEngine(surf, win, initial, renderer.EngineOptions{
		Logger:     log,
		Projection: persp.Matrix,
	})
	win.OnResize(engine.Resize)

	if cfg.Skybox.Enabled() {
		sky, mirror, err := buildSky(ctx, surf, lib, cache, cfg.Skybox, log)
		if err != nil {
			return err
		}
		engine.AddRenderable(sky, mirror)
	}
	engine.AddRenderable(lit)

	grid, err := scene.NewMeshLine(surf, scene.MeshLineOptions{Color: &mgl32.Vec3{0.6, 0.6, 0.6}})
	if err != nil {
		return err
	}

	keys := renderer.NewKeyListener(nil)
	bindKeys(keys, engine, log)
	win.SetKeyListener(keys)
	engine.Loop.AddTask(keys.Task())

	dayNight := NewDayNight(sun)
	engine.Loop.AddTask(renderer.NewTask(func(dt time.Duration) {
		dayNight.Update(dt)
		surf.ClearColor = dayNight.Sky()
	}))

	hud := &DebugOverlay{}
	engine.Loop.AddTask(renderer.NewTask(func(time.Duration) {
		if engine.Loop.Ticks()%30 != 0 {
			return
		}
		hud.Clear()
		hud.AddLine("%s", cfg.Window.Title)
		hud.AddLine("%.0f fps (avg %.0f)", engine.Loop.FPS(), engine.Loop.AverageFPS())
		hud.AddLine("%d materials", lib.Len())
		hud.AddLine("%s", dayNight.Clock())
		win.SetTitle(hud.Text())
	}))

	engine.OnRender(func(e *renderer.Engine[demoState], dt time.Duration) error {
		st := e.State()
		if !st.Paused {
			next, err := e.SetState(renderer.Incr("Spin", st.SpinSpeed*dt.Seconds()))
			if err != nil {
				return err
			}
			st = next
		}
		for i, m := range spinners {
			m.animate(float32(st.Spin) * float32(i+1))
		}

		pitch := mgl32.Clamp(st.Pitch, -maxPitch, maxPitch)
		dist := max(st.Distance, minDistance)
		camera.Position = camera.Target.Add(mgl32.Vec3{
			dist * math32.Cos(pitch) * math32.Sin(st.Yaw),
			dist * math32.Sin(pitch),
			dist * math32.Cos(pitch) * math32.Cos(st.Yaw),
		})
		e.View = camera.View()

		if st.ShowGrid {
			grid.SetCamera(e.View, e.Projection)
			return grid.Render()
		}
		return nil
	})

	if configPath != "" {
		watchConfig(ctx, configPath, engine, log)
	}

	engine.Run()
	if err := win.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	engine.Stop()
	return engine.Err()
}

// spinner rotates a model in place around its own base transform.
type spinner struct {
	model *scene.Model
	base  mgl32.Mat4
	axis  mgl32.Vec3
}

func (s spinner) animate(angle float32) {
	s.model.SetLocal(s.base.Mul4(mgl32.HomogRotate3D(angle, s.axis)))
}

// buildWorld returns the root models of the lit scene: a spinning box
// carrying two orbiting children, a sphere built from an assembly of
// hemispheres and a floor slab.
func buildWorld(cache *scene.GeometryCache) ([]*scene.Model, []spinner, error) {
	hub, err := scene.NewBox(cache, scene.BoxOptions{Color: scene.PackedFaceColors(
		0xe74c3c, 0x3498db, 0x2ecc71, 0xf1c40f, 0x9b59b6, 0x1abc9c,
	)})
	if err != nil {
		return nil, nil, err
	}
	hub.SetLocal(mgl32.Translate3D(-50, 0, -50))

	var moons []*scene.Model
	for i, x := range []float32{-250, 250} {
		moon, err := scene.NewBox(cache, scene.BoxOptions{X: 50, Y: 50, Z: 50, Color: scene.RandomColors{}})
		if err != nil {
			return nil, nil, err
		}
		moon.PushFunc(func(m *mgl32.Mat4) {
			*m = mgl32.Translate3D(x, 60*float32(i), 0)
		})
		moons = append(moons, moon)
	}
	if err := hub.AddChild(moons...); err != nil {
		return nil, nil, err
	}

	north, err := scene.NewSphere(cache, scene.SphereOptions{
		Radius:   80,
		Latitude: scene.Arc{Start: 90, End: 0, Sub: 15},
		Color:    scene.SolidColor{230, 126, 34},
	})
	if err != nil {
		return nil, nil, err
	}
	south, err := scene.NewSphere(cache, scene.SphereOptions{
		Radius:   80,
		Latitude: scene.Arc{Start: 0, End: -90, Sub: 15},
		Color:    scene.SolidColor{52, 73, 94},
	})
	if err != nil {
		return nil, nil, err
	}
	ball := scene.NewAssembly(north, south)
	ball.SetLocal(mgl32.Translate3D(400, 80, 0))

	floor, err := scene.NewBox(cache, scene.BoxOptions{X: 1500, Y: 10, Z: 1500, Color: scene.SolidColor{90, 90, 90}})
	if err != nil {
		return nil, nil, err
	}
	floor.SetLocal(mgl32.Translate3D(-750, -12, -750))

	spinners := []spinner{
		{model: hub, base: hub.Local(), axis: mgl32.Vec3{0, 1, 0}},
		{model: ball, base: ball.Local(), axis: mgl32.Vec3{0, 1, 0}},
	}
	return []*scene.Model{floor, hub, ball}, spinners, nil
}

// buildSky loads the cube map once and returns the sky box and a box
// mapped with the same cube texture.
func buildSky(ctx context.Context, surf *opengl.Surface, lib *shader.Library, cache *scene.GeometryCache, sc core.SkyboxConfig, log core.Logger) (*scene.SkyBox, *scene.Scene, error) {
	cube := scene.NewCubeTexture(scene.CubeFaces{
		PosX: sc.PosX, NegX: sc.NegX,
		PosY: sc.PosY, NegY: sc.NegY,
		PosZ: sc.PosZ, NegZ: sc.NegZ,
	}, sc.Size, log)
	cube.OnLoad = func() { log.Infof("skybox ready (%dpx faces)", cube.Length) }
	cube.Load(ctx)

	sky, err := scene.NewSkyBox(surf, cube)
	if err != nil {
		return nil, nil, err
	}

	material, err := lib.Get(shader.NewOption(shader.SamplerCube))
	if err != nil {
		return nil, nil, fmt.Errorf("build cube material: %w", err)
	}
	mirror, err := scene.NewBox(cache, scene.BoxOptions{X: 120, Y: 120, Z: 120})
	if err != nil {
		return nil, nil, err
	}
	mirror.Texture = cube
	mirror.SetLocal(mgl32.Translate3D(-60, 0, 350))
	return sky, scene.NewScene(surf, material, mirror), nil
}

func bindKeys(keys *renderer.KeyListener, e *renderer.Engine[demoState], log core.Logger) {
	set := func(patch any) {
		if _, err := e.SetState(patch); err != nil {
			log.Errorf("key action: %v", err)
		}
	}
	step := func(key string, sign float64, speed float64) renderer.KeyAction {
		return renderer.KeyAction{Run: func(dt time.Duration) {
			a := renderer.Incr(key, sign*speed*dt.Seconds())
			if _, err := e.SetState(a); err != nil {
				log.Errorf("key action: %v", err)
				e.Stop()
			}
		}}
	}
	keys.Bind(platform.KeyA, step("Yaw", -1, orbitSpeed))
	keys.Bind(platform.KeyD, step("Yaw", 1, orbitSpeed))
	keys.Bind(platform.KeyW, step("Pitch", 1, orbitSpeed))
	keys.Bind(platform.KeyS, step("Pitch", -1, orbitSpeed))
	keys.Bind(platform.KeyQ, step("Distance", 1, zoomSpeed))
	keys.Bind(platform.KeyE, step("Distance", -1, zoomSpeed))
	keys.Bind(platform.KeyEqual, step("SpinSpeed", 1, 0.5))
	keys.Bind(platform.KeyMinus, step("SpinSpeed", -1, 0.5))

	keys.Bind(platform.KeySpace, renderer.KeyAction{Once: true, Run: func(time.Duration) {
		set(func(s demoState) demoState {
			s.Paused = !s.Paused
			return s
		})
	}})
	keys.Bind(platform.KeyL, renderer.KeyAction{Once: true, Run: func(time.Duration) {
		set(func(s demoState) demoState {
			s.ShowGrid = !s.ShowGrid
			return s
		})
	}})
	keys.Bind(platform.KeyR, renderer.KeyAction{Once: true, Run: func(time.Duration) {
		set(func(s demoState) demoState {
			s.Yaw, s.Pitch = 0, 0.45
			return s
		})
	}})
}

// watchConfig applies projection and log level edits to the running
// engine. Reloads arrive off the draw thread and are handed over through
// a loop task.
func watchConfig(ctx context.Context, path string, e *renderer.Engine[demoState], log core.Logger) {
	reloads := make(chan core.Config, 1)
	go func() {
		err := core.WatchConfig(ctx, path, log, func(c core.Config) {
			select {
			case reloads <- c:
			default:
			}
		})
		if err != nil {
			log.Warnf("%v", err)
		}
	}()
	e.Loop.AddTask(renderer.NewTask(func(time.Duration) {
		select {
		case c := <-reloads:
			log.SetDebug(c.Debug)
			persp := scene.Perspective{FovY: c.Projection.FovY, Near: c.Projection.Near, Far: c.Projection.Far}
			e.SetProjectionFunc(persp.Matrix)
		default:
		}
	}))
}
