package renderer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"toy-engine/core"
	"toy-engine/gpu"
)

// Renderable is an item in the render queue.
type Renderable interface {
	SetCamera(view, projection mgl32.Mat4)
	Render() error
}

// ProjectionFunc builds a projection for a surface size.
type ProjectionFunc func(width, height int) mgl32.Mat4

// RenderFunc is the application's per-frame step. It runs before the
// render queue is drawn and may update state, transforms and the view.
type RenderFunc[S any] func(e *Engine[S], dt time.Duration) error

// EngineOptions configures NewEngine.
type EngineOptions struct {
	Logger core.Logger
	// Projection is re-evaluated with the surface size on every Resize.
	Projection ProjectionFunc
}

// FrameStats counts the work of the last frame.
type FrameStats struct {
	Items  int
	Frames int
}

// Engine ties a surface, a render loop, a state store and a render queue
// together. Everything runs on the draw thread.
type Engine[S any] struct {
	Surface gpu.Surface
	Loop    *Loop
	Store   *Store[S]

	View       mgl32.Mat4
	Projection mgl32.Mat4

	queue      []Renderable
	render     RenderFunc[S]
	projection ProjectionFunc
	log        core.Logger
	stats      FrameStats
	err        error
}

func NewEngine[S any](surface gpu.Surface, sched Scheduler, initial S, opts EngineOptions) *Engine[S] {
	e := &Engine[S]{
		Surface:    surface,
		Loop:       NewLoop(sched),
		Store:      NewStore(initial),
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
		projection: opts.Projection,
		log:        core.OrNop(opts.Logger),
	}
	e.Loop.SetRender(e.frame)
	e.Resize(surface.Size())
	return e
}

// OnRender sets the application step.
func (e *Engine[S]) OnRender(fn RenderFunc[S]) { e.render = fn }

// AddRenderable appends items to the render queue.
func (e *Engine[S]) AddRenderable(items ...Renderable) {
	e.queue = append(e.queue, items...)
}

// SetProjection fixes the projection, dropping any ProjectionFunc.
func (e *Engine[S]) SetProjection(p mgl32.Mat4) {
	e.projection = nil
	e.Projection = p
}

// SetProjectionFunc installs fn and applies it to the current size.
func (e *Engine[S]) SetProjectionFunc(fn ProjectionFunc) {
	e.projection = fn
	e.Resize(e.Surface.Size())
}

// Resize updates the viewport and re-evaluates the projection.
func (e *Engine[S]) Resize(width, height int) {
	e.Surface.Viewport(width, height)
	if e.projection != nil {
		e.Projection = e.projection(width, height)
	}
}

func (e *Engine[S]) State() S { return e.Store.State() }

// SetState applies a patch to the store. See Store.Set.
func (e *Engine[S]) SetState(patch any) (S, error) { return e.Store.Set(patch) }

// RenderFrame clears the surface, runs the application step, then hands
// the camera to every queued item and renders it in order.
func (e *Engine[S]) RenderFrame(dt time.Duration) error {
	e.Surface.Clear()
	if e.render != nil {
		if err := e.render(e, dt); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	for i, item := range e.queue {
		item.SetCamera(e.View, e.Projection)
		if err := item.Render(); err != nil {
			return fmt.Errorf("render queue item %d: %w", i, err)
		}
	}
	e.stats.Items = len(e.queue)
	e.stats.Frames++
	return nil
}

// frame is the loop callback. A failed frame stops the loop.
func (e *Engine[S]) frame(dt time.Duration) {
	if err := e.RenderFrame(dt); err != nil {
		e.err = err
		e.log.Errorf("%v", err)
		e.Loop.Stop()
	}
}

// Run starts the render loop.
func (e *Engine[S]) Run() {
	e.err = nil
	e.Loop.Run()
}

func (e *Engine[S]) Stop() { e.Loop.Stop() }

// Err returns the error that stopped the loop, if any.
func (e *Engine[S]) Err() error { return e.err }

func (e *Engine[S]) Stats() FrameStats { return e.stats }
