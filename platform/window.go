// Package platform owns the native window and the OpenGL context, and
// drives frame callbacks from the window's event loop.
package platform

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"toy-engine/core"
	"toy-engine/renderer"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

// Window is a GLFW window with a current OpenGL 4.1 core context. It
// implements renderer.Scheduler: requested frames fire once per Run
// iteration, before the buffers are swapped.
type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	start   time.Time
	next    renderer.FrameID
	pending map[renderer.FrameID]func(time.Duration)

	keys     *renderer.KeyListener
	onResize func(width, height int)
}

var _ renderer.Scheduler = (*Window)(nil)

// NewWindow creates the window and makes its context current on the
// calling thread.
func NewWindow(config core.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{
		Handle:  handle,
		Title:   config.Title,
		start:   time.Now(),
		pending: make(map[renderer.FrameID]func(time.Duration)),
	}
	w.Width, w.Height = handle.GetFramebufferSize()

	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Width = width
		w.Height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	handle.SetKeyCallback(w.handleKey)

	return w, nil
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (int, int) {
	return w.Width, w.Height
}

// OnResize registers fn for framebuffer size changes.
func (w *Window) OnResize(fn func(width, height int)) {
	w.onResize = fn
}

// SetKeyListener routes key presses and releases to kl.
func (w *Window) SetKeyListener(kl *renderer.KeyListener) {
	w.keys = kl
}

func (w *Window) handleKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.Handle.SetShouldClose(true)
		return
	}
	if w.keys == nil {
		return
	}
	switch action {
	case glfw.Press:
		w.keys.Press(renderer.Key(key))
	case glfw.Release:
		w.keys.Release(renderer.Key(key))
	}
}

func (w *Window) Now() time.Duration {
	return time.Since(w.start)
}

func (w *Window) RequestFrame(cb func(now time.Duration)) renderer.FrameID {
	w.next++
	w.pending[w.next] = cb
	return w.next
}

func (w *Window) CancelFrame(id renderer.FrameID) {
	delete(w.pending, id)
}

// Run pumps events and fires frame callbacks until the window is closed
// or ctx is done.
func (w *Window) Run(ctx context.Context) error {
	for !w.Handle.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		glfw.PollEvents()
		if w.fire() > 0 {
			w.Handle.SwapBuffers()
		} else {
			// Nothing scheduled; avoid spinning.
			glfw.WaitEventsTimeout(0.05)
		}
	}
	return nil
}

func (w *Window) fire() int {
	ids := make([]renderer.FrameID, 0, len(w.pending))
	for id := range w.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	now := w.Now()
	fired := 0
	for _, id := range ids {
		cb, ok := w.pending[id]
		if !ok {
			continue
		}
		delete(w.pending, id)
		cb(now)
		fired++
	}
	return fired
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

const (
	KeySpace  = renderer.Key(glfw.KeySpace)
	KeyA      = renderer.Key(glfw.KeyA)
	KeyD      = renderer.Key(glfw.KeyD)
	KeyE      = renderer.Key(glfw.KeyE)
	KeyL      = renderer.Key(glfw.KeyL)
	KeyP      = renderer.Key(glfw.KeyP)
	KeyQ      = renderer.Key(glfw.KeyQ)
	KeyR      = renderer.Key(glfw.KeyR)
	KeyS      = renderer.Key(glfw.KeyS)
	KeyW      = renderer.Key(glfw.KeyW)
	KeyUp     = renderer.Key(glfw.KeyUp)
	KeyDown   = renderer.Key(glfw.KeyDown)
	KeyLeft   = renderer.Key(glfw.KeyLeft)
	KeyRight  = renderer.Key(glfw.KeyRight)
	KeyMinus  = renderer.Key(glfw.KeyMinus)
	KeyEqual  = renderer.Key(glfw.KeyEqual)
	KeyEscape = renderer.Key(glfw.KeyEscape)
)
