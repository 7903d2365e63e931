// Package renderer drives frames: the render loop, the application state
// store and the engine tying them to a drawing surface.
package renderer

import (
	"slices"
	"time"
)

// fpsWindow is the number of ticks averaged into one FPS sample.
const fpsWindow = 10

// LoopState is the run state of a Loop.
type LoopState int

const (
	Stopped LoopState = iota
	Running
)

func (s LoopState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Task is a per-frame callback receiving the time since the previous
// tick. Tasks are registered by pointer, so the same *Task is only ever
// added once.
type Task struct {
	fn func(dt time.Duration)
}

func NewTask(fn func(dt time.Duration)) *Task {
	return &Task{fn: fn}
}

func (t *Task) Run(dt time.Duration) {
	if t != nil && t.fn != nil {
		t.fn(dt)
	}
}

// Loop reschedules itself on every frame while running. Each tick runs
// recurring tasks, then one-shot tasks (which are then cleared), then the
// render callback, then updates the FPS counters.
type Loop struct {
	sched Scheduler
	state LoopState
	frame FrameID

	tasks  []*Task
	once   []*Task
	render func(dt time.Duration)

	lastTick time.Duration
	lastRec  time.Duration
	count    int
	fps      float64
	avgFPS   float64
}

func NewLoop(sched Scheduler) *Loop {
	return &Loop{sched: sched, avgFPS: -1}
}

// SetRender sets the callback run after the tasks of every tick.
func (l *Loop) SetRender(fn func(dt time.Duration)) { l.render = fn }

func (l *Loop) State() LoopState { return l.state }

// Run starts the loop. It is a no-op while running.
func (l *Loop) Run() {
	if l.state == Running {
		return
	}
	l.state = Running
	now := l.sched.Now()
	l.lastTick = now
	l.lastRec = now
	l.frame = l.sched.RequestFrame(l.tick)
}

// Stop cancels the pending frame. A tick already running finishes its
// work and does not reschedule.
func (l *Loop) Stop() {
	if l.state == Stopped {
		return
	}
	l.state = Stopped
	l.sched.CancelFrame(l.frame)
}

// AddTask registers recurring tasks, skipping ones already registered.
func (l *Loop) AddTask(tasks ...*Task) {
	l.tasks = appendUnique(l.tasks, tasks)
}

// RemoveTask unregisters a recurring task.
func (l *Loop) RemoveTask(t *Task) {
	l.tasks = slices.DeleteFunc(l.tasks, func(x *Task) bool { return x == t })
}

// AddOnceTask registers tasks for the next tick only, skipping ones
// already queued.
func (l *Loop) AddOnceTask(tasks ...*Task) {
	l.once = appendUnique(l.once, tasks)
}

func (l *Loop) Tasks() int     { return len(l.tasks) }
func (l *Loop) OnceTasks() int { return len(l.once) }

func appendUnique(list, tasks []*Task) []*Task {
	for _, t := range tasks {
		if t != nil && !slices.Contains(list, t) {
			list = append(list, t)
		}
	}
	return list
}

func (l *Loop) tick(now time.Duration) {
	dt := now - l.lastTick
	l.lastTick = now

	for _, t := range slices.Clone(l.tasks) {
		t.Run(dt)
	}
	once := l.once
	l.once = nil
	for _, t := range once {
		t.Run(dt)
	}
	if l.render != nil {
		l.render(dt)
	}
	l.updateFPS(now)

	if l.state == Running {
		l.frame = l.sched.RequestFrame(l.tick)
	}
}

// updateFPS samples the frame rate every fpsWindow ticks and folds the
// sample into the lifetime average.
func (l *Loop) updateFPS(now time.Duration) {
	l.count++
	if l.count%fpsWindow != 0 {
		return
	}
	frame := float64(now-l.lastRec) / float64(time.Millisecond) / fpsWindow
	l.lastRec = now
	if frame <= 0 {
		return
	}
	fps := 1000 / frame
	if l.avgFPS < 0 {
		l.avgFPS = fps
	} else {
		l.avgFPS = (l.avgFPS*float64(l.count-fpsWindow) + fps*fpsWindow) / float64(l.count)
	}
	l.fps = fps
}

// FPS is the most recent sample, averaged over the last ten ticks.
func (l *Loop) FPS() float64 { return l.fps }

// AverageFPS is the lifetime average, or -1 before the first sample.
func (l *Loop) AverageFPS() float64 { return l.avgFPS }

// Ticks is the number of ticks run so far.
func (l *Loop) Ticks() int { return l.count }
