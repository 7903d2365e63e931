package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	keyA Key = iota + 65
	keyD
	keyR
)

func TestKeyListener(t *testing.T) {
	var log []string
	k := NewKeyListener(map[Key]KeyAction{
		keyA: {Run: func(time.Duration) { log = append(log, "a") }},
		keyD: {Run: func(time.Duration) { log = append(log, "d") }},
	})
	k.Bind(keyR, KeyAction{Run: func(time.Duration) { log = append(log, "r") }, Once: true})
	task := k.Task()

	task.Run(tick)
	assert.Empty(t, log)

	k.Press(keyD)
	k.Press(keyA)
	k.Press(keyR)
	task.Run(tick)
	assert.Equal(t, []string{"a", "d", "r"}, log)
	assert.False(t, k.Pressed(keyR))

	task.Run(tick)
	assert.Equal(t, []string{"a", "d", "r", "a", "d"}, log)

	k.Release(keyA)
	k.Release(keyD)
	task.Run(tick)
	assert.Len(t, log, 5)
}

func TestKeyListenerInLoop(t *testing.T) {
	sched := NewManualScheduler()
	l := NewLoop(sched)
	var total time.Duration
	k := NewKeyListener(nil)
	k.Bind(keyA, KeyAction{Run: func(dt time.Duration) { total += dt }})
	l.AddTask(k.Task())

	l.Run()
	k.Press(keyA)
	sched.Advance(tick)
	sched.Advance(tick)
	assert.Equal(t, 2*tick, total)
}
