package runner

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventCollector is a thread-safe notify sink.
type eventCollector struct {
	mu     sync.Mutex
	events []Event
}

func (c *eventCollector) notify(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *eventCollector) snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *eventCollector) waitFor(t *testing.T, match func(Event) bool, timeout time.Duration) Event {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, ev := range c.snapshot() {
			if match(ev) {
				return ev
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for event, got %v", c.snapshot())
	return nil
}

func TestResolvePrimary(t *testing.T) {
	r := New(Config{Command: "sh", Args: []string{"-c", "true"}}, func(Event) {})
	path, args, err := r.Resolve()
	require.NoError(t, err)
	assert.Contains(t, path, "sh")
	assert.Equal(t, []string{"-c", "true"}, args)
}

func TestResolveFallback(t *testing.T) {
	r := New(Config{
		Command:  "definitely-not-installed-anywhere",
		Args:     []string{"--flag"},
		Fallback: []string{"also-not-installed", "sh"},
	}, func(Event) {})

	path, args, err := r.Resolve()
	require.NoError(t, err)
	assert.Contains(t, path, "sh")
	assert.Nil(t, args, "fallback commands run without the primary's arguments")
}

func TestResolveNothingAvailable(t *testing.T) {
	r := New(Config{
		Command:  "definitely-not-installed-anywhere",
		Fallback: []string{"also-not-installed"},
	}, func(Event) {})

	_, _, err := r.Resolve()
	assert.Error(t, err)
}

func TestStartStreamsOutputAndExit(t *testing.T) {
	c := &eventCollector{}
	r := New(Config{
		Command: "sh",
		Args:    []string{"-c", "echo line-one; echo line-two; exit 3"},
	}, c.notify)

	r.Start()

	started := c.waitFor(t, func(ev Event) bool {
		_, ok := ev.(Started)
		return ok
	}, 5*time.Second)
	assert.Greater(t, started.(Started).PID, 0)

	exited := c.waitFor(t, func(ev Event) bool {
		_, ok := ev.(Exited)
		return ok
	}, 5*time.Second)
	assert.Equal(t, 3, exited.(Exited).Code)
	assert.NoError(t, exited.(Exited).Err)

	var lines []string
	for _, ev := range c.snapshot() {
		if l, ok := ev.(Line); ok {
			lines = append(lines, l.Text)
		}
	}
	assert.Equal(t, []string{"line-one", "line-two"}, lines)
	assert.False(t, r.Running())
}

func TestSpawnFailedIsAnEventNotACrash(t *testing.T) {
	c := &eventCollector{}
	r := New(Config{Command: "definitely-not-installed-anywhere"}, c.notify)

	r.Start()

	ev := c.waitFor(t, func(ev Event) bool {
		_, ok := ev.(SpawnFailed)
		return ok
	}, time.Second)
	assert.Error(t, ev.(SpawnFailed).Err)
	assert.False(t, r.Running())
}

func TestStopTerminatesProcess(t *testing.T) {
	c := &eventCollector{}
	r := New(Config{Command: "sleep", Args: []string{"60"}}, c.notify)

	r.Start()
	c.waitFor(t, func(ev Event) bool {
		_, ok := ev.(Started)
		return ok
	}, 5*time.Second)
	require.True(t, r.Running())

	r.Stop()
	c.waitFor(t, func(ev Event) bool {
		_, ok := ev.(Exited)
		return ok
	}, 5*time.Second)
	assert.False(t, r.Running())
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	c := &eventCollector{}
	r := New(Config{Command: "sleep", Args: []string{"60"}}, c.notify)

	r.Start()
	c.waitFor(t, func(ev Event) bool {
		_, ok := ev.(Started)
		return ok
	}, 5*time.Second)

	r.Start()
	time.Sleep(100 * time.Millisecond)

	var startedCount int
	for _, ev := range c.snapshot() {
		if _, ok := ev.(Started); ok {
			startedCount++
		}
	}
	assert.Equal(t, 1, startedCount)

	r.Stop()
}

func TestResolvePrefersPrimaryOnPath(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-monitor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho ok\n"), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	r := New(Config{Command: "fake-monitor", Args: []string{"--plan", "max5"}, Fallback: []string{"sh"}}, func(Event) {})
	path, args, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, script, path)
	assert.Equal(t, []string{"--plan", "max5"}, args)
}
