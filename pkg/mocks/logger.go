package mocks

import (
	"fmt"
	"sync"

	"github.com/user/h264kit/pkg/ports"
)

// Entry is one message recorded by the mock Logger.
type Entry struct {
	Level     ports.LogLevel
	Component string
	Message   string
}

// Logger is a mock implementation of ports.Logger that records every
// message. WithComponent returns a tagged view writing to the same
// record, so one Logger observes all components of the code under test.
type Logger struct {
	mu      sync.Mutex
	Entries []Entry
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.record("", ports.LevelDebug, msg, args) }
func (m *Logger) Info(msg string, args ...interface{})  { m.record("", ports.LevelInfo, msg, args) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.record("", ports.LevelWarn, msg, args) }
func (m *Logger) Error(msg string, args ...interface{}) { m.record("", ports.LevelError, msg, args) }

// WithComponent returns a view tagged with the component name. Each call
// yields an independent tag writing to the same record.
func (m *Logger) WithComponent(component string) ports.Logger {
	return &componentLogger{root: m, component: component}
}

// Messages returns the recorded messages at the given level, in order.
func (m *Logger) Messages(level ports.LogLevel) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func (m *Logger) record(component string, level ports.LogLevel, msg string, args []interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, Entry{
		Level:     level,
		Component: component,
		Message:   fmt.Sprintf(msg, args...),
	})
}

// componentLogger tags messages with a component name and forwards them
// to the root record.
type componentLogger struct {
	root      *Logger
	component string
}

func (c *componentLogger) Debug(msg string, args ...interface{}) {
	c.root.record(c.component, ports.LevelDebug, msg, args)
}

func (c *componentLogger) Info(msg string, args ...interface{}) {
	c.root.record(c.component, ports.LevelInfo, msg, args)
}

func (c *componentLogger) Warn(msg string, args ...interface{}) {
	c.root.record(c.component, ports.LevelWarn, msg, args)
}

func (c *componentLogger) Error(msg string, args ...interface{}) {
	c.root.record(c.component, ports.LevelError, msg, args)
}

func (c *componentLogger) WithComponent(component string) ports.Logger {
	return &componentLogger{root: c.root, component: component}
}

// Ensure both views implement ports.Logger
var (
	_ ports.Logger = (*Logger)(nil)
	_ ports.Logger = (*componentLogger)(nil)
)
