package config

import "sync/atomic"

// Live holds the configuration currently in effect. Readers never block;
// a reload swaps the whole snapshot.
type Live struct {
	cur atomic.Pointer[ServerConfig]
}

// NewLive creates a Live holder seeded with cfg.
func NewLive(cfg *ServerConfig) *Live {
	l := &Live{}
	l.cur.Store(cfg)
	return l
}

// Load returns the current snapshot. Callers must not modify it.
func (l *Live) Load() *ServerConfig {
	return l.cur.Load()
}

// Store replaces the snapshot.
func (l *Live) Store(cfg *ServerConfig) {
	l.cur.Store(cfg)
}

// Environment returns the current app.environment.
func (l *Live) Environment() string {
	return l.Load().App.Environment
}

// Apply replaces only the settings that can change at runtime
// (app.environment and log.level) and returns the new snapshot.
// Listener, routing and metrics settings keep their startup values.
func (l *Live) Apply(next *ServerConfig) *ServerConfig {
	cur := *l.Load()
	cur.App.Environment = next.App.Environment
	cur.Log.Level = next.Log.Level
	l.Store(&cur)
	return &cur
}
