package test

import (
	"go.uber.org/fx"
)

// LifecycleRecorder collects fx hooks without running them, letting
// tests invoke OnStart and OnStop directly.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub signals on Called whenever a shutdown is requested.
type ShutdownerStub struct {
	Called chan struct{}
}

func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called == nil {
		return nil
	}
	select {
	case s.Called <- struct{}{}:
	default:
	}
	return nil
}
