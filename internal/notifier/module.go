package notifier

import (
	"context"

	"go.uber.org/fx"

	"github.com/okonev/orderdesk/internal/usecase"
)

// Module wires the realtime hub into the fx container.
var Module = fx.Options(
	fx.Provide(NewHub),
	fx.Provide(func(h *Hub) usecase.Notifier { return h }),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, hub *Hub) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			hub.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hub.Stop()
			return nil
		},
	})
}
