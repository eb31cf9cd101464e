package objectstore

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/okonev/orderdesk/internal/config"
	"github.com/okonev/orderdesk/internal/usecase"
)

// Module wires the R2 screenshot store into the fx container.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(func(s *R2Store) usecase.ScreenshotStore { return s }),
)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (*R2Store, error) {
	return New(p.Ctx, Options{
		Endpoint:  p.Config.ObjectStoreEndpoint,
		AccessKey: p.Config.ObjectStoreAccessKey,
		SecretKey: p.Config.ObjectStoreSecretKey,
		Bucket:    p.Config.ObjectStoreBucket,
		PublicURL: p.Config.ObjectStorePublicURL,
	}, p.Logger)
}
