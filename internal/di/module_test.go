package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/okonev/orderdesk/internal/app"
	"github.com/okonev/orderdesk/internal/config"
	"github.com/okonev/orderdesk/internal/domain/repository"
	"github.com/okonev/orderdesk/internal/storage/postgres"
	"github.com/okonev/orderdesk/internal/test"
	"github.com/okonev/orderdesk/internal/usecase"
	"go.uber.org/fx"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		JWTSecret:       "secret",
		TokenTTL:        time.Hour,
		SweepInterval:   time.Millisecond,
		SweepBatchSize:  1,
		WorkerPoolSize:  1,
		ShutdownTimeout: time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	userRepo := test.NewUserRepositoryStub()
	orderRepo := &test.OrderRepositoryStub{}
	alertRepo := &test.AlertRepositoryStub{}
	sheetRepo := test.NewSheetRepositoryStub()
	store := &test.ScreenshotStoreStub{}

	var facade *app.OrderDeskFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(fx.Annotate(userRepo, fx.As(new(repository.UserRepository)))),
			fx.Replace(fx.Annotate(orderRepo, fx.As(new(repository.OrderRepository)))),
			fx.Replace(fx.Annotate(alertRepo, fx.As(new(repository.AlertRepository)))),
			fx.Replace(fx.Annotate(sheetRepo, fx.As(new(repository.SheetRepository)))),
			fx.Replace(fx.Annotate(store, fx.As(new(usecase.ScreenshotStore)))),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected orderdesk facade instance")
	}
}
