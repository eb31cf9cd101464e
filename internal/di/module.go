package di

import (
	"github.com/okonev/orderdesk/internal/adapter/objectstore"
	"github.com/okonev/orderdesk/internal/app"
	"github.com/okonev/orderdesk/internal/config"
	"github.com/okonev/orderdesk/internal/logger"
	"github.com/okonev/orderdesk/internal/notifier"
	"github.com/okonev/orderdesk/internal/pkg/auth"
	"github.com/okonev/orderdesk/internal/server/http/router"
	"github.com/okonev/orderdesk/internal/storage/postgres"
	"github.com/okonev/orderdesk/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		objectstore.Module,
		notifier.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
