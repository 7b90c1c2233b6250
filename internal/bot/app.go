// Package bot assembles the food-ordering bot: storage, engines and the
// Telegram transport binding.
package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/streeteda/streeteda/core/bootstrap"
	coretelegram "github.com/streeteda/streeteda/core/telegram"
	tghelpers "github.com/streeteda/streeteda/core/telegram/helpers"
	"github.com/streeteda/streeteda/core/telegram/router"
	"github.com/streeteda/streeteda/internal/admin"
	"github.com/streeteda/streeteda/internal/cart"
	"github.com/streeteda/streeteda/internal/notify"
	"github.com/streeteda/streeteda/internal/order"
	"github.com/streeteda/streeteda/internal/repository"
	"github.com/streeteda/streeteda/internal/session"
)

// App holds everything needed to serve the bot.
type App struct {
	cfg       *Config
	db        *sqlx.DB
	stores    repository.Stores
	sessions  *session.Store
	handlers  *Handlers
	publisher *notify.Publisher
	sender    *telegramSender
}

// New runs the bootstrap pipeline and wires the engines.
func New(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Seeders:  []bootstrap.Seeder{bootstrap.SeederFunc(SeedMenu)},
	})
	if err != nil {
		return nil, err
	}
	db := res.DB

	stores := repository.Stores{
		Catalog:  repository.NewPGCatalogStore(db),
		Cart:     repository.NewPGCartStore(db),
		Settings: repository.NewPGSettingsStore(db),
		Orders:   repository.NewPGOrderStore(db),
	}

	var publisher *notify.Publisher
	if cfg.Notify.AMQPURL != "" {
		publisher, err = notify.NewPublisher(cfg.Notify.AMQPURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bot: broker connect failed: %w", err)
		}
	}

	sender := &telegramSender{}
	notifier := notify.NewNotifier(notify.Options{
		Recipients: cfg.Notify.Recipients,
		Send:       sender.Send,
		Render:     operatorSummary,
		Publisher:  publisher,
	})

	sessions := session.NewStore()
	isAdmin := cfg.Core.Telegram.IsAdmin
	orders := order.NewEngine(sessions, stores.Cart, stores.Settings, stores.Orders, notifier)
	admins := admin.NewEngine(sessions, stores.Catalog, stores.Settings, isAdmin)
	carts := cart.NewService(stores.Cart, stores.Catalog)

	return &App{
		cfg:       cfg,
		db:        db,
		stores:    stores,
		sessions:  sessions,
		handlers:  NewHandlers(isAdmin, stores, carts, sessions, orders, admins),
		publisher: publisher,
		sender:    sender,
	}, nil
}

// TelegramRunOptions builds the registry, routes and middleware chain.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	onAdminReject := func(c tele.Context) error {
		return tghelpers.SendText(c, textDenied)
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		IsAdmin:       a.cfg.Core.Telegram.IsAdmin,
		OnAdminReject: onAdminReject,
	})
	routes = append(routes, router.TextRoutes(a.handlers, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.sender.set(rt.Bot)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.Close()
			return nil
		},
	}, nil
}

// Close releases the broker connection and the database handle.
func (a *App) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
