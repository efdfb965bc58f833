package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/application"
	"github.com/oksasatya/bookshelf/internal/container"
	"github.com/oksasatya/bookshelf/internal/infrastructure/catalog"
	pginfra "github.com/oksasatya/bookshelf/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/bookshelf/internal/interface/http"
	"github.com/oksasatya/bookshelf/internal/router/modules"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

// Deps is everything the HTTP modules need. Tests build it from fakes; production uses BuildDeps.
type Deps struct {
	Accounts *application.AccountService
	Books    *application.BookService
	Notes    *application.NoteService
	Profiles *application.ProfileService
	Catalog  *application.CatalogService

	Tokens  *helpers.SessionTokens
	Cookies *helpers.CookieManager
	Redis   *redis.Client
	Logger  *logrus.Logger

	AppName      string
	DebugMetrics bool
}

// BuildDeps wires repositories and services from the container singletons.
func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	tokens := container.GetSessionTokens()

	pool := container.GetPGPool()
	users := pginfra.NewUserRepository(pool)
	books := pginfra.NewBookRepository(pool)
	notes := pginfra.NewNoteRepository(pool)

	// Only assign non-nil pointers to the interfaces below; a typed nil would look configured.
	var publisher application.JobPublisher
	if p := container.GetRabbitPub(); p != nil && cfg.MailSendEnabled {
		publisher = p
	}
	var resets application.ResetTokenStore
	var cache redis.Cmdable
	if rdb != nil {
		resets = application.NewRedisResetTokens(rdb)
		cache = rdb
	}
	var index application.BookIndexer
	if i := container.GetBookIndex(); i != nil {
		index = i
	}
	var uploader helpers.ObjectUploader
	if u := container.GetUploader(); u != nil {
		uploader = u
	}

	notifier := application.NewNotifier(publisher, cfg.AppName, cfg.AppBaseURL, logger)

	accounts := application.NewAccountService(users, tokens, resets, notifier, logger)
	accounts.AppBaseURL = cfg.AppBaseURL
	accounts.ResetRequireToken = cfg.ResetRequireToken
	accounts.ResetTokenTTL = cfg.ResetTokenTTL

	googleBooks := catalog.NewGoogleBooks(cfg.GoogleBooksURL, cfg.GoogleBooksAPIKey, cache, cfg.CatalogCacheTTL, logger)

	return Deps{
		Accounts:     accounts,
		Books:        application.NewBookService(books, notes, index, uploader, logger),
		Notes:        application.NewNoteService(notes, books, logger),
		Profiles:     application.NewProfileService(users, books, notes, logger),
		Catalog:      application.NewCatalogService(googleBooks, logger),
		Tokens:       tokens,
		Cookies:      helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		Redis:        rdb,
		Logger:       logger,
		AppName:      cfg.AppName,
		DebugMetrics: cfg.DebugMetricsEnabled,
	}
}

// InitModules registers every feature module. Call once during startup.
func InitModules(r *Registry, d Deps) {
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(d.Accounts, d.Cookies, d.Logger), d.Tokens, d.Redis))

	users := handlers.NewUserHandler(d.Accounts, d.Profiles, d.Logger)
	r.Add(modules.NewUserModule(users, d.Tokens, d.Redis))
	r.Add(modules.NewBookModule(handlers.NewBookHandler(d.Books, d.Logger), d.Tokens, d.Redis))
	r.Add(modules.NewNoteModule(handlers.NewNoteHandler(d.Notes, d.Logger), d.Tokens, d.Redis))
	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(d.Catalog, d.Logger), d.Tokens, d.Redis))
	r.Add(modules.NewDebugModule(d.Redis, d.DebugMetrics))

	r.AddPages(modules.NewPageModule(handlers.NewPageHandler(d.AppName, d.Logger)))
}
