package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/config"
	"github.com/oksasatya/bookshelf/internal/infrastructure/search"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router builds its module dependencies from these singletons.
// Optional clients (uploader, index, publisher) stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	sessionTokens *helpers.SessionTokens

	uploader  *helpers.GCSUploader
	rabbitPub *helpers.RabbitPublisher
	bookIndex *search.BookIndex
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		return helpers.NewDiscardLogger()
	}
	return logger
}
func SetPGPool(p *pgxpool.Pool) { pgPool = p }
func GetPGPool() *pgxpool.Pool  { return pgPool }
func SetRedis(r *redis.Client)  { redisClient = r }
func GetRedis() *redis.Client   { return redisClient }

func SetSessionTokens(t *helpers.SessionTokens) { sessionTokens = t }

// GetSessionTokens panics when unset; a server without a signing key must not start.
func GetSessionTokens() *helpers.SessionTokens {
	if sessionTokens == nil {
		panic("container: session tokens not configured")
	}
	return sessionTokens
}

func SetUploader(u *helpers.GCSUploader)      { uploader = u }
func GetUploader() *helpers.GCSUploader       { return uploader }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetBookIndex(i *search.BookIndex)        { bookIndex = i }
func GetBookIndex() *search.BookIndex         { return bookIndex }
