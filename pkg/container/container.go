package container

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"dat-backend/internal/config"
	alumniHandler "dat-backend/internal/domains/alumni/handler"
	alumniRepo "dat-backend/internal/domains/alumni/repository"
	alumniService "dat-backend/internal/domains/alumni/service"
	feedHandler "dat-backend/internal/domains/feed/handler"
	feedRepo "dat-backend/internal/domains/feed/repository"
	feedService "dat-backend/internal/domains/feed/service"
	slugHandler "dat-backend/internal/domains/slug/handler"
	slugRepo "dat-backend/internal/domains/slug/repository"
	slugService "dat-backend/internal/domains/slug/service"
	infraCache "dat-backend/internal/infrastructure/cache"
	"dat-backend/internal/infrastructure/sheets"
	"dat-backend/internal/infrastructure/storage"
	"dat-backend/pkg/cache"
	"dat-backend/pkg/jwt"
	"dat-backend/pkg/logger"
	"dat-backend/pkg/ratelimit"
)

// Container holds the full dependency graph, initialized in layer
// order: config, infrastructure, repositories, services, handlers.
type Container struct {
	Config     *config.Config
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Limiter    ratelimit.Limiter

	Loader        *sheets.Loader
	Writer        sheets.RowWriter
	SnapshotStore *storage.SnapshotStore // nil when MinIO is disabled
	AsynqClient   *asynq.Client

	ForwardMap slugRepo.ForwardMap
	AliasStore slugRepo.AliasStore
	RuleWriter slugRepo.RuleWriter
	AlumniRepo alumniRepo.Repository
	FeedRepo   feedRepo.Repository

	Resolver       slugService.Resolver
	ForwardService slugService.ForwardService
	AlumniService  alumniService.Service
	FeedService    feedService.Service

	SlugAdminHandler *slugHandler.AdminHandler
	SlugDebugHandler *slugHandler.DebugHandler
	AlumniHandler    *alumniHandler.Handler
	FeedHandler      *feedHandler.Handler

	redisCache *infraCache.RedisCache
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)

	c.initInfrastructure()
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", map[string]interface{}{
		"env":   cfg.App.Environment,
		"minio": c.SnapshotStore != nil,
	})
	return c, nil
}

// initInfrastructure connects the shared collaborators. Redis being
// down is not fatal: the loader and limiter fall back to an in-process
// cache and the API keeps serving.
func (c *Container) initInfrastructure() {
	cfg := c.Config

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, using in-memory cache", map[string]interface{}{
			"host": cfg.Redis.Host, "error": err.Error(),
		})
		c.Cache = infraCache.NewMemoryCache()
	} else {
		c.Cache = redisCache
		c.redisCache = redisCache
	}

	c.Loader = sheets.NewLoader(c.Cache, cfg.Sheets.FallbackDir)
	c.Writer = sheets.NewWebhookWriter(cfg.Sheets.AppendURL, cfg.Sheets.WebhookSecret)
	c.JWTManager = jwt.NewManager(cfg.Admin.JWTSecret)
	c.Limiter = ratelimit.NewCacheLimiter(c.Cache, cfg.Admin.RateLimit,
		time.Duration(cfg.Admin.RateWindowSecs)*time.Second)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if cfg.MinIO.Enabled {
		store, err := storage.NewSnapshotStore(cfg.MinIO)
		if err != nil {
			logger.Warn("minio unavailable, snapshots stay on disk only", map[string]interface{}{
				"endpoint": cfg.MinIO.Endpoint, "error": err.Error(),
			})
		} else {
			c.SnapshotStore = store
		}
	}
}

func (c *Container) initRepositories() {
	cfg := c.Config.Sheets

	c.ForwardMap = slugRepo.NewCSVForwardMap(c.Loader, cfg.SlugsURL(sheets.ExportURL))
	c.AliasStore = slugRepo.NewCSVAliasStore(c.Loader, c.Cache, cfg.RosterURL(sheets.ExportURL))
	c.RuleWriter = slugRepo.NewRuleWriter(c.Writer, cfg.SlugsTab)
	c.AlumniRepo = alumniRepo.NewCSVRepository(c.Loader, c.Writer, cfg.RosterURL(sheets.ExportURL))
	c.FeedRepo = feedRepo.NewCSVRepository(c.Loader, c.Writer, cfg.FeedURL(sheets.ExportURL))
}

func (c *Container) initServices() {
	c.Resolver = slugService.NewResolver(c.ForwardMap, c.AliasStore)
	c.ForwardService = slugService.NewForwardService(c.Resolver, c.ForwardMap, c.AliasStore, c.AsynqClient)
	c.FeedService = feedService.NewService(c.FeedRepo)
	c.AlumniService = alumniService.NewService(c.AlumniRepo, c.FeedService)
}

func (c *Container) initHandlers() {
	c.SlugAdminHandler = slugHandler.NewAdminHandler(c.ForwardService, c.Config.Admin.AutoCanonicalize)
	c.SlugDebugHandler = slugHandler.NewDebugHandler(c.ForwardService)
	c.AlumniHandler = alumniHandler.NewHandler(c.AlumniService)
	c.FeedHandler = feedHandler.NewHandler(c.FeedService)
}

// Cleanup releases external connections on shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Warn("asynq client close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			logger.Warn("redis close failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
