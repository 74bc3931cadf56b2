package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/zdaf-zdaf/group-platform/config"
	"github.com/zdaf-zdaf/group-platform/internal/adapters/filestore"
	"github.com/zdaf-zdaf/group-platform/internal/adapters/memstore"
	redisstore "github.com/zdaf-zdaf/group-platform/internal/adapters/redis"
	"github.com/zdaf-zdaf/group-platform/internal/client"
	"github.com/zdaf-zdaf/group-platform/internal/observability/statsd"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
	"github.com/zdaf-zdaf/group-platform/internal/service"
)

const redisProgressPrefix = "portal:progress:"

// PortalDeps groups dependencies for NewPortal.
type PortalDeps struct {
	Config     *config.AppConfig
	Logger     *slog.Logger
	Redirector ports.Redirector
	Notifier   ports.Notifier
	// RedisClient overrides the connection built from Config.Redis.
	RedisClient redis.UniversalClient
	// HTTPClient overrides the transport used for backend calls.
	HTTPClient *http.Client
}

// Portal holds every wired portal component.
type Portal struct {
	Client      *client.Client
	Sessions    *service.SessionManager
	Auth        *service.AuthAPI
	Notices     *service.NoticeAPI
	Materials   *service.MaterialAPI
	Sets        *service.QuestionSetAPI
	Forum       *service.ForumAPI
	Submissions *service.SubmissionAPI
	Tracker     *service.NoticeTracker
	Progress    *service.ProgressStore
	Query       *service.Query

	logger  *slog.Logger
	metrics *statsd.Client
	redis   redis.UniversalClient
	// ownsRedis is set when the connection was opened here and must be closed here.
	ownsRedis bool
}

// portalStores groups the storage adapters chosen by configuration.
type portalStores struct {
	Durable   ports.SessionStorage
	Ephemeral ports.SessionStorage
	Progress  ports.KeyValueStore
}

// NewPortal builds the portal and restores any persisted session.
func NewPortal(ctx context.Context, deps PortalDeps) (*Portal, error) {
	if deps.Config == nil {
		return nil, errors.New("portal config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Portal{logger: logger, redis: deps.RedisClient}
	if cfg.UsesRedis() && p.redis == nil {
		rc, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		p.redis = rc
		p.ownsRedis = true
	}

	stores := buildStores(cfg.Session, p.redis)
	p.metrics = buildMetrics(logger, cfg.Observability.Metrics)

	policy := client.NewPolicy(client.PolicyOptions{
		Tokens: client.ChainTokens(
			client.TokenSourceFunc(func() (*oauth2.Token, error) {
				if p.Sessions == nil {
					return nil, nil
				}
				return p.Sessions.TokenSource().Token()
			}),
			service.StorageTokens{
				Storages: []ports.SessionStorage{stores.Durable, stores.Ephemeral},
				Restored: func() bool { return p.Sessions != nil && p.Sessions.Initialized() },
			},
		),
		OnUnauthorized: func(ctx context.Context) { p.Sessions.Expire(ctx) },
	})

	var sink statsd.Sink = statsd.Nop{}
	if p.metrics != nil {
		sink = p.metrics
	}
	c, err := client.New(client.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		UserAgent:  cfg.API.UserAgent,
		HTTPClient: deps.HTTPClient,
		Policy:     policy,
		Metrics:    sink,
		Logger:     logger,
	})
	if err != nil {
		p.closeQuietly()
		return nil, fmt.Errorf("build api client: %w", err)
	}
	p.Client = c

	p.Auth = service.NewAuthAPI(c)
	p.Sessions = service.NewSessionManager(service.SessionManagerOptions{
		Remote:     p.Auth,
		Durable:    stores.Durable,
		Ephemeral:  stores.Ephemeral,
		Redirector: deps.Redirector,
		Notifier:   deps.Notifier,
		Logger:     logger,
	})
	p.Notices = service.NewNoticeAPI(service.NoticeAPIOptions{
		Client:   c,
		Roles:    p.Sessions,
		Notifier: deps.Notifier,
		Logger:   logger,
	})
	p.Materials = service.NewMaterialAPI(c)
	p.Sets = service.NewQuestionSetAPI(c)
	p.Forum = service.NewForumAPI(c)
	p.Submissions = service.NewSubmissionAPI(c)
	p.Tracker = service.NewNoticeTracker(p.Notices, logger)
	p.Progress = service.NewProgressStore(service.ProgressStoreOptions{Store: stores.Progress, Logger: logger})
	p.Query = service.NewQuery(nil)

	if err := p.Sessions.Initialize(ctx); err != nil {
		p.closeQuietly()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return p, nil
}

func buildStores(cfg config.SessionConfig, rc redis.UniversalClient) portalStores {
	var stores portalStores

	if cfg.Backend == config.SessionBackendRedis && rc != nil {
		stores.Durable = redisstore.NewSessionStore(rc, redisstore.SessionStoreOptions{
			Profile: cfg.Profile,
			Expiry:  service.SessionExpiry,
		})
		stores.Progress = redisstore.NewKeyValueStore(rc, redisProgressPrefix+cfg.Profile+":")
	} else {
		stores.Durable = filestore.NewSessionStorage(cfg.Dir)
		stores.Progress = filestore.NewKeyValueStore(cfg.ProgressDir())
	}

	switch cfg.Ephemeral {
	case config.EphemeralShell:
		stores.Ephemeral = filestore.NewSessionStorage(shellSessionDir(cfg.Profile))
	default:
		stores.Ephemeral = memstore.NewSessionStorage()
	}
	return stores
}

// shellSessionDir is scoped to the invoking shell so an unremembered login ends with it.
func shellSessionDir(profile string) string {
	return filepath.Join(os.TempDir(), "portal-"+strconv.Itoa(os.Getppid()), profile)
}

// buildMetrics configures the StatsD sink; failures disable metrics instead of aborting.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	sink, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return sink
}

// Close releases the metrics socket and any Redis connection opened by NewPortal.
func (p *Portal) Close() error {
	var errs []error
	if p.metrics != nil {
		if err := p.metrics.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close statsd: %w", err))
		}
	}
	if p.ownsRedis && p.redis != nil {
		if err := p.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (p *Portal) closeQuietly() {
	if err := p.Close(); err != nil {
		p.logger.Warn("portal cleanup failed", "error", err)
	}
}
