// Package app wires configuration, stores, the event publisher, the
// service and the HTTP server together.
package app

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "log"
    "net/http"
    "time"

    awsconfig "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/service/dynamodb"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/vehicle-advertisement/internal/config"
    "github.com/iliyamo/vehicle-advertisement/internal/database"
    "github.com/iliyamo/vehicle-advertisement/internal/handler"
    "github.com/iliyamo/vehicle-advertisement/internal/middleware"
    "github.com/iliyamo/vehicle-advertisement/internal/queue"
    "github.com/iliyamo/vehicle-advertisement/internal/repository"
    "github.com/iliyamo/vehicle-advertisement/internal/router"
    "github.com/iliyamo/vehicle-advertisement/internal/service"
)

// App is a fully wired server.
type App struct {
    Config  config.Config
    Echo    *echo.Echo
    Service *service.Service

    closers []func() error
}

// New builds the stores for cfg.StoreDriver, the optional RabbitMQ
// publisher and Redis client, the service and the echo instance.  Cache
// and rate limit settings are read from the environment.
func New(ctx context.Context, cfg config.Config) (*App, error) {
    a := &App{Config: cfg}

    dealers, listings, err := a.openStores(ctx)
    if err != nil {
        a.Close()
        return nil, err
    }

    var opts []service.Option
    if cfg.EventsEnabled {
        pub := queue.NewPublisher(cfg.AMQPURL, cfg.EventsQueue)
        a.closers = append(a.closers, pub.Close)
        opts = append(opts, service.WithEvents(pub))
    }
    a.Service = service.New(dealers, listings, opts...)

    rdb := config.NewRedisClient(ctx, config.LoadRedisConfig())
    if rdb != nil {
        a.closers = append(a.closers, rdb.Close)
    }
    a.Echo = newEcho(a.Service, rdb, config.LoadRateLimitConfig(), config.LoadCacheConfig())
    return a, nil
}

func newEcho(svc *service.Service, rdb *redis.Client, rl config.RateLimitConfig, cc config.CacheConfig) *echo.Echo {
    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
        LogMethod:  true,
        LogURI:     true,
        LogStatus:  true,
        LogLatency: true,
        LogError:   true,
        LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
            if v.Error != nil {
                log.Printf("server: %s %s %d %s err=%v", v.Method, v.URI, v.Status, v.Latency, v.Error)
                return nil
            }
            log.Printf("server: %s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
            return nil
        },
    }))

    router.RegisterRoutes(e)
    router.RegisterAdvertisement(e, handler.NewAdvertisementHandler(svc),
        middleware.NewTokenBucket(rl, rdb),
        middleware.NewRedisCache(cc, rdb),
    )
    return e
}

func (a *App) openStores(ctx context.Context) (repository.DealerStore, repository.ListingStore, error) {
    cfg := a.Config
    switch cfg.StoreDriver {
    case config.DriverMySQL:
        db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
        if err != nil {
            return nil, nil, fmt.Errorf("open mysql: %w", err)
        }
        a.closers = append(a.closers, db.Close)
        if cfg.DBAutoMigrate {
            if err := database.Migrate(ctx, db); err != nil {
                return nil, nil, fmt.Errorf("migrate: %w", err)
            }
        }
        return repository.NewDealerRepo(db), repository.NewListingRepo(db), nil
    case config.DriverDynamoDB:
        client, err := NewDynamoClient(ctx, cfg)
        if err != nil {
            return nil, nil, err
        }
        return repository.NewDynamoDealerStore(client, cfg.DynamoDealersTable),
            repository.NewDynamoListingStore(client, cfg.DynamoListingsTable), nil
    case config.DriverMemory, "":
        return repository.NewMemoryDealerStore(), repository.NewMemoryListingStore(), nil
    }
    return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// NewDynamoClient loads the default AWS configuration chain.  A non-empty
// DynamoEndpoint points the client at a local DynamoDB.
func NewDynamoClient(ctx context.Context, cfg config.Config) (*dynamodb.Client, error) {
    awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
    if err != nil {
        return nil, fmt.Errorf("load aws config: %w", err)
    }
    return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
        if cfg.DynamoEndpoint != "" {
            o.BaseEndpoint = &cfg.DynamoEndpoint
        }
    }), nil
}

// OpenDB opens the MySQL database described by cfg.  Used by the migrate command.
func OpenDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
    return database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// Run serves HTTP on cfg.Port until ctx is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
    addr := ":" + a.Config.Port
    log.Printf("server: listening on %s (env=%s, store=%s)", addr, a.Config.Env, a.Config.StoreDriver)

    errCh := make(chan error, 1)
    go func() { errCh <- a.Echo.Start(addr) }()

    select {
    case err := <-errCh:
        if errors.Is(err, http.ErrServerClosed) {
            return nil
        }
        return err
    case <-ctx.Done():
    }
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    return a.Echo.Shutdown(shutdownCtx)
}

// Close releases every resource opened by New, most recent first.
func (a *App) Close() error {
    var errs []error
    for i := len(a.closers) - 1; i >= 0; i-- {
        if err := a.closers[i](); err != nil {
            errs = append(errs, err)
        }
    }
    a.closers = nil
    return errors.Join(errs...)
}
