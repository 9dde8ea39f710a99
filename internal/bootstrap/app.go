package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appsvc "miniblog/internal/app"
	"miniblog/internal/cache"
	"miniblog/internal/config"
	mysqlClient "miniblog/internal/platform/mysql"
	rabbitmqClient "miniblog/internal/platform/rabbitmq"
	redisClient "miniblog/internal/platform/redis"
	sqliteClient "miniblog/internal/platform/sqlite"
	"miniblog/internal/repository"
	"miniblog/internal/worker"
)

type App struct {
	Config         *config.Config
	DB             *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	ActivityWorker *worker.ActivityPersistWorker

	Identity *appsvc.IdentityService
	Taxonomy *appsvc.TaxonomyService
	Content  *appsvc.ContentService
	Sessions *appsvc.SessionService

	StartedAt time.Time
}

// Collaborators are the out-of-process pieces the services talk to.
type Collaborators struct {
	Sessions      appsvc.SessionStore
	CategoryCache appsvc.CategoryCache
	Activity      appsvc.ActivityPublisher
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	a := &App{Config: cfg, StartedAt: time.Now()}
	if err := a.open(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.WireServices(Collaborators{
		Sessions:      cache.NewSessionStore(a.Redis),
		CategoryCache: cache.NewCategoryCache(a.Redis, time.Duration(cfg.Redis.CategoryTTLSeconds)*time.Second),
		Activity:      rabbitmqClient.NewActivityPublisher(a.MQConn, cfg.RabbitMQ.ActivityQueue),
	})

	created, err := a.Taxonomy.Ensure(ctx, cfg.Blog.SeedCategories...)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("seed categories failed: %w", err)
	}
	if created > 0 {
		log.Printf("seeded %d categories", created)
	}
	return a, nil
}

func (a *App) open(ctx context.Context) error {
	db, err := openDatabase(ctx, a.Config)
	if err != nil {
		return err
	}
	a.DB = db
	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}

	a.Redis, err = redisClient.New(ctx, a.Config.Redis)
	if err != nil {
		return err
	}

	a.MQConn, err = rabbitmqClient.New(ctx, a.Config.RabbitMQ.URL, a.Config.RabbitMQ.ActivityQueue)
	if err != nil {
		return err
	}

	a.ActivityWorker = worker.NewActivityPersistWorker(a.MQConn, repository.NewActivityRepository(db), a.Config.RabbitMQ.ActivityQueue)
	if err := a.ActivityWorker.Start(ctx); err != nil {
		return fmt.Errorf("start activity worker failed: %w", err)
	}
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return sqliteClient.New(ctx, cfg.SQLite.Path)
	default:
		return mysqlClient.New(ctx, cfg.MySQL)
	}
}

// WireServices builds the core services on top of a.DB.
func (a *App) WireServices(c Collaborators) {
	tx := repository.NewTransactor(a.DB)
	userRepo := repository.NewUserRepository(a.DB)

	a.Identity = appsvc.NewIdentityService(tx, userRepo, c.Activity, a.Config.Auth.BcryptCost)
	a.Taxonomy = appsvc.NewTaxonomyService(repository.NewCategoryRepository(a.DB), c.CategoryCache)
	a.Content = appsvc.NewContentService(
		tx,
		repository.NewPostRepository(a.DB),
		repository.NewCommentRepository(a.DB),
		c.Activity,
		time.Now,
	)
	a.Sessions = appsvc.NewSessionService(
		a.Identity,
		c.Sessions,
		a.Config.Auth.JWTSecret,
		time.Duration(a.Config.Auth.SessionTTLMinutes)*time.Minute,
	)
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ActivityWorker != nil {
		a.ActivityWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
