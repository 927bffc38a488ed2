package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/bitwork/internal/database/migrations"
	"github.com/Abraxas-365/bitwork/internal/memstore"
	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/marketplace/application/applicationapi"
	"github.com/Abraxas-365/bitwork/marketplace/application/applicationinfra"
	"github.com/Abraxas-365/bitwork/marketplace/application/applicationsrv"
	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/job/jobapi"
	"github.com/Abraxas-365/bitwork/marketplace/job/jobinfra"
	"github.com/Abraxas-365/bitwork/marketplace/job/jobsrv"
	"github.com/Abraxas-365/bitwork/marketplace/message"
	"github.com/Abraxas-365/bitwork/marketplace/message/messageapi"
	"github.com/Abraxas-365/bitwork/marketplace/message/messageinfra"
	"github.com/Abraxas-365/bitwork/marketplace/message/messagesrv"
	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/marketplace/notification/notificationapi"
	"github.com/Abraxas-365/bitwork/marketplace/notification/notificationinfra"
	"github.com/Abraxas-365/bitwork/marketplace/notification/notificationsrv"
	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/marketplace/profile/profileapi"
	"github.com/Abraxas-365/bitwork/marketplace/profile/profileinfra"
	"github.com/Abraxas-365/bitwork/marketplace/profile/profilesrv"
	"github.com/Abraxas-365/bitwork/pkg/config"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/fsx"
	"github.com/Abraxas-365/bitwork/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/bitwork/pkg/iam/auth"
	"github.com/Abraxas-365/bitwork/pkg/logx"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// accessTokenTTL only matters for tokens minted locally (tests, dev tools);
// production tokens come from the identity provider.
const accessTokenTTL = time.Hour

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure. DB is nil on the in-memory store; Redis is nil when
	// no address is configured.
	DB         *sqlx.DB
	Redis      *redis.Client
	S3Client   *s3.Client
	FileSystem fsx.FileSystem
	Tx         dbx.Transactor

	TokenService *auth.JWTService

	// Marketplace Services
	ProfileService      *profilesrv.ProfileService
	NotificationService *notificationsrv.NotificationService
	JobService          *jobsrv.JobService
	ApplicationService  *applicationsrv.ApplicationService
	MessageService      *messagesrv.MessageService

	// API Handlers
	ProfileHandlers      *profileapi.Handlers
	NotificationHandlers *notificationapi.Handlers
	JobHandlers          *jobapi.Handlers
	ApplicationHandlers  *applicationapi.Handlers
	MessageHandlers      *messageapi.Handlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
}

// repositories is the storage a container runs on
type repositories struct {
	profiles      profile.Repository
	preferences   profile.PreferencesRepository
	jobs          job.Repository
	savedJobs     job.SavedJobRepository
	stats         job.StatsRepository
	listingCache  job.ListingCache
	applications  application.Repository
	notifications notification.Repository
	messages      message.Repository
}

// NewContainer initializes the dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	repos, err := c.initInfrastructure(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.initServices(repos)
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) (*repositories, error) {
	cfg := c.Config

	// 1. Avatar storage
	if cfg.Storage.Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, cfg.Storage.Bucket, cfg.Storage.Prefix)
	} else {
		logx.Warn("storage bucket is not set, avatars are kept in memory")
		c.FileSystem = fsx.NewMemFS(memFilesPrefix)
	}

	// 2. Redis, for the listing cache
	var listingCache job.ListingCache = jobinfra.NoopListingCache{}
	if cfg.Redis.Addr != "" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			logx.Warnf("Failed to connect to Redis: %v", err)
		}
		listingCache = jobinfra.NewRedisListingCache(c.Redis, cfg.Listing.CacheTTL)
	}

	// 3. Entity store
	if cfg.Memory {
		logx.Warn("running on the in-memory store, data is lost on exit")
		store := memstore.New()
		c.Tx = store
		if cfg.Redis.Addr == "" {
			listingCache = memstore.NewListingCache()
		}
		return &repositories{
			profiles:      store.Profiles(),
			preferences:   store.Preferences(),
			jobs:          store.Jobs(),
			savedJobs:     store.SavedJobs(),
			stats:         store.Stats(),
			listingCache:  listingCache,
			applications:  store.Applications(),
			notifications: store.Notifications(),
			messages:      store.Messages(),
		}, nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	c.DB = db
	c.Tx = dbx.NewTransactor(db)

	if cfg.Database.MigrateOnStart {
		if err := migrations.MigrateUp(ctx, db.DB); err != nil {
			return nil, err
		}
	}
	if err := migrations.CheckStatus(ctx, db.DB); err != nil {
		return nil, fmt.Errorf("schema check: %w", err)
	}

	return &repositories{
		profiles:      profileinfra.NewPostgresProfileRepository(db),
		preferences:   profileinfra.NewPostgresPreferencesRepository(db),
		jobs:          jobinfra.NewPostgresJobRepository(db),
		savedJobs:     jobinfra.NewPostgresSavedJobRepository(db),
		stats:         jobinfra.NewPostgresStatsRepository(db),
		listingCache:  listingCache,
		applications:  applicationinfra.NewPostgresApplicationRepository(db),
		notifications: notificationinfra.NewPostgresNotificationRepository(db),
		messages:      messageinfra.NewPostgresMessageRepository(db),
	}, nil
}

func (c *Container) initServices(repos *repositories) {
	// --- Identity ---
	c.TokenService = auth.NewJWTService(
		c.Config.Auth.JWTSecret,
		accessTokenTTL,
		c.Config.Auth.Issuer,
		c.Config.Auth.Audience,
	)

	// --- Domain Services ---
	c.ProfileService = profilesrv.NewProfileService(repos.profiles, repos.preferences, c.FileSystem)
	c.NotificationService = notificationsrv.NewNotificationService(repos.notifications)
	c.JobService = jobsrv.NewJobService(
		repos.jobs,
		repos.savedJobs,
		repos.stats,
		repos.listingCache,
		c.Tx,
	)
	c.ApplicationService = applicationsrv.NewApplicationService(
		repos.applications,
		repos.jobs,
		c.NotificationService,
		c.ProfileService,
		c.Tx,
	)
	c.MessageService = messagesrv.NewMessageService(repos.messages, c.NotificationService, c.Tx)

	// --- Handlers ---
	c.ProfileHandlers = profileapi.NewHandlers(c.ProfileService)
	c.NotificationHandlers = notificationapi.NewHandlers(c.NotificationService)
	c.JobHandlers = jobapi.NewHandlers(c.JobService)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService)
	c.MessageHandlers = messageapi.NewHandlers(c.MessageService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService, c.ProfileService)
}

// Health reports the reachability of each backing service
func (c *Container) Health(ctx context.Context) map[string]bool {
	status := map[string]bool{}
	if c.DB != nil {
		status["db"] = c.DB.PingContext(ctx) == nil
	}
	if c.Redis != nil {
		status["redis"] = c.Redis.Ping(ctx).Err() == nil
	}
	return status
}

// Close releases the connections opened by NewContainer
func (c *Container) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("close database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("close redis: %v", err)
		}
	}
}
