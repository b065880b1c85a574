package cli

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/worshipflow/planner-core/internal/adapters/driven/calendar"
	"github.com/worshipflow/planner-core/internal/adapters/driven/postgres"
	redisadapter "github.com/worshipflow/planner-core/internal/adapters/driven/redis"
	"github.com/worshipflow/planner-core/internal/core/ports/driven"
	"github.com/worshipflow/planner-core/internal/core/ports/driving"
	"github.com/worshipflow/planner-core/internal/core/services"
)

// app is the wired set of adapters and services behind the commands
type app struct {
	db          *postgres.DB
	redisClient *redis.Client
	notifier    *redisadapter.ConflictNotifier

	planning  driving.PlanningService
	selection driving.SelectionService
}

// openApp connects to storage and wires the services
func openApp(ctx context.Context, cfg Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	// ===== PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.db = db

	if cfg.MigrateOnStart {
		if err := db.InitSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}
	log.Println("PostgreSQL connected")

	// ===== Redis (optional) =====
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.redisClient = redis.NewClient(opts)
		if err := a.redisClient.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Println("Redis connected")
	}

	cal, err := loadCalendar(cfg.CalendarFile)
	if err != nil {
		a.Close()
		return nil, err
	}

	writerCfg := services.WriterConfig{
		ServiceStore:     postgres.NewServiceStore(db),
		IndexStore:       postgres.NewSelectionIndexStore(db),
		OrphanArchive:    postgres.NewOrphanArchive(db),
		Calendar:         cal,
		Logger:           logger,
		MaxMergeAttempts: cfg.MaxMergeAttempts,
		LockTTL:          cfg.LockTTL,
		LockWait:         cfg.LockWait,
	}

	// ===== Write Lock (Redis if available, otherwise PostgreSQL advisory locks) =====
	var lock driven.WriteLock
	if a.redisClient != nil {
		lock = redisadapter.NewWriteLock(a.redisClient)
		a.notifier = redisadapter.NewConflictNotifier(a.redisClient, cfg.ConflictHistory)
		writerCfg.Notifier = a.notifier
		log.Println("Using Redis write lock and conflict notifier")
	} else {
		lock = postgres.NewAdvisoryWriteLock(db)
		log.Println("Using PostgreSQL advisory lock")
	}
	writerCfg.Lock = lock

	a.planning = services.NewPlanningService(writerCfg)
	a.selection = services.NewSelectionService(writerCfg)
	return a, nil
}

func openDB(ctx context.Context, cfg Config) (*postgres.DB, error) {
	dbConfig := postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	}
	db, err := postgres.Connect(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// loadCalendar reads the calendar file, or the built-in calendar when path is empty
func loadCalendar(path string) (*calendar.Calendar, error) {
	if path == "" {
		return calendar.Default()
	}
	cal, err := calendar.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load calendar %s: %w", path, err)
	}
	return cal, nil
}

// Close releases storage connections
func (a *app) Close() {
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
