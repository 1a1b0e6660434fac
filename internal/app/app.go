package app

import (
	"context"
	"fmt"

	"ngo-filer/internal/repository"
	"ngo-filer/internal/service"
	"ngo-filer/pkg/config"
	"ngo-filer/pkg/lock"
	"ngo-filer/pkg/postgres"
	"ngo-filer/pkg/storage"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the wired services shared by the server and the CLI.
type App struct {
	Config *config.Config

	Users    repository.UserRepository
	Archive  storage.Storage
	Ledger   *service.LedgerService
	Audit    *service.AuditService
	Document *service.DocumentService
	Report   *service.ReportService
	Export   *service.ExportService

	db     *pgxpool.Pool
	redis  *redis.Client
	logger *zap.Logger
}

// New connects the configured backends and builds the service graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	a := &App{Config: cfg, logger: logger}

	var (
		ledgerRepo repository.LedgerRepository
		auditRepo  repository.AuditRepository
		err        error
	)

	switch cfg.Ledger.Backend {
	case config.LedgerBackendPostgres:
		a.db, err = postgres.NewPool(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, a.db, logger); err != nil {
			a.Close()
			return nil, err
		}
		ledgerRepo = repository.NewPgLedgerRepository(a.db, logger)
		auditRepo = repository.NewPgAuditRepository(a.db, logger)
		a.Users = repository.NewPgUserRepository(a.db, logger)
	default:
		if ledgerRepo, err = repository.NewFileLedgerRepository(cfg.Ledger.FilePath, logger); err != nil {
			return nil, err
		}
		if auditRepo, err = repository.NewFileAuditRepository(cfg.Ledger.AuditPath, logger); err != nil {
			return nil, err
		}
		if a.Users, err = repository.NewFileUserRepository(cfg.Ledger.UsersPath, logger); err != nil {
			return nil, err
		}
	}

	var locker lock.Locker = lock.NewKeyedMutex()
	var ledgerOpts []service.LedgerOption
	if cfg.Redis.Addr != "" {
		a.redis, err = lock.NewRedisClient(&cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		locker = lock.NewRedisLocker(a.redis, cfg.Redis.LockTTL, logger)
		ledgerOpts = append(ledgerOpts, service.WithSharedRepository())
		logger.Info("Using Redis document locks", zap.String("addr", cfg.Redis.Addr))
	}

	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		a.Archive, err = storage.NewS3Storage(ctx, &cfg.Storage, logger)
	default:
		a.Archive, err = storage.NewLocalStorage(cfg.Storage.LocalDir, logger)
	}
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize document storage: %w", err)
	}

	profile := cfg.Profile
	approval := service.NewApprovalService(logger)

	a.Ledger, err = service.NewLedgerService(ctx, ledgerRepo, locker, approval, logger, ledgerOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Audit = service.NewAuditService(auditRepo, logger)

	a.Document = service.NewDocumentService(
		service.NewValidationService(profile, logger),
		service.NewClassificationService(profile, logger),
		service.NewFilingService(profile, logger),
		a.Ledger,
		a.Audit,
		a.Archive,
		logger,
	)
	a.Report = service.NewReportService(a.Ledger, logger)
	a.Export = service.NewExportService(a.Ledger, a.Audit, logger)

	logger.Info("Services initialized",
		zap.String("ledger_backend", cfg.Ledger.Backend),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("organization", profile.NGOName),
	)
	return a, nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
