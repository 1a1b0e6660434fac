package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ngo-filer/internal/app"
	"ngo-filer/internal/dto"
	"ngo-filer/internal/models"
	"ngo-filer/internal/service"
	"ngo-filer/pkg/auth"
	"ngo-filer/pkg/config"
	"ngo-filer/pkg/logger"

	"go.uber.org/zap"
)

// seed creates one demo account per role and files every sample document in
// SEED_DIR. A sample is a document next to a JSON file with the same base
// name holding its extracted fields.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer a.Close()

	appLogger.Info("Starting seeding...")

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
	authService := service.NewAuthService(a.Users, jwtManager, appLogger)
	if err := seedUsers(ctx, authService, getEnv("SEED_PASSWORD", "changeme"), appLogger); err != nil {
		appLogger.Fatal("Failed to seed users", zap.Error(err))
	}

	seedDir := getEnv("SEED_DIR", filepath.Join("cmd", "seed", "samples"))
	cacheFile := filepath.Join(seedDir, ".seed_cache.json")
	if err := seedDocuments(ctx, a.Document, seedDir, cacheFile, appLogger); err != nil {
		appLogger.Fatal("Failed to seed documents", zap.Error(err))
	}

	appLogger.Info("Seeding completed successfully!")
}

func seedUsers(ctx context.Context, authService *service.AuthService, password string, logger *zap.Logger) error {
	roles := []models.Role{models.RoleAdmin, models.RoleApprover, models.RoleContributor, models.RoleViewer}
	for _, role := range roles {
		_, err := authService.Register(ctx, &dto.RegisterRequest{
			Username: string(role),
			Email:    string(role) + "@ngo.local",
			Password: password,
			Role:     string(role),
		})
		if errors.Is(err, service.ErrUserExists) {
			logger.Info("User already exists, skipping", zap.String("role", string(role)))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create %s user: %w", role, err)
		}
		logger.Info("Created demo user", zap.String("email", string(role)+"@ngo.local"))
	}
	return nil
}

// ProcessedFile represents a seeded document in the cache
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	DocID       string    `json:"doc_id"`
	ProcessedAt time.Time `json:"processed_at"`
}

// CacheData stores information about seeded files
type CacheData struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"` // key: file path
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ProcessedFiles: make(map[string]ProcessedFile),
	}

	data, err := os.ReadFile(cacheFile)
	if errors.Is(err, os.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

type sample struct {
	path    string
	hash    string
	request service.ProcessRequest
}

func seedDocuments(ctx context.Context, docs *service.DocumentService, seedDir, cacheFile string, logger *zap.Logger) error {
	entries, err := os.ReadDir(seedDir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("Seed directory not found, skipping documents", zap.String("dir", seedDir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read seed directory: %w", err)
	}

	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will process all files", zap.Error(err))
		cache = &CacheData{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	var samples []sample
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) == ".json" {
			continue
		}
		docPath := filepath.Join(seedDir, name)
		fieldsPath := strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".json"

		content, err := os.ReadFile(docPath)
		if err != nil {
			logger.Warn("Failed to read sample, skipping", zap.String("path", docPath), zap.Error(err))
			continue
		}
		hash := service.Checksum(content)

		if cached, exists := cache.ProcessedFiles[docPath]; exists && cached.FileHash == hash {
			logger.Info("Sample already seeded, skipping",
				zap.String("path", docPath),
				zap.String("doc_id", cached.DocID),
			)
			continue
		}

		raw, err := os.ReadFile(fieldsPath)
		if err != nil {
			logger.Warn("Sample has no fields file, skipping", zap.String("path", docPath), zap.Error(err))
			continue
		}
		var fields dto.ParsedFieldsRequest
		if err := json.Unmarshal(raw, &fields); err != nil {
			logger.Warn("Invalid fields file, skipping", zap.String("path", fieldsPath), zap.Error(err))
			continue
		}

		samples = append(samples, sample{
			path: docPath,
			hash: hash,
			request: service.ProcessRequest{
				Content:    content,
				SourceName: name,
				Fields:     fields.ToModel(),
				Actor:      "seed",
			},
		})
	}

	reqs := make([]service.ProcessRequest, len(samples))
	for i, s := range samples {
		reqs[i] = s.request
	}

	now := time.Now()
	for _, res := range docs.ProcessBatch(ctx, reqs) {
		s := samples[res.Index]
		if res.Err != nil {
			logger.Error("Failed to seed sample", zap.String("path", s.path), zap.Error(res.Err))
			continue
		}
		logger.Info("Seeded sample",
			zap.String("path", s.path),
			zap.String("doc_id", res.Document.DocID),
			zap.String("file_name", res.Document.Filing.FileName),
		)
		cache.ProcessedFiles[s.path] = ProcessedFile{
			FilePath:    s.path,
			FileHash:    s.hash,
			DocID:       res.Document.DocID,
			ProcessedAt: now,
		}
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		logger.Info("Cache saved", zap.Int("processed_files", len(cache.ProcessedFiles)))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
