package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"ngo-filer/internal/models"
	"ngo-filer/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrDuplicateEmail = errors.New("email already registered")

// FileUserRepository backs accounts with a JSON file when no database is configured.
type FileUserRepository struct {
	path   string
	logger *zap.Logger

	mu    sync.Mutex
	users []*models.User
}

func NewFileUserRepository(path string, logger *zap.Logger) (*FileUserRepository, error) {
	r := &FileUserRepository{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(data, &r.users); err != nil {
		return nil, fmt.Errorf("failed to decode users file: %w", err)
	}
	return r, nil
}

func (r *FileUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}

	cp := *user
	next := append(append([]*models.User(nil), r.users...), &cp)

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(r.path, bytes.NewReader(data), 0o600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	r.users = next
	return nil
}

func (r *FileUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *FileUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

var _ UserRepository = (*FileUserRepository)(nil)
