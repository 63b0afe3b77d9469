// Package memory provides an in-memory implementation of the URL
// repository. All state is volatile and lives for the duration of the
// process; there is no persistence layer by design.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mrwormhole/shortify/internal/models"
	"github.com/mrwormhole/shortify/internal/storage"
)

// URLRepository is a mutex-guarded map from short code to URL record.
// Save performs its existence check and insert under one lock
// acquisition, so two concurrent requests for the same short code
// cannot both succeed.
type URLRepository struct {
	mu   sync.RWMutex
	urls map[string]models.URL
}

func NewURLRepository() *URLRepository {
	return &URLRepository{
		urls: make(map[string]models.URL),
	}
}

// Save inserts a new shortened URL keyed by shortCode. It returns
// storage.ErrShortCodeExists if the code is already taken.
func (r *URLRepository) Save(ctx context.Context, shortCode, originalURL string) (*models.URL, error) {
	const op = "storage.memory.URLRepository.Save"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.urls[shortCode]; ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrShortCodeExists)
	}

	url := models.URL{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		CreatedAt:   time.Now(),
	}
	r.urls[shortCode] = url

	return &url, nil
}

// GetByShortCode returns a snapshot of the URL record for shortCode.
// It has no side effects.
func (r *URLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "storage.memory.URLRepository.GetByShortCode"

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.urls[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrURLNotFound)
	}

	return &url, nil
}

// RegisterClick increments the click count for shortCode. Unknown
// codes are a no-op, not an error.
func (r *URLRepository) RegisterClick(ctx context.Context, shortCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if url, ok := r.urls[shortCode]; ok {
		url.ClickCount++
		r.urls[shortCode] = url
	}

	return nil
}

// GetAll returns snapshots of every stored URL record. The order is
// unspecified; callers must not rely on it.
func (r *URLRepository) GetAll(ctx context.Context) ([]*models.URL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	urls := make([]*models.URL, 0, len(r.urls))
	for _, url := range r.urls {
		urls = append(urls, &url)
	}

	return urls, nil
}
