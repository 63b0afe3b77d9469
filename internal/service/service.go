// Package service implements the shortening engine: short code
// validation and generation, click tracking and statistics over a URL
// repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrwormhole/shortify/internal/models"
	"github.com/mrwormhole/shortify/internal/storage"
)

var (
	// ErrInvalidURL is returned when the original URL doesn't start with http:// or https://.
	ErrInvalidURL = errors.New("url must start with http:// or https://")
	// ErrInvalidCustomCode is returned when a custom short code violates the length,
	// charset or reserved word rules.
	ErrInvalidCustomCode = errors.New("invalid custom code")
	// ErrMaxRetriesExceeded is returned when the maximum number of retries for generating a short code is exceeded.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")
)

const (
	customCodeMinLen = 3
	customCodeMaxLen = 20
)

// reservedCodes are fixed API path segments that custom codes must not
// shadow. Matched case-insensitively.
var reservedCodes = map[string]struct{}{
	"api":   {},
	"stats": {},
	"admin": {},
	"www":   {},
	"app":   {},
	"short": {},
	"url":   {},
	"list":  {},
}

// URLRepository defines the interface for working with URLs at the business logic layer.
type URLRepository interface {
	// Save inserts a new shortened URL into the repository as one atomic
	// check-and-insert. Returns storage.ErrShortCodeExists if the short
	// code is already taken.
	Save(ctx context.Context, shortCode, originalURL string) (*models.URL, error)

	// GetByShortCode retrieves a URL by its short code without side effects.
	// Returns storage.ErrURLNotFound if the code doesn't exist.
	GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error)

	// RegisterClick increments the click count for a short code.
	// Unknown codes are a no-op.
	RegisterClick(ctx context.Context, shortCode string) error

	// GetAll retrieves snapshots of every stored URL in unspecified order.
	GetAll(ctx context.Context) ([]*models.URL, error)
}

// URLService provides methods to manage URL shortening operations.
type URLService struct {
	repo    URLRepository
	counter codeCounter
}

// NewURLService creates a new instance of URLService with the provided repository.
func NewURLService(repo URLRepository) *URLService {
	svc := &URLService{repo: repo}
	svc.counter.seed(counterSeed)
	return svc
}

// ShortenURL registers originalURL under a short code and returns the
// created URL model. When customCode is empty a code is generated from
// the counter (base62, with a hashed fallback on collision); otherwise
// customCode is validated and used verbatim.
func (s *URLService) ShortenURL(ctx context.Context, originalURL, customCode string) (*models.URL, error) {
	const op = "service.URLService.ShortenURL"

	if !validOriginalURL(originalURL) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidURL)
	}

	if customCode != "" {
		if err := validateCustomCode(customCode); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		url, err := s.repo.Save(ctx, customCode, originalURL)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	return s.shortenGenerated(ctx, originalURL)
}

// shortenGenerated runs the auto-generation algorithm: base62 of the
// next counter value, then a hash-derived code on collision. A collided
// fallback is retried with a fresh counter value up to maxRetries times
// rather than overwriting an existing entry.
func (s *URLService) shortenGenerated(ctx context.Context, originalURL string) (*models.URL, error) {
	const op = "service.URLService.ShortenURL"
	const maxRetries = 5

	for i := 0; i < maxRetries; i++ {
		n := s.counter.next()

		url, err := s.repo.Save(ctx, encodeBase62(n), originalURL)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, storage.ErrShortCodeExists) {
			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		url, err = s.repo.Save(ctx, fallbackCode(originalURL, n), originalURL)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, storage.ErrShortCodeExists) {
			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// ResolveShortCode retrieves the original URL associated with the provided
// short code and records the click.
func (s *URLService) ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.ResolveShortCode"

	url, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if err := s.repo.RegisterClick(ctx, shortCode); err != nil {
		return nil, fmt.Errorf("%s: failed to register click: %w", op, err)
	}

	return url, nil
}

// RecordClick increments the click count for the provided short code.
// Unknown codes are a no-op, not an error.
func (s *URLService) RecordClick(ctx context.Context, shortCode string) error {
	const op = "service.URLService.RecordClick"

	if err := s.repo.RegisterClick(ctx, shortCode); err != nil {
		return fmt.Errorf("%s: failed to register click: %w", op, err)
	}

	return nil
}

// GetURLStats retrieves the statistics snapshot for the URL associated
// with the provided short code. It doesn't count as a click.
func (s *URLService) GetURLStats(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.GetURLStats"

	url, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return url, nil
}

// ListURLs retrieves statistics snapshots for every shortened URL.
// The order of the returned slice is unspecified.
func (s *URLService) ListURLs(ctx context.Context) ([]*models.URL, error) {
	const op = "service.URLService.ListURLs"

	urls, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list urls: %w", op, err)
	}

	return urls, nil
}

func validOriginalURL(originalURL string) bool {
	return strings.HasPrefix(originalURL, "http://") || strings.HasPrefix(originalURL, "https://")
}

func validateCustomCode(code string) error {
	if len(code) < customCodeMinLen || len(code) > customCodeMaxLen {
		return ErrInvalidCustomCode
	}

	for _, c := range []byte(code) {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return ErrInvalidCustomCode
		}
	}

	if _, ok := reservedCodes[strings.ToLower(code)]; ok {
		return ErrInvalidCustomCode
	}

	return nil
}
