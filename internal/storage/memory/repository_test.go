package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwormhole/shortify/internal/storage"
)

func TestURLRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := NewURLRepository()

		url, err := repo.Save(ctx, "abc123", "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "abc123", url.ShortCode)
		assert.Equal(t, "https://example.com", url.OriginalURL)
		assert.Zero(t, url.ClickCount)
		assert.False(t, url.CreatedAt.IsZero())
	})

	t.Run("short code exists", func(t *testing.T) {
		repo := NewURLRepository()

		_, err := repo.Save(ctx, "abc123", "https://example.com")
		require.NoError(t, err)

		url, err := repo.Save(ctx, "abc123", "https://other.com")

		assert.ErrorIs(t, err, storage.ErrShortCodeExists)
		assert.Nil(t, url)

		got, err := repo.GetByShortCode(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.OriginalURL)
	})

	t.Run("concurrent saves of one code collide", func(t *testing.T) {
		repo := NewURLRepository()

		const workers = 16
		errs := make(chan error, workers)
		var wg sync.WaitGroup

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Save(ctx, "race", "https://example.com")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var succeeded int
		for err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, storage.ErrShortCodeExists)
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestURLRepository_GetByShortCode(t *testing.T) {
	ctx := context.Background()

	t.Run("url not found", func(t *testing.T) {
		repo := NewURLRepository()

		url, err := repo.GetByShortCode(ctx, "missing")

		assert.ErrorIs(t, err, storage.ErrURLNotFound)
		assert.Nil(t, url)
	})

	t.Run("returns a snapshot", func(t *testing.T) {
		repo := NewURLRepository()

		_, err := repo.Save(ctx, "abc123", "https://example.com")
		require.NoError(t, err)

		before, err := repo.GetByShortCode(ctx, "abc123")
		require.NoError(t, err)

		require.NoError(t, repo.RegisterClick(ctx, "abc123"))

		assert.Zero(t, before.ClickCount)

		after, err := repo.GetByShortCode(ctx, "abc123")
		require.NoError(t, err)
		assert.EqualValues(t, 1, after.ClickCount)
	})
}

func TestURLRepository_RegisterClick(t *testing.T) {
	ctx := context.Background()

	t.Run("increments click count", func(t *testing.T) {
		repo := NewURLRepository()

		_, err := repo.Save(ctx, "abc123", "https://example.com")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.RegisterClick(ctx, "abc123"))
		}

		url, err := repo.GetByShortCode(ctx, "abc123")
		require.NoError(t, err)
		assert.EqualValues(t, 3, url.ClickCount)
	})

	t.Run("unknown code is a no-op", func(t *testing.T) {
		repo := NewURLRepository()

		require.NoError(t, repo.RegisterClick(ctx, "missing"))

		urls, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("concurrent clicks are not lost", func(t *testing.T) {
		repo := NewURLRepository()

		_, err := repo.Save(ctx, "abc123", "https://example.com")
		require.NoError(t, err)

		const clicks = 100
		var wg sync.WaitGroup
		for i := 0; i < clicks; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = repo.RegisterClick(ctx, "abc123")
			}()
		}
		wg.Wait()

		url, err := repo.GetByShortCode(ctx, "abc123")
		require.NoError(t, err)
		assert.EqualValues(t, clicks, url.ClickCount)
	})
}

func TestURLRepository_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty repository", func(t *testing.T) {
		repo := NewURLRepository()

		urls, err := repo.GetAll(ctx)

		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("one snapshot per saved url", func(t *testing.T) {
		repo := NewURLRepository()

		want := map[string]string{
			"abc123": "https://example.com",
			"def456": "https://example.org",
			"ghi789": "https://example.net",
		}
		for code, url := range want {
			_, err := repo.Save(ctx, code, url)
			require.NoError(t, err)
		}

		urls, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, urls, len(want))

		got := make(map[string]string, len(urls))
		for _, url := range urls {
			got[url.ShortCode] = url.OriginalURL
		}
		assert.Equal(t, want, got)
	})
}
