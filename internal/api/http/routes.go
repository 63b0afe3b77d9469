// Package http is the HTTP adapter over the shortening engine. It
// translates wire requests into service calls and maps the service
// error taxonomy onto status codes.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"

	"github.com/mrwormhole/shortify/internal/models"
)

type URLService interface {
	ShortenURL(ctx context.Context, originalURL, customCode string) (*models.URL, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error)
	GetURLStats(ctx context.Context, shortCode string) (*models.URL, error)
	ListURLs(ctx context.Context) ([]*models.URL, error)
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter builds the full route table. baseURL is the prefix short
// URLs are derived from at response time.
func NewRouter(logger *httplog.Logger, urlSvc URLService, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// OPTIONS on any path answers 200 with an empty body. Preflight
	// requests never get this far; the cors handler above replies to
	// them itself.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				handleOptions(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	validate := getValidate()

	r.Get("/", handleIndex)
	r.Post("/shorten", handleShortenURL(urlSvc, validate, baseURL))
	r.Get("/list", handleListURLs(urlSvc))
	r.Get("/stats/{shortCode}", handleGetURLStats(urlSvc))
	r.Get("/{shortCode}", handleRedirect(urlSvc))

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleNotFound)

	return r
}
