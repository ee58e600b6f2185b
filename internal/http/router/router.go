package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/health"
	"github.com/sandeepkv93/catalog-service/internal/http/handler"
	"github.com/sandeepkv93/catalog-service/internal/http/middleware"
	"github.com/sandeepkv93/catalog-service/internal/http/response"
	"github.com/sandeepkv93/catalog-service/internal/service"
)

const (
	defaultBodyLimit = 1 << 20
	uploadOverhead   = 1 << 20
)

type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	ProductHandler    *handler.ProductHandler
	FilesHandler      *handler.FilesHandler
	UserResolver      service.UserResolver
	CORSOrigins       []string
	AuthRateLimitRPM  int
	APIRateLimitRPM   int
	GlobalRateLimiter GlobalRateLimiterFunc
	AuthRateLimiter   AuthRateLimiterFunc
	MaxUploadBytes    int64
	Readiness         *health.CheckRunner
	EnableOTelHTTP    bool
}

type GlobalRateLimiterFunc func(http.Handler) http.Handler
type AuthRateLimiterFunc func(http.Handler) http.Handler

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))

	globalLimiter := dep.GlobalRateLimiter
	if globalLimiter == nil {
		globalLimiter = middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute, "api").Middleware()
	}
	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute, "auth").Middleware()
	}
	uploadLimit := dep.MaxUploadBytes
	if uploadLimit <= 0 {
		uploadLimit = 5 << 20
	}
	authenticated := middleware.AuthMiddleware(dep.UserResolver)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(globalLimiter)

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.BodyLimit(defaultBodyLimit))
			r.With(authLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authenticated).Get("/check-status", dep.AuthHandler.CheckStatus)
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.BodyLimit(defaultBodyLimit))
			r.Get("/", dep.ProductHandler.List)
			r.Get("/{term}", dep.ProductHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/", dep.ProductHandler.Create)
				r.Patch("/{id}", dep.ProductHandler.Update)
				r.Delete("/{id}", dep.ProductHandler.Delete)
				r.With(middleware.RequireRole(domain.RoleAdmin)).Delete("/", dep.ProductHandler.DeleteAll)
			})
		})

		r.Route("/files", func(r chi.Router) {
			r.With(authenticated, middleware.BodyLimit(uploadLimit+uploadOverhead)).Post("/product", dep.FilesHandler.UploadProductImage)
			r.Get("/product/{imageName}", dep.FilesHandler.GetProductImage)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
