package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/impactclub/platform/internal/config"
	"github.com/impactclub/platform/internal/contact"
	"github.com/impactclub/platform/internal/department"
	"github.com/impactclub/platform/internal/events"
	httpmiddleware "github.com/impactclub/platform/internal/http/middleware"
	"github.com/impactclub/platform/internal/media"
	"github.com/impactclub/platform/internal/rbac"
	"github.com/impactclub/platform/internal/registration"
	"github.com/impactclub/platform/internal/service"
	"github.com/impactclub/platform/internal/sponsorship"
	"github.com/impactclub/platform/internal/storage"
)

type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	authService   *service.AuthService
	events        *events.Service
	media         *media.Service
	departments   *department.Repository
	registrations *registration.Service
	sponsorships  *sponsorship.Service
	contacts      *contact.Service
	storage       storage.Uploader
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
	devCookies    bool
}

// NewRouter returns the configured router.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService, rbacService *rbac.Service) (http.Handler, error) {
	devCookies := false
	for _, origin := range cfg.AllowOrigins {
		if strings.Contains(origin, "localhost") {
			devCookies = true
			break
		}
	}

	var uploader storage.Uploader = storage.NoopUploader{}
	switch cfg.Storage.Provider {
	case "", "noop":
		// keeps the default uploader
	case "s3", "r2", "cloudflare-r2":
		s3Cfg := storage.S3Config{
			Endpoint:     cfg.Storage.S3Endpoint,
			Region:       cfg.Storage.S3Region,
			Bucket:       cfg.Storage.S3Bucket,
			AccessKey:    cfg.Storage.S3AccessKey,
			SecretKey:    cfg.Storage.S3SecretKey,
			PublicDomain: cfg.Storage.S3PublicURL,
		}
		var err error
		uploader, err = storage.NewS3Uploader(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
	default:
		return nil, fmt.Errorf("storage: unsupported provider %s", cfg.Storage.Provider)
	}

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		authService:   authService,
		events:        events.NewService(events.NewRepository(pool)),
		media:         media.NewService(media.NewRepository(pool)),
		departments:   department.NewRepository(pool),
		registrations: registration.NewService(registration.NewRepository(pool)),
		sponsorships:  sponsorship.NewService(sponsorship.NewRepository(pool)),
		contacts:      contact.NewService(contact.NewRepository(pool)),
		storage:       uploader,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
		devCookies:    devCookies,
	}

	authenticator := httpmiddleware.NewAuthenticator(authService.JWT(), authService, rbacService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))
	r.Use(authenticator.Authenticate)

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Route("/api", func(api chi.Router) {
			api.Post("/auth/signup", h.SignUp)
			api.Post("/auth/login", h.Login)
			api.Post("/auth/refresh", h.Refresh)
			api.Post("/auth/logout", h.Logout)

			api.Get("/departments", h.ListDepartments)
			api.Get("/departments/{id}", h.GetDepartment)
			api.Get("/departments/{id}/events", h.ListDepartmentEvents)
			api.Get("/departments/{id}/media", h.ListDepartmentMedia)

			api.Get("/events", h.ListEvents)
			api.Get("/events/{id}", h.GetEvent)

			api.Get("/media", h.ListMedia)
			api.Get("/media/featured", h.FeaturedMedia)
			api.Get("/media/{id}", h.GetMedia)

			api.Post("/registrations", h.CreateRegistration)
			api.Post("/sponsorships", h.CreateSponsorship)
			api.Post("/contact", h.CreateContactMessage)
		})
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Get("/api/auth/me", h.Me)

		private.Group(func(managed chi.Router) {
			managed.Use(httpmiddleware.RequireRoles(rbac.RoleAdmin, rbac.RoleDepartmentAdmin))

			managed.Post("/api/events", h.CreateEvent)
			managed.Put("/api/events/{id}", h.UpdateEvent)
			managed.Delete("/api/events/{id}", h.DeleteEvent)

			managed.Post("/api/media", h.CreateMedia)
			managed.Post("/api/media/upload", h.UploadMedia)
			managed.Put("/api/media/{id}", h.UpdateMedia)
			managed.Delete("/api/media/{id}", h.DeleteMedia)
		})

		private.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireRoles(rbac.RoleAdmin))

			admin.Get("/api/registrations", h.ListRegistrations)
			admin.Get("/api/registrations/{id}", h.GetRegistration)
			admin.Patch("/api/registrations/{id}/status", h.UpdateRegistrationStatus)

			admin.Get("/api/sponsorships", h.ListSponsorships)
			admin.Get("/api/sponsorships/{id}", h.GetSponsorship)
			admin.Patch("/api/sponsorships/{id}/status", h.UpdateSponsorshipStatus)

			admin.Get("/api/contact", h.ListContactMessages)
			admin.Get("/api/contact/{id}", h.GetContactMessage)
			admin.Patch("/api/contact/{id}/status", h.UpdateContactMessageStatus)

			admin.Get("/api/stats", h.Stats)
		})
	})

	return r, nil
}

// Health answers a plain liveness status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready validates the Postgres and Redis connections.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	redisErr := h.redis.Ping(ctx).Err()

	if dbErr != nil || redisErr != nil {
		WriteError(w, http.StatusServiceUnavailable, "Dependencies unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}
