package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/metrics"
	mw "github.com/Shoaibsarfaraz/ADHDSupport/internal/middleware"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/services"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Logger      *zap.Logger
	Stores      store.Stores
	Encryption  *services.EncryptionService
	Sanitizer   *services.Sanitizer
	Auth        *mw.AuthMiddleware
	RateLimiter *mw.RateLimiter
	Metrics     *metrics.Metrics
}

// NewRouter wires the full route tree. Everything under /api requires
// a bearer token except profile creation, which the identity
// provider's post-signup hook calls with the same token the user just
// received. /healthz and /metrics sit outside auth for probes and
// scrapers.
func NewRouter(cfg RouterConfig) http.Handler {
	profileH := NewProfileHandler(cfg.Stores.Profiles, cfg.Encryption, cfg.Sanitizer)
	courseH := NewCourseHandler(cfg.Stores.Courses, cfg.Sanitizer)
	eventH := NewEventHandler(cfg.Stores.Events, cfg.Sanitizer)
	resourceH := NewResourceHandler(cfg.Stores.Resources, cfg.Sanitizer)
	habitH := NewHabitHandler(cfg.Stores.Habits, cfg.Sanitizer)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.StructuredLogger(cfg.Logger))
	r.Use(cfg.Metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(cfg.Auth.RequireAuth)
		api.Use(cfg.RateLimiter.Limit)

		api.Route("/profiles", func(pr chi.Router) {
			pr.Post("/", profileH.Create)

			pr.Route("/{externalID}", func(p chi.Router) {
				p.Get("/", profileH.Get)
				p.Patch("/", profileH.Update)

				p.Post("/checkins", profileH.AddCheckIn)
				p.Get("/checkins", profileH.ListCheckIns)

				p.Post("/planner", profileH.AddPlannerEntry)
				p.Get("/planner", profileH.ListPlannerEntries)
				p.Patch("/planner/{entryID}", profileH.UpdatePlannerEntry)
				p.Delete("/planner/{entryID}", profileH.DeletePlannerEntry)

				p.Post("/braindump", profileH.AddBrainDump)
				p.Delete("/braindump/{entryID}", profileH.DeleteBrainDump)

				p.Post("/focus-sessions", profileH.AddFocusSession)

				p.Post("/enroll", profileH.Enroll)
				p.Post("/favorite", profileH.FavoriteResource)
				p.Post("/register", profileH.RegisterForEvent)

				p.Get("/habits", habitH.ListByOwner)
				p.Post("/habits", habitH.Create)
			})
		})

		api.Route("/courses", func(cr chi.Router) {
			cr.Get("/", courseH.List)
			cr.Post("/", courseH.Create)
			cr.Get("/{id}", courseH.Get)
			cr.Patch("/{id}", courseH.Update)
			cr.Delete("/{id}", courseH.Delete)
		})

		api.Route("/events", func(er chi.Router) {
			er.Get("/", eventH.List)
			er.Get("/upcoming", eventH.ListUpcoming)
			er.Post("/", eventH.Create)
			er.Get("/{id}", eventH.Get)
			er.Patch("/{id}", eventH.Update)
			er.Delete("/{id}", eventH.Delete)
			er.Post("/{id}/attendees/{externalID}", eventH.AddAttendee)
			er.Delete("/{id}/attendees/{externalID}", eventH.RemoveAttendee)
		})

		api.Route("/resources", func(rr chi.Router) {
			rr.Get("/", resourceH.List)
			rr.Post("/", resourceH.Create)
			rr.Get("/{id}", resourceH.Get)
			rr.Patch("/{id}", resourceH.Update)
			rr.Delete("/{id}", resourceH.Delete)
		})

		api.Route("/habits", func(hr chi.Router) {
			hr.Get("/{id}", habitH.Get)
			hr.Patch("/{id}", habitH.Update)
			hr.Delete("/{id}", habitH.Delete)
		})
	})

	return r
}
