package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/adapter"
	"buzzugc/internal/domain/ports/repository"
	"buzzugc/internal/infra/redis"
	"buzzugc/internal/infra/worker"
	"buzzugc/internal/usecase"
)

// Narrow views of the usecases so handlers stay mockable in tests.

type EntitlementService interface {
	ResolveEntitlement(ctx context.Context, identity model.Identity) (*model.Entitlement, error)
	CanGenerate(ctx context.Context, identity model.Identity) *usecase.QuotaVerdict
}

type GenerationService interface {
	GenerateVideo(ctx context.Context, image model.ImageReference, script string) (*model.VideoJob, error)
}

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, identity model.Identity, plan model.PlanID, origin string) (*adapter.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type Server struct {
	entitlements EntitlementService
	generation   GenerationService
	checkout     CheckoutService
	creations    repository.CreationRepository
	limiter      *redis.RateLimiter
	ratePerMin   int
	pool         *worker.Pool
	log          *zerolog.Logger
}

func NewServer(
	entitlements EntitlementService,
	generation GenerationService,
	checkout CheckoutService,
	creations repository.CreationRepository,
	limiter *redis.RateLimiter,
	ratePerMin int,
	pool *worker.Pool,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		entitlements: entitlements,
		generation:   generation,
		checkout:     checkout,
		creations:    creations,
		limiter:      limiter,
		ratePerMin:   ratePerMin,
		pool:         pool,
		log:          logger,
	}
}

// Router assembles the public API. Authenticated routes sit behind the
// bearer-token middleware; the webhook authenticates by signature instead.
func (s *Server) Router(verifier adapter.IdentityVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log))

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(verifier, s.log))
		r.Post("/api/generate-ugc", s.handleGenerate)
		r.Get("/api/quota", s.handleQuota)
		r.Get("/api/entitlement", s.handleEntitlement)
		r.Get("/api/creations", s.handleListCreations)
		r.Post("/api/create-checkout-session", s.handleCreateCheckout)
	})

	r.Post("/api/stripe/webhook", s.handleStripeWebhook)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
