package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/infra/logging"
	"buzzugc/internal/infra/redis"
)

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeGenerationError maps the domain taxonomy onto HTTP so the UI can
// distinguish retryable outcomes. Timeout keeps the provider token in the
// body: the job may still finish out-of-band.
func writeGenerationError(w http.ResponseWriter, err error) {
	var genErr *domain.GenerationError
	requestID := ""
	if errors.As(err, &genErr) {
		requestID = genErr.RequestID
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "invalid_input"})
	case errors.Is(err, domain.ErrTimeout):
		writeJSON(w, http.StatusGatewayTimeout, errorBody{
			Error:     "Generation timed out. The video may still complete, try again in a few minutes.",
			Code:      "timeout",
			RequestID: requestID,
		})
	case errors.Is(err, domain.ErrProviderFailure):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error(), Code: "provider_failure", RequestID: requestID})
	case errors.Is(err, domain.ErrMissingResult):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error(), Code: "missing_result", RequestID: requestID})
	case errors.Is(err, domain.ErrProviderUnavailable):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error(), Code: "provider_unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: "internal"})
	}
}

type generateRequest struct {
	ImageDataURL   string `json:"imageDataUrl"`
	AvatarImageURL string `json:"avatarImageUrl"`
	Script         string `json:"script"`
}

type generateResponse struct {
	VideoURL string `json:"videoUrl"`
	JobID    string `json:"jobId"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	log := logging.With(r.Context(), s.log)

	if s.limiter != nil {
		key := redis.UserActionKey(identity.ID, "generate")
		allowed, err := s.limiter.Allow(r.Context(), key, s.ratePerMin, time.Minute)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		} else if !allowed {
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests, slow down", Code: "rate_limited"})
			return
		}
	}

	verdict := s.entitlements.CanGenerate(r.Context(), identity)
	if !verdict.Allowed {
		writeJSON(w, http.StatusForbidden, verdict)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed JSON body", Code: "invalid_input"})
		return
	}

	job, err := s.generation.GenerateVideo(r.Context(), model.ImageReference{
		DataURL: req.ImageDataURL,
		URL:     req.AvatarImageURL,
	}, req.Script)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	s.recordCreation(identity, req.AvatarImageURL, job)
	writeJSON(w, http.StatusOK, generateResponse{VideoURL: job.ResultURL, JobID: job.ID})
}

// recordCreation persists the usage record off the request path. A dropped
// record undercounts quota by one; acceptable, the alternative is holding
// the response hostage to a DB write.
func (s *Server) recordCreation(identity model.Identity, avatarURL string, job *model.VideoJob) {
	creation, err := model.NewCreation(uuid.NewString(), identity.ID, avatarURL, job.Script, job.ResultURL)
	if err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("build creation record")
		return
	}
	task := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return s.creations.Save(ctx, creation)
	}
	if s.pool == nil {
		_ = task(context.Background())
		return
	}
	if err := s.pool.Submit(task); err != nil {
		s.log.Warn().Err(err).Str("job_id", job.ID).Msg("creation record dropped")
	}
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, s.entitlements.CanGenerate(r.Context(), identity))
}

type entitlementResponse struct {
	Plan              model.PlanID `json:"plan"`
	Source            string       `json:"source"`
	MonthlyCreations  int          `json:"monthlyCreations"`
	HDQuality         bool         `json:"hasHDQuality"`
	PremiumAvatars    bool         `json:"hasPremiumAvatars"`
	AdvancedVoices    bool         `json:"hasAdvancedVoices"`
	PrioritySupport   bool         `json:"hasPrioritySupport"`
	Analytics         bool         `json:"hasAnalytics"`
	CustomBackgrounds bool         `json:"hasCustomBackgrounds"`
	BulkTools         bool         `json:"hasBulkTools"`
}

func (s *Server) handleEntitlement(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ent, err := s.entitlements.ResolveEntitlement(r.Context(), identity)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "entitlement temporarily unavailable", Code: "store_unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, entitlementResponse{
		Plan:              ent.Plan,
		Source:            string(ent.Source),
		MonthlyCreations:  ent.Limits.MonthlyCreations,
		HDQuality:         ent.Limits.HDQuality,
		PremiumAvatars:    ent.Limits.PremiumAvatars,
		AdvancedVoices:    ent.Limits.AdvancedVoices,
		PrioritySupport:   ent.Limits.PrioritySupport,
		Analytics:         ent.Limits.Analytics,
		CustomBackgrounds: ent.Limits.CustomBackgrounds,
		BulkTools:         ent.Limits.BulkTools,
	})
}

func (s *Server) handleListCreations(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	creations, err := s.creations.ListByUser(r.Context(), identity.ID, 50)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "creations temporarily unavailable", Code: "store_unreachable"})
		return
	}
	if creations == nil {
		creations = []*model.Creation{}
	}
	writeJSON(w, http.StatusOK, creations)
}

type checkoutRequest struct {
	PlanID model.PlanID `json:"planId"`
}

type checkoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed JSON body", Code: "invalid_input"})
		return
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = r.Header.Get("Referer")
	}
	sess, err := s.checkout.CreateCheckoutSession(r.Context(), identity, req.PlanID, origin)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown plan", Code: "invalid_input"})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "failed to create checkout session", Code: "payment_provider"})
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{SessionID: sess.ID, URL: sess.URL})
}

func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	if err := s.checkout.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("webhook rejected")
		http.Error(w, "webhook error", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}
