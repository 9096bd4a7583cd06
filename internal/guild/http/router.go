package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/metrics"
	"github.com/aussiebroadwan/guild/internal/guild/service"
	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/pkg/httpx"
	"github.com/aussiebroadwan/guild/pkg/jwtx"
	"github.com/aussiebroadwan/guild/pkg/slogx"

	_ "github.com/aussiebroadwan/guild/api/guild" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits are the per-route limiter profiles.
type RateLimits struct {
	Strict httpx.RateLimitConfig // anonymous writes: apply, lookup, redeem
	Public httpx.RateLimitConfig // health probes
	Member httpx.RateLimitConfig // authenticated calls, keyed by user
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict: httpx.StrictLimit,
		Public: httpx.PublicLimit,
		Member: httpx.MemberLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	metrics *metrics.Metrics

	Limits             RateLimits
	ApplicationService *service.ApplicationService
	AdmissionService   *service.AdmissionService
	MemberService      *service.MemberService
	ReferralService    *service.ReferralService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerApplications()
	r.registerInvitations()
	r.registerMembers()
	r.registerReferrals()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Guild Admission & Referral API
//	@version		0.1.0
//	@description	Membership applications, single-use invitations and member-to-member referrals.
//	@description
//	@description				Member and admin endpoints take an EdDSA-signed JWT issued by the identity provider.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/guild
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// member wraps h for any authenticated member or admin.
func (r *Router) member(h http.Handler) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(jwtx.RoleMember, jwtx.RoleAdmin),
		httpx.RateLimitByActor(r.Limits.Member),
	)
}

// admin wraps h for admins only.
func (r *Router) admin(h http.Handler) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(jwtx.RoleAdmin),
		httpx.RateLimitByActor(r.Limits.Member),
	)
}

func (r *Router) registerApplications() {
	h := &ApplicationsHandler{
		Applications: r.ApplicationService,
		Admission:    r.AdmissionService,
	}

	// POST /applications - strict rate limit by IP (anonymous writes)
	r.Mux.Handle("POST /v1/applications",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)

	r.Mux.Handle("GET /v1/applications", r.admin(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/applications/{id}", r.admin(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("POST /v1/applications/{id}/decision", r.admin(http.HandlerFunc(h.HandleDecide)))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{Admission: r.AdmissionService}

	// Both are public; the strict limit keeps token guessing expensive.
	r.Mux.Handle("POST /v1/invitations/lookup",
		httpx.Chain(http.HandlerFunc(h.HandleLookup),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
	r.Mux.Handle("POST /v1/invitations/redeem",
		httpx.Chain(http.HandlerFunc(h.HandleRedeem),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
}

func (r *Router) registerMembers() {
	h := &MembersHandler{Members: r.MemberService}

	r.Mux.Handle("GET /v1/members", r.member(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/members/me", r.member(http.HandlerFunc(h.HandleMe)))
	r.Mux.Handle("PUT /v1/members/{id}/active", r.admin(http.HandlerFunc(h.HandleSetActive)))
}

func (r *Router) registerReferrals() {
	h := &ReferralsHandler{
		Referrals: r.ReferralService,
		Members:   r.MemberService,
	}

	r.Mux.Handle("POST /v1/referrals", r.member(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/referrals", r.member(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/referrals/{id}", r.member(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("PUT /v1/referrals/{id}/status", r.member(http.HandlerFunc(h.HandleUpdateStatus)))
}

func (r *Router) registerSystem() {
	// Health check endpoints - public rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
