package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// Services are the application services behind the routes.
type Services struct {
	Quotes    Quoter
	Stock     StockPanel
	Contracts ContractManager
	// DB is optional; when set /health pings it.
	DB Pinger
}

type RouterConfig struct {
	CORSOrigins []string
	// RateLimitPerMinute caps write requests per client IP; 0 disables it.
	RateLimitPerMinute int
	Logger             *zap.Logger
}

func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger(cfg.Logger),
		middleware.Recoverer,
		CORS(cfg.CORSOrigins),
	)
	r.NotFound(NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(MethodNotAllowedHandler().ServeHTTP)

	writes := func(r chi.Router) chi.Router { return r }
	if cfg.RateLimitPerMinute > 0 {
		limiter := httprate.Limit(cfg.RateLimitPerMinute, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, http.StatusTooManyRequests, codeRateLimited, "too many requests")
			}),
		)
		writes = func(r chi.Router) chi.Router { return r.With(limiter) }
	}

	r.Get("/health", HandleHealth(svc.DB))

	r.Post("/quotes", HandleCreateQuote(svc.Quotes))
	r.Get("/availability", HandleAvailability(svc.Stock))

	r.Get("/stock", HandleListStock(svc.Stock))
	writes(r).Put("/stock/{date}", HandleSetStock(svc.Stock))

	r.Route("/contracts", func(r chi.Router) {
		r.Get("/", HandleListContracts(svc.Contracts))
		writes(r).Post("/", HandleCreateContract(svc.Contracts))
		r.Get("/summary", HandleContractSummary(svc.Contracts))
		r.Get("/{id}", HandleGetContract(svc.Contracts))
		writes(r).Put("/{id}", HandleRescheduleContract(svc.Contracts))
		writes(r).Post("/{id}/activate", HandleActivateContract(svc.Contracts))
		writes(r).Post("/{id}/cancel", HandleCancelContract(svc.Contracts))
		writes(r).Put("/{id}/agreed-amount", HandleUpdateAgreedAmount(svc.Contracts))
	})

	return r
}
