package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/adapter"
	"hostbill-payments/internal/usecase"
)

// Server wires the three payment endpoints to their use cases.
type Server struct {
	payUC      usecase.PaymentUseCase
	checkoutUC usecase.CheckoutUseCase
	verifier   adapter.TokenVerifier
	timeout    time.Duration
	corsAllow  []string
	log        *zerolog.Logger
}

func NewServer(
	payUC usecase.PaymentUseCase,
	checkoutUC usecase.CheckoutUseCase,
	verifier adapter.TokenVerifier,
	timeout time.Duration,
	corsOrigins []string,
	logger *zerolog.Logger,
) *Server {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	return &Server{
		payUC:      payUC,
		checkoutUC: checkoutUC,
		verifier:   verifier,
		timeout:    timeout,
		corsAllow:  corsOrigins,
		log:        logger,
	}
}

// Router assembles the middleware chain and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID)
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(Timeout(s.timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsAllow,
		AllowedMethods:   []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(Auth(s.verifier))
		r.Post("/indian-payment", s.handleIndianPayment)
		r.Post("/payu-payment", s.handlePayUPayment)
		r.Post("/create-checkout-session", s.handleCreateCheckoutSession)
	})
	return r
}

// generalProviders is the superset the multi-provider endpoint accepts.
var generalProviders = []model.Provider{
	model.ProviderPayU, model.ProviderUPI, model.ProviderGPay, model.ProviderCashfree,
}

// payuOnly scopes the card-gateway endpoint to its own rail.
var payuOnly = []model.Provider{model.ProviderPayU}
