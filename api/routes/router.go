package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NextOxyOfficial/LyriczFashion/api/controllers"
	"github.com/NextOxyOfficial/LyriczFashion/api/middleware"
	commissionssvc "github.com/NextOxyOfficial/LyriczFashion/internal/commissions"
	orderssvc "github.com/NextOxyOfficial/LyriczFashion/internal/orders"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/config"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	ordersService orderssvc.Service,
	commissionsService commissionssvc.Service,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisPinger(redisClient), logg))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Checkout accepts guests, so auth is optional there. Replays of
		// checkout and status changes are absorbed by the idempotency layer.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(redisClient, logg))
			r.Post("/orders", controllers.CreateOrder(ordersService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/ping", controllers.PrivatePing())
			r.Get("/orders", controllers.ListOrders(ordersService, logg))
			r.Get("/orders/{orderID}", controllers.GetOrder(ordersService, logg))
			r.Get("/commissions", controllers.ListCommissions(commissionsService, logg))
			r.Get("/seller/orders", controllers.SellerOrders(ordersService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleStaff), logg))
				r.Use(middleware.Idempotency(redisClient, logg))
				r.Post("/orders/{orderID}/status", controllers.UpdateOrderStatus(ordersService, logg))
			})
		})
	})

	return r
}

func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
