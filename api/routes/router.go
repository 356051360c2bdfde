package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milkdist/warehouse-backend/api/controllers"
	"github.com/milkdist/warehouse-backend/api/middleware"
	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/internal/backorders"
	"github.com/milkdist/warehouse-backend/internal/goods"
	"github.com/milkdist/warehouse-backend/internal/inventory"
	"github.com/milkdist/warehouse-backend/internal/retailers"
	"github.com/milkdist/warehouse-backend/pkg/config"
	"github.com/milkdist/warehouse-backend/pkg/logger"
	"github.com/milkdist/warehouse-backend/pkg/metrics"
	"github.com/milkdist/warehouse-backend/pkg/redis"
)

// Dependencies bundles everything the HTTP surface needs.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics

	AuthService      auth.Service
	BackOrderService backorders.Service
	RetailerService  retailers.Service
	GoodsService     goods.Service
	InventoryService *inventory.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(deps.Redis, logg),
		)

		r.Route("/backorders", func(r chi.Router) {
			r.Get("/", controllers.ListBackOrders(deps.BackOrderService, logg))
			r.Post("/", controllers.CreateBackOrder(deps.BackOrderService, logg))
			r.Post("/bulk", controllers.BulkCreateBackOrders(deps.BackOrderService, logg))
			r.Get("/{id}", controllers.GetBackOrder(deps.BackOrderService, logg))
			r.Put("/{id}", controllers.UpdateBackOrder(deps.BackOrderService, logg))
			r.Delete("/{id}", controllers.DeleteBackOrder(deps.BackOrderService, logg))
		})

		r.Route("/retailers", func(r chi.Router) {
			r.Get("/", controllers.ListRetailers(deps.RetailerService, logg))
			r.Post("/", controllers.CreateRetailer(deps.RetailerService, logg))
			r.Get("/{id}", controllers.GetRetailer(deps.RetailerService, logg))
			r.Put("/{id}", controllers.UpdateRetailer(deps.RetailerService, logg))
			r.Delete("/{id}", controllers.DeleteRetailer(deps.RetailerService, logg))
		})

		r.Route("/goods", func(r chi.Router) {
			r.Get("/", controllers.ListGoods(deps.GoodsService, logg))
			r.Post("/", controllers.CreateGoods(deps.GoodsService, logg))
			r.Get("/{id}", controllers.GetGoods(deps.GoodsService, logg))
			r.Put("/{id}", controllers.UpdateGoods(deps.GoodsService, logg))
			r.Post("/{id}/packagings", controllers.AddGoodsPackaging(deps.GoodsService, logg))
		})

		r.Post("/batches", controllers.RecordBatch(deps.InventoryService, logg))
	})

	return r
}
