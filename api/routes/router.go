package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DanyGuerra/business-manager-frontend-sub001/api/controllers"
	"github.com/DanyGuerra/business-manager-frontend-sub001/api/middleware"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/cart"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/realtime"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/session"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/db"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	store *orders.Store,
	coordinator *orders.Coordinator,
	composer *cart.Composer,
	submitService *cart.SubmitService,
	sessionService *session.Service,
	channelManager *realtime.Manager,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.API.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/board", controllers.Board(store, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(store, logg))
			r.Put("/filters", controllers.SetFilters(store, coordinator, logg))
			r.Delete("/filters", controllers.ResetFilters(store, coordinator, logg))
			r.Post("/refresh", controllers.RefreshOrders(coordinator, store, logg))
			r.Put("/active", controllers.SetActiveOrder(store, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(composer, logg))
			r.Delete("/", controllers.ClearCart(composer, logg))
			r.Post("/groups", controllers.AddCartGroup(composer, logg))
			r.Route("/groups/{groupID}", func(r chi.Router) {
				r.Delete("/", controllers.RemoveCartGroup(composer, logg))
				r.Post("/items", controllers.AddCartItem(composer, logg))
				r.Patch("/items/{itemID}", controllers.UpdateCartQuantity(composer, logg))
				r.Delete("/items/{itemID}", controllers.RemoveCartItem(composer, logg))
			})
			r.Post("/from-order/{orderID}", controllers.LoadCartFromOrder(composer, store, logg))
			r.Post("/submit", controllers.SubmitCart(submitService, logg))
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.GetSession(sessionService, channelManager, logg))
			r.Put("/business", controllers.SwitchBusiness(sessionService, logg))
			r.Put("/credential", controllers.SetCredential(sessionService, logg))
			r.Put("/identity", controllers.SetIdentity(sessionService, logg))
			r.Post("/logout", controllers.Logout(sessionService, logg))
		})

		r.Route("/realtime", func(r chi.Router) {
			r.Get("/", controllers.ChannelState(channelManager, logg))
			r.Post("/reconnect", controllers.ReconnectChannel(channelManager, logg))
		})
	})

	return r
}
