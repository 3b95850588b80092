package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inventag/inventag-backend/api/controllers"
	"github.com/inventag/inventag-backend/api/middleware"
	"github.com/inventag/inventag-backend/internal/alerts"
	"github.com/inventag/inventag-backend/internal/auth"
	"github.com/inventag/inventag-backend/internal/cart"
	checkoutsvc "github.com/inventag/inventag-backend/internal/checkout"
	"github.com/inventag/inventag-backend/internal/inventory"
	"github.com/inventag/inventag-backend/internal/scanner"
	"github.com/inventag/inventag-backend/internal/scans"
	"github.com/inventag/inventag-backend/internal/settings"
	"github.com/inventag/inventag-backend/pkg/auth/session"
	"github.com/inventag/inventag-backend/pkg/config"
	"github.com/inventag/inventag-backend/pkg/db"
	"github.com/inventag/inventag-backend/pkg/logger"
	"github.com/inventag/inventag-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	AuthService auth.Service
	Inventory   inventory.Service
	Cart        cart.Service
	Alerts      alerts.Service
	Scans       scans.Service
	Settings    *settings.Service
	Scanner     *scanner.Session
	Checkout    *checkoutsvc.Coordinator
}

// NewRouter assembles the chi router with middleware and all route groups.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

		r.Post("/v1/auth/logout", controllers.AuthLogout(p.AuthService, logg))

		r.Route("/v1/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(p.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(p.Inventory, logg))
			r.Get("/categories", controllers.InventoryCategories(p.Inventory, logg))
			r.Get("/watch", controllers.InventoryWatch(p.Inventory, logg))
			r.Get("/tags/{tagId}", controllers.InventoryResolveTag(p.Inventory, logg))
			r.Get("/{itemId}", controllers.InventoryDetail(p.Inventory, logg))
			r.Put("/{itemId}", controllers.InventoryUpdate(p.Inventory, logg))
			r.Patch("/{itemId}", controllers.InventoryUpdate(p.Inventory, logg))
			r.Delete("/{itemId}", controllers.InventoryDelete(p.Inventory, logg))
			r.Post("/{itemId}/tag", controllers.InventoryAssociateTag(p.Inventory, logg))
		})

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(p.Cart, logg))
			r.Post("/items", controllers.CartAddItem(p.Cart, logg))
			r.Post("/items/from-tag", controllers.CartAddTag(p.Cart, logg))
			r.Patch("/items/{itemId}", controllers.CartSetQuantity(p.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(p.Cart, logg))
			r.Delete("/", controllers.CartClear(p.Cart, logg))
		})

		r.Post("/v1/checkout", controllers.CheckoutRun(p.Checkout, logg))

		r.Route("/v1/alerts", func(r chi.Router) {
			r.Get("/", controllers.AlertsList(p.Alerts, logg))
			r.Get("/unread-count", controllers.AlertsUnreadCount(p.Alerts, logg))
			r.Post("/{alertId}/read", controllers.AlertsMarkRead(p.Alerts, logg))
			r.Post("/read-all", controllers.AlertsMarkAllRead(p.Alerts, logg))
		})

		r.Route("/v1/scans", func(r chi.Router) {
			r.Get("/", controllers.ScansFeed(p.Scans, logg))
			r.Get("/me", controllers.ScansMine(p.Scans, logg))
		})

		r.Route("/v1/scanner", func(r chi.Router) {
			r.Post("/start", controllers.ScannerStart(p.Scanner, logg))
			r.Post("/stop", controllers.ScannerStop(p.Scanner, logg))
			r.Get("/status", controllers.ScannerStatus(p.Scanner, logg))
			r.Get("/tag", controllers.ScannerWait(p.Scanner, logg))
		})

		r.Route("/v1/settings", func(r chi.Router) {
			r.Get("/reader", controllers.SettingsGetReaderAddress(p.Settings, logg))
			r.Put("/reader", controllers.SettingsSetReaderAddress(p.Settings, logg))
			r.Get("/reader/watch", controllers.SettingsWatchReaderAddress(p.Settings, logg))
		})
	})

	return r
}
