package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmwangi/sokoni-backend/api/controllers"
	"github.com/dmwangi/sokoni-backend/api/middleware"
	"github.com/dmwangi/sokoni-backend/internal/accounts"
	adsvc "github.com/dmwangi/sokoni-backend/internal/ads"
	ordersvc "github.com/dmwangi/sokoni-backend/internal/orders"
	productsvc "github.com/dmwangi/sokoni-backend/internal/products"
	vendorsvc "github.com/dmwangi/sokoni-backend/internal/vendors"
	wishlistsvc "github.com/dmwangi/sokoni-backend/internal/wishlist"
	"github.com/dmwangi/sokoni-backend/pkg/auth/session"
	"github.com/dmwangi/sokoni-backend/pkg/cloudinary"
	"github.com/dmwangi/sokoni-backend/pkg/config"
	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/dmwangi/sokoni-backend/pkg/firebase"
	"github.com/dmwangi/sokoni-backend/pkg/logger"
	"github.com/dmwangi/sokoni-backend/pkg/redis"
)

// Services bundles every domain service the router exposes.
type Services struct {
	Accounts accounts.Service
	Products productsvc.Service
	Vendors  vendorsvc.Service
	Ads      adsvc.Service
	Orders   ordersvc.Service
	Wishlist wishlistsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	verifier firebase.Verifier,
	uploader cloudinary.Uploader,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	exchangePolicy := middleware.NewAuthRateLimitPolicy("exchange", cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(exchangePolicy, redisClient, logg)).
			Post("/firebase", controllers.AuthExchange(verifier, svcs.Accounts, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Accounts, logg))
		r.Post("/signout", controllers.AuthSignOut(svcs.Accounts, cfg.JWT, logg))
	})

	// Public storefront.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Products, logg))
		r.Get("/{productId}", controllers.GetProduct(svcs.Products, logg))
	})
	r.Get("/api/v1/ads", controllers.ListActiveAds(svcs.Ads, logg))

	// Authenticated surface.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Route("/v1/me", func(r chi.Router) {
			r.Get("/", controllers.UserProfile(svcs.Accounts, logg))
			r.Patch("/", controllers.UserUpdateProfile(svcs.Accounts, logg))
		})

		r.Route("/v1/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(svcs.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(svcs.Wishlist, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(svcs.Orders, logg))
			r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Post("/payment-intent", controllers.CreatePaymentIntent(svcs.Orders, logg))
		})

		r.Post("/v1/vendors/apply", controllers.VendorApply(svcs.Vendors, logg))

		r.Post("/v1/media", controllers.MediaUpload(uploader, logg))

		r.Route("/v1/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleVendor, enums.UserRoleAdmin))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.VendorListProducts(svcs.Products, logg))
				r.Post("/", controllers.VendorCreateProduct(svcs.Products, logg))
				r.Patch("/{productId}", controllers.VendorUpdateProduct(svcs.Products, logg))
				r.Put("/{productId}/price", controllers.VendorUpdatePrice(svcs.Products, logg))
				r.Put("/{productId}/availability", controllers.VendorSetAvailability(svcs.Products, logg))
				r.Delete("/{productId}", controllers.VendorDeleteProduct(svcs.Products, logg))
			})

			r.Get("/stats", controllers.VendorProductStats(svcs.Products, logg))
			r.Post("/ads", controllers.VendorRequestAd(svcs.Ads, logg))
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminListUsers(svcs.Accounts, logg))
				r.Put("/{userId}/role", controllers.AdminSetUserRole(svcs.Accounts, logg))
				r.Put("/{userId}/ban", controllers.AdminSetUserBan(svcs.Accounts, logg))
			})
			r.Get("/stats", controllers.AdminStats(svcs.Accounts, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/pending", controllers.AdminListPendingProducts(svcs.Products, logg))
				r.Post("/{productId}/decision", controllers.AdminDecideProduct(svcs.Products, logg))
			})

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", controllers.AdminListApplications(svcs.Vendors, logg))
				r.Post("/{applicationId}/decision", controllers.AdminDecideApplication(svcs.Vendors, logg))
			})

			r.Route("/ads", func(r chi.Router) {
				r.Get("/pending", controllers.AdminListPendingAds(svcs.Ads, logg))
				r.Post("/{adId}/decision", controllers.AdminDecideAd(svcs.Ads, logg))
			})

			r.Put("/orders/{orderId}/status", controllers.AdminSetOrderStatus(svcs.Orders, logg))
		})
	})

	return r
}
