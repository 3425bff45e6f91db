package router

import (
	"net/http"
	"time"

	"melodix/internal/config"
	"melodix/internal/handlers"
	"melodix/internal/middleware"
	"melodix/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth      *services.AuthService
	Users     *services.UserService
	Products  *services.ProductService
	Contacts  *services.ContactService
	Favorites *services.FavoriteService
	Reviews   *services.ReviewService
}

// Credential endpoints share a stricter budget: one request per second with
// a burst of five.
const (
	authRateInterval = time.Second
	authRateBurst    = 5
)

// SetupRouter returns the API handler. CORS wraps the whole router so
// preflight requests are answered even though no OPTIONS route exists.
func SetupRouter(svc Services, cfg config.Config, logger zerolog.Logger) http.Handler {
	authHandler := handlers.NewAuthHandler(svc.Users, logger)
	userHandler := handlers.NewUserHandler(svc.Users, logger)
	productHandler := handlers.NewProductHandler(svc.Products, logger)
	reviewHandler := handlers.NewReviewHandler(svc.Reviews, logger)
	contactHandler := handlers.NewContactHandler(svc.Contacts, logger)
	favoriteHandler := handlers.NewFavoriteHandler(svc.Favorites, logger)

	authenticate := middleware.Authentication(svc.Auth, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	authLimiter := middleware.NewRateLimiter(rate.Every(authRateInterval), authRateBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(authLimiter.Middleware())
	auth.Use(middleware.RequestValidation())
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/forgot-password", authHandler.ForgotPassword).Methods("POST")
	auth.HandleFunc("/reset-password", authHandler.ResetPassword).Methods("POST")

	protectedAuth := auth.PathPrefix("").Subrouter()
	protectedAuth.Use(authenticate)
	protectedAuth.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")

	users := api.PathPrefix("/users").Subrouter()
	users.Use(authenticate)
	users.HandleFunc("/me", userHandler.Me).Methods("GET")

	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("", productHandler.List).Methods("GET")
	products.HandleFunc("/{slug}", productHandler.Get).Methods("GET")
	products.HandleFunc("/{slug}/reviews", reviewHandler.List).Methods("GET")

	protectedProducts := products.PathPrefix("").Subrouter()
	protectedProducts.Use(authenticate)
	protectedProducts.Use(middleware.RequestValidation())
	protectedProducts.HandleFunc("/{slug}/reviews", reviewHandler.Create).Methods("POST")

	contact := api.PathPrefix("/contact").Subrouter()
	contact.Use(middleware.RequestValidation())
	contact.HandleFunc("", contactHandler.Submit).Methods("POST")

	favorites := api.PathPrefix("/favorites").Subrouter()
	favorites.Use(authenticate)
	favorites.Use(middleware.RequestValidation())
	favorites.HandleFunc("", favoriteHandler.List).Methods("GET")
	favorites.HandleFunc("", favoriteHandler.Add).Methods("POST")
	favorites.HandleFunc("/{productId:[0-9]+}", favoriteHandler.Remove).Methods("DELETE")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return middleware.CORS(cfg.CORSOrigins)(r)
}
