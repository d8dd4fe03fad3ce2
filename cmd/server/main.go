package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"alocubano-tickets/internal/config"
	"alocubano-tickets/internal/database"
	"alocubano-tickets/internal/handlers"
	"alocubano-tickets/internal/middleware"
	"alocubano-tickets/internal/repositories"
	"alocubano-tickets/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	db, err := database.NewConnection(database.Config{Path: cfg.Database.Path})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize repositories
	txRepo := repositories.NewTransactionRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)
	ticketTypeRepo := repositories.NewTicketTypeRepository(db.DB)
	subscriberRepo := repositories.NewSubscriberRepository(db.DB)

	// Initialize services
	emailService := services.NewMockEmailService(&services.ResendConfig{
		APIKey:    cfg.Resend.APIKey,
		FromEmail: cfg.Resend.FromEmail,
		FromName:  cfg.Resend.FromName,
	})
	checkoutService := services.NewCheckoutService(txRepo, ticketRepo, ticketTypeRepo, emailService)
	verificationService := services.NewVerificationService(ticketRepo, txRepo)
	subscriptionService := services.NewSubscriptionService(subscriberRepo, emailService)

	// Admin auth
	tokenIssuer := middleware.NewTokenIssuer(
		cfg.Admin.JWTSecret,
		time.Duration(cfg.Admin.TokenLifetimeMinutes)*time.Minute,
	)

	// Initialize handlers
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	verifyHandler := handlers.NewVerifyHandler(verificationService)
	subscribeHandler := handlers.NewSubscribeHandler(subscriptionService)
	adminHandler := handlers.NewAdminHandler(checkoutService, tokenIssuer, cfg.Admin.PasswordHash)
	healthHandler := handlers.NewHealthHandler(db.DB)

	// Rate limit the write endpoints
	rateLimiter := middleware.NewRateLimiter(
		cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
	)

	// Initialize router
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			r.Use(rateLimiter.Middleware)
			r.Post("/create-pending-transaction", checkoutHandler.CreatePendingTransaction)
			r.Post("/complete", checkoutHandler.CompleteCheckout)
		})

		r.Route("/email", func(r chi.Router) {
			r.Use(rateLimiter.Middleware)
			r.Post("/subscribe", subscribeHandler.Subscribe)
			r.Post("/unsubscribe", subscribeHandler.Unsubscribe)
		})

		r.Get("/tickets/verify", verifyHandler.VerifyTicket)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(tokenIssuer.RequireAdmin)
				r.Get("/transactions", adminHandler.ListTransactions)
			})
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on http://%s", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed:", err)
	}
}
