package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/adisurya/circulation-engine/internal/config"
	"github.com/adisurya/circulation-engine/internal/handler"
	"github.com/adisurya/circulation-engine/internal/repository"
	"github.com/adisurya/circulation-engine/internal/service"
	"github.com/adisurya/circulation-engine/pkg/response"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	itemRepo := repository.NewItemRepository(db)
	userRepo := repository.NewUserRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	fineRepo := repository.NewFineRepository(db)

	// Initialize services; all circulation paths share one lock table
	locks := service.NewItemLockTable()
	policies := service.NewPolicyCatalog(policyRepo, redisClient, cfg.GetPolicyCacheTTL())
	reservations := service.NewReservationService(reservationRepo, itemRepo, userRepo, locks)
	fines := service.NewFineService(fineRepo, cfg.GetFineRatePerDay())
	circulation := service.NewCirculationService(itemRepo, userRepo, loanRepo, policies, reservations, fines, locks)
	inventory := service.NewInventoryService(itemRepo, loanRepo, reservationRepo, locks)

	circulationHandler := handler.NewCirculationHandler(circulation, reservations, fines, inventory)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(circulationHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(circulationHandler *handler.CirculationHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans/checkout", circulationHandler.Checkout).Methods("POST")
	api.HandleFunc("/loans/{loanId}/return", circulationHandler.Return).Methods("POST")
	api.HandleFunc("/loans/{loanId}/renew", circulationHandler.Renew).Methods("POST")
	api.HandleFunc("/loans/{loanId}/renewals", circulationHandler.RenewalHistory).Methods("GET")
	api.HandleFunc("/loans/{loanId}/fines", circulationHandler.FinesByLoan).Methods("GET")

	api.HandleFunc("/reservations", circulationHandler.Reserve).Methods("POST")
	api.HandleFunc("/reservations/{reservationId}/position", circulationHandler.QueuePosition).Methods("GET")

	api.HandleFunc("/fines/{fineId}/pay", circulationHandler.PayFine).Methods("POST")

	api.HandleFunc("/users/{userId}/loans", circulationHandler.LoansByUser).Methods("GET")
	api.HandleFunc("/users/{userId}/reservations", circulationHandler.ReservationsByUser).Methods("GET")

	api.HandleFunc("/items/{itemId}/inventory", circulationHandler.UpdateInventory).Methods("PUT")
	api.HandleFunc("/items/{itemId}/inventory", circulationHandler.InventoryStatus).Methods("GET")

	return router
}
