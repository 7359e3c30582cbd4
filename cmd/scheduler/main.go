package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/adisurya/circulation-engine/internal/config"
	"github.com/adisurya/circulation-engine/internal/repository"
	"github.com/adisurya/circulation-engine/internal/service"
)

func main() {
	log.Println("Starting circulation scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanRepo := repository.NewLoanRepository(db)
	itemRepo := repository.NewItemRepository(db)
	userRepo := repository.NewUserRepository(db)
	policyRepo := repository.NewPolicyRepository(db)

	policies := service.NewPolicyCatalog(policyRepo, redisClient, cfg.GetPolicyCacheTTL())
	reminders := service.NewReminderService(loanRepo, itemRepo, userRepo, policies)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone: %v", err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily due-date reminder job
	_, err = c.AddFunc(cfg.Scheduler.ReminderCron, func() {
		log.Println("Running due-date reminder job...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		sent, err := reminders.SendDueDateReminders(ctx)
		if err != nil {
			log.Printf("Reminder job failed: %v", err)
			return
		}
		log.Printf("Reminder job finished, %d reminder(s) sent", sent)
	})
	if err != nil {
		log.Fatalf("Error scheduling reminder job: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}
