package main

import (
	"context"
	"log"
	"os"

	"github.com/danishsenju/fixmyhood/internal/config"
	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/server"
	"github.com/danishsenju/fixmyhood/pkg/database"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(db, redisClient)

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// app degrades to no rate limiting and no live notifications.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		redisURL = os.Getenv("REDIS_ADDR")
		if redisURL == "" {
			log.Println("REDIS_URL not set, running without redis")
			return nil
		}
		redisURL = "redis://" + redisURL
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, running without redis: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable, running without redis: %v", err)
		return nil
	}

	return client
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Profile{},
		&model.Badge{},
		&model.Report{},
		&model.Comment{},
		&model.Verification{},
		&model.Follower{},
		&model.ReportView{},
		&model.Flag{},
		&model.Notification{},
	)
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Profile{}).
		Where("email = ?", "admin@fixmyhood.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.Profile{
		DisplayName:  "Administrator",
		Email:        "admin@fixmyhood.local",
		PasswordHash: string(hashed),
		IsAdmin:      true,
		ActiveFrame:  model.FrameDefault,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Println("   Email: admin@fixmyhood.local")
	log.Println("   Password: admin123")

	return nil
}
