package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/scrimworks/scrimbot/internal/common/clock"
	"github.com/scrimworks/scrimbot/internal/common/uuid"
	"github.com/scrimworks/scrimbot/internal/handlers/discord"
	participationRepo "github.com/scrimworks/scrimbot/internal/repositories/participation"
	scrimRepo "github.com/scrimworks/scrimbot/internal/repositories/scrim"
	settingsRepo "github.com/scrimworks/scrimbot/internal/repositories/settings"
	timeoutRepo "github.com/scrimworks/scrimbot/internal/repositories/timeout"
	"github.com/scrimworks/scrimbot/internal/services/scrim"
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	scrims, err := scrimRepo.NewRedis(&scrimRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create scrim repository: %v", err)
	}

	timeouts, err := timeoutRepo.NewRedis(&timeoutRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create timeout repository: %v", err)
	}

	participations, err := participationRepo.NewRedis(&participationRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create participation repository: %v", err)
	}

	settings, err := settingsRepo.NewRedis(&settingsRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create settings repository: %v", err)
	}

	// Get Discord token from environment
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	session, err := discordgo.New("Bot " + discordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	// Initialize the scrim engine registry
	registry, err := scrim.NewRegistry(&scrim.RegistryConfig{
		Client:            discord.NewAdapter(session),
		Clock:             clock.New(),
		UUID:              uuid.New(),
		ScrimRepo:         scrims,
		TimeoutRepo:       timeouts,
		ParticipationRepo: participations,
		SettingsRepo:      settings,
	})
	if err != nil {
		log.Fatalf("Failed to create scrim registry: %v", err)
	}

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Session:       session,
		ApplicationID: getEnv("APPLICATION_ID", ""),
		GuildID:       getEnv("GUILD_ID", ""),
		Registry:      registry,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Periodic broadcast refresh so listings drop scrims whose start
	// time passed even when nothing else changes
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 5m", func() {
		registry.RefreshBroadcasts(context.Background())
	}); err != nil {
		log.Fatalf("Failed to schedule broadcast refresh: %v", err)
	}
	scheduler.Start()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	scheduler.Stop()
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
