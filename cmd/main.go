package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"roomchat/backend/internal/api/handler"
	"roomchat/backend/internal/chathub"
	"roomchat/backend/internal/config"
	"roomchat/backend/internal/registry"
	"roomchat/backend/internal/storage"
)

func setupRedis(cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect Redis")
	}
	return rdb
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Info().Msg("starting roomchat backend")

	cfg := config.Load()
	rdb := setupRedis(cfg)

	store := storage.NewService(rdb)
	reg := registry.New()
	hub := chathub.NewManagerService(reg, store)
	go hub.Run()

	r := gin.Default()
	r.Use(cors.Default())

	h := handler.NewHandler(hub)
	r.GET("/health", h.Health)
	r.GET("/ws", h.ServeWebSocket)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	log.Info().Str("port", cfg.Port).Msg("server listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
