package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aditya0Kumar/trackr-sub000/config"
	"github.com/Aditya0Kumar/trackr-sub000/routes"
	"github.com/Aditya0Kumar/trackr-sub000/services"
	"github.com/Aditya0Kumar/trackr-sub000/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	if err := config.InitLogger(conf.LogDir); err != nil {
		log.Fatalf("cannot init logger: %v", err)
	}
	defer config.Logger.Sync()

	db, err := config.InitDB(conf)
	if err != nil {
		log.Fatalf("cannot init database: %v", err)
	}

	publisher := services.NopPublisher()
	rdb, err := config.InitRedis(conf)
	if err != nil {
		log.Fatalf("cannot init redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
		publisher = services.NewRedisActivityPublisher(rdb, conf.ActivityChannel)
	}

	loc, err := conf.Location()
	if err != nil {
		log.Fatalf("invalid timezone: %v", err)
	}
	settings := services.Settings{
		MaxRetries:               conf.TaskMaxRetries,
		StorageTimeout:           conf.StorageTimeout(),
		Location:                 loc,
		MaxRectificationAttempts: conf.RectificationMaxAttempts,
		Now:                      time.Now,
	}

	utils.SetJWTSecret(conf.JWTSecret)

	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := routes.NewRouter(db, publisher, settings, conf.InternalAuthToken)

	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	go func() {
		config.Logger.Infow("server listening", "port", conf.ServerPort, "environment", conf.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	config.Logger.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	config.Logger.Infow("server stopped")
}
