package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnit/app"
	"learnit/config"
	"learnit/database"
	"learnit/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	database.ConnectRedis()

	utils.InitErrorReporting()
	defer utils.CloseErrorReporting()

	scheduler := utils.InitializeSubscriptionScheduler()

	server := app.NewApp()
	server.Server().ReadTimeout = 15 * time.Second
	server.Server().WriteTimeout = 30 * time.Second
	server.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("Server is running on port %s", config.AppConfig.Port)
		if err := server.Listen(":" + config.AppConfig.Port); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	// wait for a running scheduler job before closing the pool
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.ShutdownWithContext(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	if sqlDB, err := database.Database.Db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if database.Redis != nil {
		_ = database.Redis.Close()
	}
}
