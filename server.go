package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"pulse/api/middleware"
	"pulse/api/routes"
	"pulse/config"
	"pulse/db"
	"pulse/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	err = db.ConnectDB()
	if err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	ctx := context.Background()

	// Redis: кеши лент, счетчики непрочитанных, очередь fan-out
	if err := services.InitRedis(); err != nil {
		log.Printf("Warning: Redis initialization failed: %v", err)
	} else {
		services.QueueServiceInstance.StartWorkers(ctx)
	}

	// RabbitMQ: push-уведомления через WebSocket
	if err := services.InitRabbitMQ(); err != nil {
		log.Printf("Warning: RabbitMQ initialization failed, falling back to direct WS push: %v", err)
	} else {
		if err := services.StartNotifyEventConsumer(ctx, "notify_push_queue"); err != nil {
			log.Printf("Warning: failed to start notify consumer: %v", err)
		}
	}

	router := gin.Default()

	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("pulse"))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.PublicApi(router)

	addr := ":8080"
	if config.AppConfig.Backend.Port != 0 {
		addr = fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
