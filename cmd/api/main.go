package main

import (
	"context"
	"log"
	"net/http"

	"github.com/rs/cors"

	"github.com/idiarso4/SIM-AUG/internal/auth"
	"github.com/idiarso4/SIM-AUG/internal/config"
	"github.com/idiarso4/SIM-AUG/internal/database"
	"github.com/idiarso4/SIM-AUG/internal/handlers"
	"github.com/idiarso4/SIM-AUG/internal/routes"
	"github.com/idiarso4/SIM-AUG/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	handlers.SetDevelopment(cfg.IsDevelopment())

	client, err := database.ConnectMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Fatal("Failed to disconnect from MongoDB:", err)
		}
	}()

	if err := database.EnsureIndexes(context.Background(), client.Database(cfg.DatabaseName)); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	manager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	revoker := auth.NewRevoker(cfg.RedisAddr)
	mailer := utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	router := routes.SetupRouter(client, cfg.DatabaseName, manager, revoker, mailer)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	log.Printf("🚀 Server running on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
