package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"chulgyeol-backend/internal/attendance"
	"chulgyeol-backend/internal/guild"
	"chulgyeol-backend/internal/platform/auth"
	"chulgyeol-backend/internal/platform/config"
	"chulgyeol-backend/internal/platform/db"
	"chulgyeol-backend/internal/reminder"
	"chulgyeol-backend/internal/student"
	"chulgyeol-backend/internal/upload"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(err)
	}

	log.Printf("[INFO] mode:%s\n", cfg.Mode)
	if cfg.Mode != "dev" && cfg.Mode != "release" {
		log.Fatal("config mode must be dev or release")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	storage, err := upload.NewStorage(cfg.Bot.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	guildClient := guild.New(cfg.Bot.GuildAPIURL, cfg.Bot.GuildAPIToken)

	authSvc := auth.NewService(conn, []byte(cfg.Auth.JWTSecret))
	studentSvc := student.NewService(conn)
	attendanceSvc := attendance.NewService(conn, student.NewStore(conn), guildClient, storage, attendance.Options{
		TeacherRole: cfg.Bot.TeacherRole,
		BaseURL:     cfg.Bot.BaseURL,
		PendingTTL:  cfg.Bot.PendingTTL.Std(),
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// sick-leave certificates, public per configured base URL
	r.Static("/uploads", storage.Dir())

	api := r.Group("/api/v1")
	auth.RegisterRoutes(api.Group("/auth"), authSvc)

	secured := api.Group("", auth.RequireAuth([]byte(cfg.Auth.JWTSecret)))
	student.RegisterRoutes(secured, studentSvc)
	attendance.RegisterRoutes(secured, attendanceSvc)

	admin := secured.Group("/auth", auth.RequireRole("admin"))
	auth.RegisterAdminRoutes(admin, authSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go reminder.New(guildClient, cfg.Bot.AlertChannelID, cfg.Bot.ReminderTime, cfg.Bot.Holidays).Run(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
