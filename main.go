package main

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smartfarm/backend/handlers"
	"github.com/smartfarm/backend/logger"
	"github.com/smartfarm/backend/natsserver"
	"github.com/smartfarm/backend/services"
	"github.com/smartfarm/backend/storage"
	"github.com/smartfarm/backend/store"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	logFormat := "json"
	if os.Getenv("ENV") != "production" {
		logFormat = "console"
	}
	log, err := logger.New(os.Getenv("LOG_LEVEL"), logFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	syncDeviceID := envOr("SYNC_DEVICE_ID", "farm_001")
	soundsDir := envOr("SOUNDS_DIR", "./sounds")
	onlineWindow := time.Duration(envIntOr("ONLINE_WINDOW_SECONDS", 30)) * time.Second

	// Start embedded NATS server for in-process alert events. Port 4233
	// keeps clear of any co-located NATS on the default 4222.
	natsServer, err := natsserver.New(natsserver.Config{
		Port: envIntOr("NATS_PORT", 4233),
	})
	if err != nil {
		log.Fatal("failed to start NATS server", zap.Error(err))
	}
	defer natsServer.Shutdown()
	log.Info("embedded NATS server started", zap.Int("port", natsServer.Port()))

	// Sound asset store (the only state that survives a restart)
	soundStore, err := storage.NewSoundStore(soundsDir)
	if err != nil {
		log.Fatal("failed to open sound store", zap.Error(err))
	}
	log.Info("sound store ready", zap.String("dir", soundsDir))

	// Shared registers and the event wiring between them
	mailbox := store.NewMailbox()
	dispatcher := services.NewDispatcher(mailbox, syncDeviceID, natsServer.Conn(), log)
	state := store.NewState(dispatcher, onlineWindow)

	// Alert hub streams detections to WebSocket app clients
	alertHub := services.NewAlertHub(natsServer.Conn(), log)
	go alertHub.Run()
	handlers.SetAlertHub(alertHub)

	handlers.Init(state, mailbox, soundStore, syncDeviceID, log)

	// Setup Gin router
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(config))

	router.GET("/", func(c *gin.Context) {
		c.String(200, "Smart Farm Cloud Running")
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"nats":      natsServer.GetStats(),
			"alertHub":  alertHub.Stats(),
		})
	})

	// Device-facing routes (polled by field units)
	device := router.Group("/device")
	{
		device.POST("/detection", handlers.PostDetection)
		device.POST("/heartbeat", handlers.PostHeartbeat)
		device.POST("/motor", handlers.PostMotorReport)
		device.POST("/sounds", handlers.PostSoundInventory)
		device.GET("/command/:id", handlers.DrainCommand)
		device.GET("/download/:filename", handlers.DownloadSound)
	}

	// App-facing routes
	app := router.Group("/app")
	{
		app.GET("/latest", handlers.GetLatestDetection)
		app.GET("/alerts", handlers.GetAlerts)
		app.GET("/status/:id", handlers.GetDeviceStatus)
		app.POST("/command", handlers.PostCommand)
		app.POST("/motor", handlers.PostMotorAction)
		app.GET("/motor", handlers.GetMotorState)
		app.GET("/sounds", handlers.ListSounds)
		app.POST("/sounds/upload", handlers.UploadSound)
	}

	// Settings live at the root; the device firmware fetches them there
	router.GET("/settings", handlers.GetSettings)
	router.POST("/settings", handlers.UpdateSettings)

	// WebSocket route for live alerts
	router.GET("/ws/alerts", handlers.HandleAlertWebSocket)

	// Start server
	port := envOr("PORT", "5000")
	log.Info("server running", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
