package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Nigeria Tax Reform API
// @version         1.0
// @description     Tax computation, capital credit and filing API for the 2026 Nigerian tax reform.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	capitalRepo := repository.NewCapitalRepository(db)
	calcRepo := repository.NewTaxCalculationRepository(db)
	returnRepo := repository.NewTaxReturnRepository(db)
	configRepo := repository.NewTaxConfigRepository(db)
	vatRepo := repository.NewVATRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	complianceRepo := repository.NewComplianceRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo)
	configService := service.NewTaxConfigService(configRepo, auditRepo, txManager)
	businessService := service.NewBusinessService(businessRepo, auditRepo, txManager)
	incomeService := service.NewIncomeService(incomeRepo)
	documentService := service.NewDocumentService(documentRepo, auditRepo, txManager)
	capitalService := service.NewCapitalService(capitalRepo, businessRepo, auditRepo, txManager, configService.Snapshot)
	taxService := service.NewTaxService(calcRepo, auditRepo, txManager, configService)
	returnService := service.NewTaxReturnService(returnRepo, incomeRepo, businessRepo, documentRepo, auditRepo, txManager, configService, wsHub)
	vatService := service.NewVATService(vatRepo, businessRepo, auditRepo, txManager, configService)
	donationService := service.NewDonationService(donationRepo, businessRepo, auditRepo, txManager, configService)
	complianceService := service.NewComplianceService(complianceRepo, businessRepo, auditRepo, txManager)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	businessHandler := handler.NewBusinessHandler(businessService)
	incomeHandler := handler.NewIncomeHandler(incomeService)
	documentHandler := handler.NewDocumentHandler(documentService)
	capitalHandler := handler.NewCapitalHandler(capitalService)
	taxHandler := handler.NewTaxHandler(taxService)
	returnHandler := handler.NewTaxReturnHandler(returnService)
	configHandler := handler.NewTaxConfigHandler(configService)
	vatHandler := handler.NewVATHandler(vatService)
	donationHandler := handler.NewDonationHandler(donationService)
	complianceHandler := handler.NewComplianceHandler(complianceService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	businessHandler.RegisterRoutes(router.Group(""))
	incomeHandler.RegisterRoutes(router.Group(""))
	documentHandler.RegisterRoutes(router.Group(""))
	capitalHandler.RegisterRoutes(router.Group(""))
	taxHandler.RegisterRoutes(router.Group(""))
	returnHandler.RegisterRoutes(router.Group(""))
	configHandler.RegisterRoutes(router.Group(""))
	vatHandler.RegisterRoutes(router.Group(""))
	donationHandler.RegisterRoutes(router.Group(""))
	complianceHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
