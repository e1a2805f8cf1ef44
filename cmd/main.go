package main

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/bellanapoli/pizzeria-api/docs" // Import generated docs
	"github.com/bellanapoli/pizzeria-api/internal/auth"
	"github.com/bellanapoli/pizzeria-api/internal/config"
	"github.com/bellanapoli/pizzeria-api/internal/controllers"
	"github.com/bellanapoli/pizzeria-api/internal/database"
	"github.com/bellanapoli/pizzeria-api/internal/middleware"
	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/bellanapoli/pizzeria-api/internal/payments"
	"github.com/bellanapoli/pizzeria-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	configuration *config.Config

	pizzaService   services.PizzaService
	catalogService services.CatalogService
	zoneService    services.ZoneService
	orderService   services.OrderService
	userService    services.UserService
	clientService  services.ClientService

	pizzaController   controllers.PizzaController
	catalogController controllers.CatalogController
	zoneController    controllers.ZoneController
	orderController   controllers.OrderController
	paymentController controllers.PaymentController
	authController    *controllers.AuthController
	clientController  *controllers.ClientController
	oauthService      *auth.OAuthService
)

// @title Pizzeria API
// @version 1.0
// @description Pizza ordering storefront and back-office API
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services, controllers and the OAuth2 token server
	setupServices(configuration)

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf.String())
	return conf
}

// setupDatabase initializes the database connection, migrates the schema and
// seeds the menu when empty
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.FromAppConfig(conf))
	checkPanicErr(err)

	// Migrate the schema
	err = db.AutoMigrate(
		&models.Pizza{}, &models.Category{}, &models.PizzaSize{},
		&models.CrustType{}, &models.Topping{}, &models.DeliveryZone{},
		&models.Order{}, &models.OrderItem{}, &models.OrderItemTopping{},
		&models.User{},
		&models.OAuthClient{}, &models.OAuthCode{}, &models.OAuthToken{},
	)
	checkPanicErr(err)

	// Create only if is empty
	var count int64
	db.Model(&models.Pizza{}).Count(&count)
	if count == 0 {
		log.Info("Database is empty, seeding initial data")
		seedDatabase()
	} else {
		log.Info("Database already seeded with initial data")
	}
	return db
}

// seedDatabase seeds the database with the base menu and delivery zones
func seedDatabase() {
	log.Info("Seeding database with initial data")

	classics := models.Category{ID: uuid.New().String(), Name: "Classiques", Slug: "classiques", DisplayOrder: 1, IsActive: true}
	specials := models.Category{ID: uuid.New().String(), Name: "Spécialités", Slug: "specialites", DisplayOrder: 2, IsActive: true}
	db.Create(&classics)
	db.Create(&specials)

	pizzas := []models.Pizza{
		{ID: uuid.New().String(), Name: "Margherita", Slug: "margherita", Description: "Sauce tomate, mozzarella, basilic", BasePrice: 14.00, CategoryID: &classics.ID, IsAvailable: true, IsVegetarian: true, PrepTimeMinutes: 12},
		{ID: uuid.New().String(), Name: "Prosciutto", Slug: "prosciutto", Description: "Sauce tomate, mozzarella, jambon", BasePrice: 17.50, CategoryID: &classics.ID, IsAvailable: true, PrepTimeMinutes: 14},
		{ID: uuid.New().String(), Name: "Quattro Formaggi", Slug: "quattro-formaggi", Description: "Mozzarella, gorgonzola, parmesan, gruyère", BasePrice: 18.50, CategoryID: &specials.ID, IsAvailable: true, IsVegetarian: true, PrepTimeMinutes: 15},
		{ID: uuid.New().String(), Name: "Diavola", Slug: "diavola", Description: "Sauce tomate, mozzarella, salami piquant", BasePrice: 18.00, CategoryID: &specials.ID, IsAvailable: true, IsSpicy: true, PrepTimeMinutes: 14},
	}
	for _, pizza := range pizzas {
		db.Create(&pizza)
	}

	sizes := []models.PizzaSize{
		{ID: uuid.New().String(), Name: "Petite", DiameterCM: 26, PriceMultiplier: 0.85, DisplayOrder: 1},
		{ID: uuid.New().String(), Name: "Moyenne", DiameterCM: 32, PriceMultiplier: 1.0, DisplayOrder: 2},
		{ID: uuid.New().String(), Name: "Grande", DiameterCM: 40, PriceMultiplier: 1.35, DisplayOrder: 3},
	}
	for _, size := range sizes {
		db.Create(&size)
	}

	crusts := []models.CrustType{
		{ID: uuid.New().String(), Name: "Classique", AdditionalPrice: 0, IsAvailable: true},
		{ID: uuid.New().String(), Name: "Fine", AdditionalPrice: 0, IsAvailable: true},
		{ID: uuid.New().String(), Name: "Épaisse", AdditionalPrice: 2.00, IsAvailable: true},
	}
	for _, crust := range crusts {
		db.Create(&crust)
	}

	toppings := []models.Topping{
		{ID: uuid.New().String(), Name: "Mozzarella supplémentaire", Price: 2.50, Category: models.ToppingCheese, IsAvailable: true, IsVegetarian: true},
		{ID: uuid.New().String(), Name: "Jambon", Price: 3.00, Category: models.ToppingMeat, IsAvailable: true},
		{ID: uuid.New().String(), Name: "Champignons", Price: 2.00, Category: models.ToppingVegetable, IsAvailable: true, IsVegetarian: true, IsVegan: true},
		{ID: uuid.New().String(), Name: "Olives", Price: 1.50, Category: models.ToppingVegetable, IsAvailable: true, IsVegetarian: true, IsVegan: true},
	}
	for _, topping := range toppings {
		db.Create(&topping)
	}

	zones := []models.DeliveryZone{
		{ID: uuid.New().String(), Canton: "Vaud", PostalCodes: models.StringList{"1000", "1003", "1004", "1005"}, DeliveryFee: 5.00, MinOrderAmount: 20.00, EstimatedDeliveryMinutes: 35, IsActive: true},
		{ID: uuid.New().String(), Canton: "Vaud", PostalCodes: models.StringList{"1008", "1009", "1010"}, DeliveryFee: 7.00, MinOrderAmount: 30.00, EstimatedDeliveryMinutes: 50, IsActive: true},
	}
	for _, zone := range zones {
		db.Create(&zone)
	}

	log.Info("Database seeded successfully")
}

// setupServices wires services, controllers and the OAuth2 token server
func setupServices(conf *config.Config) {
	pizzaService = services.NewPizzaService(db)
	catalogService = services.NewCatalogService(db)
	zoneService = services.NewZoneService(db)
	orderService = services.NewOrderService(db, zoneService, catalogService)
	userService = services.NewUserService(db)
	clientService = services.NewClientService(db)

	paymentClient := payments.NewClient(conf.PaymentAPIURL, conf.PaymentSecretKey, nil)

	pizzaController = controllers.NewPizzaController(pizzaService)
	catalogController = controllers.NewCatalogController(catalogService)
	zoneController = controllers.NewZoneController(zoneService)
	orderController = controllers.NewOrderController(orderService)
	paymentController = controllers.NewPaymentController(paymentClient, orderService, conf.PaymentWebhookSecret, conf.Currency)
	authController = controllers.NewAuthController(userService, conf.JWTSecret)
	clientController = controllers.NewClientController(clientService)
	oauthService = auth.NewOAuthService(db, conf.JWTSecret)
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.Default()

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	jwtSecret := []byte(configuration.JWTSecret)

	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// OAuth2 endpoints for machine clients
	router.POST("/oauth/token", oauthService.HandleToken)
	router.GET("/oauth/authorize", oauthService.HandleAuthorize)

	v1 := router.Group("/api/v1")
	{
		authApi := v1.Group("/auth")
		{
			authApi.POST("/register", authController.Register)
			authApi.POST("/login", authController.Login)
		}

		publicApi := v1.Group("/public")
		{
			publicApi.GET("/pizzas", pizzaController.GetAllPizzas)
			publicApi.GET("/pizzas/:id", pizzaController.GetPizza)
			publicApi.GET("/categories", catalogController.GetCategories)
			publicApi.GET("/sizes", catalogController.GetSizes)
			publicApi.GET("/crusts", catalogController.GetCrustTypes)
			publicApi.GET("/toppings", catalogController.GetToppings)
			publicApi.GET("/zones/check", zoneController.CheckZone)

			// Guest-capable order paths: a token is honoured when supplied
			orders := publicApi.Group("/orders")
			orders.Use(middleware.OptionalJWTAuth(jwtSecret))
			{
				orders.POST("", orderController.CreateOrder)
				orders.GET("/by-email", orderController.GetOrdersByEmail)
				orders.GET("/:id", orderController.GetOrder)
			}

			paymentsApi := publicApi.Group("/payments")
			{
				paymentsApi.POST("/checkout", paymentController.CreateCheckoutSession)
				paymentsApi.GET("/session", paymentController.GetSession)
				paymentsApi.POST("/webhook", paymentController.HandleWebhook)
			}
		}

		// Protected routes (requires JWT authentication)
		protectedApi := v1.Group("/protected")
		protectedApi.Use(middleware.JWTAuth(jwtSecret))
		{
			// Zone management requires authentication but no specific role
			zonesApi := protectedApi.Group("/zones")
			{
				zonesApi.GET("", zoneController.GetAllZones)
				zonesApi.POST("", zoneController.CreateZone)
				zonesApi.PUT("/:id", zoneController.UpdateZone)
				zonesApi.DELETE("/:id", zoneController.DeleteZone)
			}

			// OAuth2 client management for machine integrations
			clientsApi := protectedApi.Group("/clients")
			{
				clientsApi.POST("", clientController.CreateClient)
				clientsApi.GET("", clientController.ListClients)
				clientsApi.DELETE("/:id", clientController.DeleteClient)
			}

			adminApi := protectedApi.Group("/admin")
			adminApi.Use(middleware.RequireRole(models.RoleAdmin))
			{
				adminApi.POST("/pizzas", pizzaController.CreatePizza)
				adminApi.PUT("/pizzas/:id", pizzaController.UpdatePizza)
				adminApi.PATCH("/pizzas/:id", pizzaController.PatchPizza)
				adminApi.DELETE("/pizzas/:id", pizzaController.DeletePizza)

				adminApi.POST("/toppings", catalogController.CreateTopping)
				adminApi.PUT("/toppings/:id", catalogController.UpdateTopping)
				adminApi.DELETE("/toppings/:id", catalogController.DeleteTopping)

				adminApi.GET("/orders", orderController.ListOrders)
			}

			staffApi := protectedApi.Group("/staff")
			staffApi.Use(middleware.RequireRole(models.RoleAdmin, models.RoleDelivery))
			{
				staffApi.PATCH("/orders/:id", orderController.UpdateOrder)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pizzeria-api",
	})
}
