// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"dukapos/internal/core/id"
	"dukapos/internal/domain/account"
	"dukapos/internal/domain/auth"
	"dukapos/internal/domain/catalog"
	"dukapos/internal/domain/inventory"
	"dukapos/internal/domain/ledger/bank"
	"dukapos/internal/domain/ledger/history"
	"dukapos/internal/domain/ledger/sale"
	"dukapos/internal/domain/ledger/swap"
	"dukapos/internal/domain/ledger/transaction"
	"dukapos/internal/domain/reports"
	"dukapos/internal/infrastructure/http/v1/handlers"
	"dukapos/internal/infrastructure/http/v1/middleware"
	"dukapos/internal/infrastructure/storage/postgres"
	"dukapos/internal/infrastructure/storage/postgres/account_repo"
	"dukapos/internal/infrastructure/storage/postgres/catalog_repo"
	"dukapos/internal/infrastructure/storage/postgres/inventory_repo"
	"dukapos/internal/infrastructure/storage/postgres/ledger_repo"
	"dukapos/internal/infrastructure/storage/postgres/report_repo"
	"dukapos/pkg/logger"
	"dukapos/pkg/numerator"
)

// RouterConfig holds the router's dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks).
	Pool *pgxpool.Pool

	// Redis client, nil when caching is disabled.
	Redis *redis.Client

	// Logger for request logging.
	Logger *logger.Logger

	// TxManager runs repository work in transactions.
	TxManager *postgres.TxManager

	// JWTValidator validates bearer tokens.
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints.
	AuthService *auth.Service

	// Numerator allocates sequential order numbers.
	Numerator *numerator.Service

	// ReportCache backs the dashboard, nil to always recompute.
	ReportCache reports.Cache
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Redis)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, cfg)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerLedgerRoutes(protected, cfg)
		registerCatalogRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication and user management
// endpoints. User creation and listing are admin-only.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	authGroup := rg.Group("/auth")
	authGroup.POST("/login", authHandler.Login)

	me := rg.Group("/auth")
	me.Use(middleware.Auth(cfg.JWTValidator))
	me.GET("/me", authHandler.Me)

	users := rg.Group("/users")
	users.Use(middleware.Auth(cfg.JWTValidator))
	users.Use(middleware.RequireAdmin())
	users.POST("", authHandler.CreateUser)
	users.GET("", authHandler.ListUsers)
}

// registerLedgerRoutes registers the four balance-mutating flows plus
// the read-only account endpoints.
func registerLedgerRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	accountRepo := account_repo.NewAccountRepo(cfg.TxManager)
	inventoryRepo := inventory_repo.NewInventoryRepo(cfg.TxManager)

	// --- ACCOUNTS (read-only) ---
	{
		service := account.NewService(accountRepo)
		handler := handlers.NewAccountHandler(baseHandler, service)
		accounts := rg.Group("/accounts")
		accounts.GET("", handler.List)
		accounts.GET("/:id", handler.Get)
	}

	// --- SELLS ---
	{
		repo := ledger_repo.NewSaleRepo(cfg.TxManager)
		service := sale.NewService(repo, accountRepo, inventoryRepo, cfg.Numerator, cfg.TxManager)
		handler := handlers.NewSaleHandler(baseHandler, service)
		registerMutatorRoutes(rg.Group("/sells"), handler)
	}

	// --- TRANSACTIONS ---
	{
		repo := ledger_repo.NewTransactionRepo(cfg.TxManager)
		service := transaction.NewService(repo, accountRepo, cfg.TxManager)
		handler := handlers.NewTransactionHandler(baseHandler, service)
		registerMutatorRoutes(rg.Group("/transactions"), handler)
	}

	// --- SWAPS ---
	{
		repo := ledger_repo.NewSwapRepo(cfg.TxManager)
		service := swap.NewService(repo, accountRepo, cfg.TxManager)
		handler := handlers.NewSwapHandler(baseHandler, service)
		registerMutatorRoutes(rg.Group("/swaps"), handler)
	}

	// --- BANK TRANSACTIONS ---
	{
		repo := ledger_repo.NewBankRepo(cfg.TxManager)
		service := bank.NewService(repo, accountRepo, cfg.TxManager)
		handler := handlers.NewBankHandler(baseHandler, service)
		registerMutatorRoutes(rg.Group("/bank-transactions"), handler)
	}

	// --- PRODUCTS ---
	{
		service := inventory.NewService(inventoryRepo, cfg.TxManager)
		handler := handlers.NewInventoryHandler(baseHandler, service)
		products := rg.Group("/products")
		products.POST("", handler.Create)
		products.GET("", handler.List)
		products.GET("/:id", handler.Get)
		products.PATCH("/:id", handler.Update)
		products.DELETE("/:id", handler.Delete)
	}
}

// mutatorHandler is the route shape shared by the four ledger flows.
type mutatorHandler interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
}

func registerMutatorRoutes(rg *gin.RouterGroup, h mutatorHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// registerCatalogRoutes registers the plain CRUD catalogs.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// --- CATEGORIES ---
	{
		repo := catalog_repo.NewCategoryRepo(cfg.TxManager)
		service := catalog.NewCategoryService(repo)
		handler := handlers.NewCatalogHandler(baseHandler, "category", service,
			func(e *catalog.Category, entityID id.ID) { e.ID = entityID })
		handler.RegisterRoutes(rg.Group("/categories"))
	}

	// --- CUSTOMERS ---
	{
		repo := catalog_repo.NewCustomerRepo(cfg.TxManager)
		service := catalog.NewCustomerService(repo)
		handler := handlers.NewCatalogHandler(baseHandler, "customer", service,
			func(e *catalog.Customer, entityID id.ID) { e.ID = entityID })
		handler.RegisterRoutes(rg.Group("/customers"))
	}

	// --- BANK ACCOUNTS ---
	{
		repo := catalog_repo.NewBankAccountRepo(cfg.TxManager)
		service := catalog.NewBankAccountService(repo)
		handler := handlers.NewCatalogHandler(baseHandler, "bank account", service,
			func(e *catalog.BankAccount, entityID id.ID) { e.ID = entityID })
		handler.RegisterRoutes(rg.Group("/bank-accounts"))
	}

	// --- TAILOR ORDERS ---
	{
		repo := catalog_repo.NewTailorOrderRepo(cfg.TxManager)
		service := catalog.NewTailorOrderService(repo)
		handler := handlers.NewCatalogHandler(baseHandler, "tailor order", service,
			func(e *catalog.TailorOrder, entityID id.ID) { e.ID = entityID })
		handler.RegisterRoutes(rg.Group("/tailor-orders"))
	}
}

// registerReportRoutes registers reporting and history endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	accountRepo := account_repo.NewAccountRepo(cfg.TxManager)
	historyRepo := ledger_repo.NewHistoryRepo(cfg.TxManager)
	historyService := history.NewService(historyRepo, accountRepo)

	reportRepo := report_repo.NewReportRepo(cfg.TxManager)
	reportService := reports.NewService(reportRepo, cfg.ReportCache)

	handler := handlers.NewReportsHandler(baseHandler, reportService, historyService)

	reportsGroup := rg.Group("/reports")
	reportsGroup.GET("/account-history", handler.AccountHistory)
	reportsGroup.GET("/account-history/export", handler.AccountHistoryExport)
	reportsGroup.GET("/sales-by-product", handler.SalesByProduct)
	reportsGroup.GET("/sales-by-category", handler.SalesByCategory)
	reportsGroup.GET("/swap-summary", handler.SwapSummary)
	reportsGroup.GET("/dashboard", handler.Dashboard)
}
