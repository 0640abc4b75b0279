package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/config"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/domain"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/handler"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/infra"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/middleware"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/repository"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/service"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	cartSvc := service.NewCartService(cartRepo, productRepo)
	checkoutSvc := service.NewCheckoutService(cartRepo, saleRepo, inventoryRepo, movementRepo, dispatcher)
	inventorySvc := service.NewInventoryService(inventoryRepo, productRepo, movementRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cartsH := handler.NewCartsHandler(cartSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(domain.RoleCashier, domain.RoleManager, domain.RoleAdmin)
	managerUp := middleware.RequireRole(domain.RoleManager, domain.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		carts := v1.Group("/carts", anyRole)
		{
			carts.POST("", cartsH.Create)
			carts.GET("/:id", cartsH.Get)
			carts.POST("/:id/items", cartsH.AddItem)
			carts.PUT("/:id/items/:itemId", cartsH.UpdateItem)
			carts.DELETE("/:id/items/:itemId", cartsH.RemoveItem)
			carts.POST("/:id/discount", cartsH.ApplyDiscount)
			carts.POST("/:id/hold", cartsH.Hold)
			carts.POST("/:id/resume", cartsH.Resume)
			carts.DELETE("/:id", cartsH.Abandon)
		}

		v1.POST("/checkout", anyRole, checkoutH.Complete)
		v1.GET("/sales", anyRole, checkoutH.ListSales)
		v1.GET("/sales/:id", anyRole, checkoutH.GetSale)

		inv := v1.Group("/inventory")
		{
			inv.GET("/stock", anyRole, inventoryH.GetStock)
			inv.GET("/movements/:productId", anyRole, inventoryH.ListMovements)
			inv.POST("/adjust", managerUp, inventoryH.AdjustStock)
			inv.POST("/transfer", managerUp, inventoryH.Transfer)
		}
	}

	return r
}
