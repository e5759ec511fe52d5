package httpserver

import (
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"stash-backend/internal/cart"
	"stash-backend/internal/proof"
	profilerepo "stash-backend/internal/repository/profile"
)

// Deps carries the services and stores the router hands to its handlers.
type Deps struct {
	CustomerSvc CustomerService
	CatalogSvc  CatalogService
	OrderSvc    OrderService
	ProfileRepo profilerepo.Repository
	StashSlot   cart.Slot
	ProofStore  proof.Store

	// AdminEmails is the lower-cased allow-list for admin routes. Empty
	// admits nobody.
	AdminEmails []string

	// UploadsDir, when set, is served statically under /uploads.
	UploadsDir string
}

// buildRouter wires all storefront and admin routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.CustomerSvc == nil || deps.CatalogSvc == nil || deps.OrderSvc == nil {
		return nil, errors.New("httpserver: customer, catalog and order services are required")
	}
	if deps.StashSlot == nil {
		return nil, errors.New("httpserver: stash slot is required")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", stashSessionHeader},
		ExposeHeaders: []string{stashSessionHeader},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	if deps.UploadsDir != "" {
		router.Static("/uploads", deps.UploadsDir)
	}

	router.Use(identifyCustomer(deps.CustomerSvc))

	// Catalog, public.
	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:slug", getProductHandler(deps.CatalogSvc))
	router.GET("/just-landed", justLandedHandler(deps.CatalogSvc))
	router.GET("/best-sellers", bestSellersHandler(deps.CatalogSvc))
	router.GET("/categories", listCategoriesHandler(deps.CatalogSvc))
	router.GET("/categories/:slug", getCategoryHandler(deps.CatalogSvc))
	router.GET("/characters", listCharactersHandler(deps.CatalogSvc))
	router.GET("/characters/:slug", getCharacterHandler(deps.CatalogSvc))
	router.GET("/search", searchHandler(deps.CatalogSvc))

	// Accounts.
	router.POST("/signup", signupHandler(deps.CustomerSvc))
	router.POST("/login", loginHandler(deps.CustomerSvc))
	router.GET("/me", requireAuth(), meHandler())
	router.GET("/me/profile", requireAuth(), getProfileHandler(deps.ProfileRepo))
	router.PUT("/me/profile", requireAuth(), putProfileHandler(deps.ProfileRepo))

	// Stash. Works for anonymous sessions via the session header and for
	// authenticated shoppers via their bearer token.
	router.GET("/stash", getStashHandler(deps.StashSlot))
	router.POST("/stash/items", addStashItemHandler(deps.StashSlot))
	router.PATCH("/stash/items/:id", updateStashItemHandler(deps.StashSlot))
	router.DELETE("/stash/items/:id", removeStashItemHandler(deps.StashSlot))
	router.DELETE("/stash", clearStashHandler(deps.StashSlot))

	// Orders. Checkout needs a signed-in shopper; tracking by id is public
	// because the id itself is the shareable secret.
	router.POST("/orders", requireAuth(), checkoutHandler(deps.OrderSvc, deps.ProfileRepo, deps.StashSlot, logger))
	router.GET("/orders/:id", getOrderHandler(deps.OrderSvc))

	admin := requireAdmin(deps.AdminEmails)
	router.GET("/orders", admin, listOrdersHandler(deps.OrderSvc))
	router.PATCH("/orders/:id", admin, updateOrderStatusHandler(deps.OrderSvc))
	router.POST("/orders/:id/proof", admin, uploadProofHandler(deps.OrderSvc, deps.ProofStore, logger))
	router.DELETE("/orders/:id", admin, deleteOrderHandler(deps.OrderSvc))

	return router, nil
}
