package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"stash-backend/internal/cart"
	"stash-backend/internal/domain"
	"stash-backend/internal/proof"
	profilerepo "stash-backend/internal/repository/profile"
	ordersvc "stash-backend/internal/service/order"
)

// OrderService is the order lifecycle surface the handlers need.
type OrderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
	List(ctx context.Context) []domain.Order
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	SetProof(ctx context.Context, id, proofURL string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// checkoutRequest is the frozen cart snapshot submitted at checkout. Items and
// totalAmount are pointers so a missing field can be told apart from an empty
// or zero one.
type checkoutRequest struct {
	Items       *[]domain.CartItem     `json:"items"`
	TotalAmount *float64               `json:"totalAmount"`
	TotalCount  int                    `json:"totalCount"`
	Currency    string                 `json:"currency"`
	Profile     map[string]interface{} `json:"profile"`
}

func checkoutHandler(svc OrderService, profiles profilerepo.Repository, slot cart.Slot, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Items == nil || req.TotalAmount == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
			return
		}

		customer := currentCustomer(c)

		profile := req.Profile
		if profile == nil && profiles != nil {
			saved, err := profiles.Get(c.Request.Context(), customer.ID)
			if err == nil {
				profile = saved
			} else if !errors.Is(err, domain.ErrNotFound) {
				logger.Printf("checkout: profile lookup failed for %s: %v", customer.ID, err)
			}
		}

		order, err := svc.Create(c.Request.Context(), ordersvc.CreateInput{
			Items:       *req.Items,
			TotalAmount: *req.TotalAmount,
			TotalCount:  req.TotalCount,
			Currency:    req.Currency,
			Customer: domain.OrderCustomer{
				Name:  customer.Name,
				Email: customer.Email,
			},
			Profile: profile,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		// The stash served its purpose; clear it best-effort.
		if slot != nil {
			if err := slot.Clear(c.Request.Context(), "customer:"+customer.ID); err != nil {
				logger.Printf("checkout: clear stash failed for %s: %v", customer.ID, err)
			}
		}

		c.JSON(http.StatusCreated, gin.H{"order": order})
	}
}

func getOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

func listOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"orders": svc.List(c.Request.Context())})
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func updateOrderStatusHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing status"})
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, ordersvc.ErrInvalidStatus):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

func uploadProofHandler(svc OrderService, store proof.Store, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Proof uploads not configured"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
			return
		}

		id := c.Param("id")
		order, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
			return
		}
		defer f.Close()

		url, err := store.Save(c.Request.Context(), order.ID, fileHeader.Filename, f)
		if err != nil {
			logger.Printf("proof upload: save failed for %s: %v", order.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload proof"})
			return
		}

		order, err = svc.SetProof(c.Request.Context(), order.ID, url)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload proof"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order, "proofUrl": url})
	}
}

func deleteOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
