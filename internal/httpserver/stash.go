package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stash-backend/internal/cart"
	"stash-backend/internal/domain"
)

// stashSessionHeader carries the anonymous stash session id. The server mints
// one on first contact and echoes it back; clients persist and resend it.
const stashSessionHeader = "X-Stash-Session"

// stashSessionID resolves the slot key for this request. A signed-in shopper
// always uses their account-bound slot so the stash follows them across
// devices; anonymous shoppers get a per-session slot.
func stashSessionID(c *gin.Context) string {
	if customer := currentCustomer(c); customer != nil {
		return "customer:" + customer.ID
	}

	raw := c.GetHeader(stashSessionHeader)
	if _, err := uuid.Parse(raw); err != nil {
		raw = uuid.NewString()
	}
	c.Header(stashSessionHeader, raw)
	return "anon:" + raw
}

func stashResponse(s *cart.Store) gin.H {
	return gin.H{
		"items":       s.Items(),
		"totalCount":  s.TotalCount(),
		"totalAmount": s.TotalAmount(),
		"currency":    s.Currency(),
	}
}

func getStashHandler(slot cart.Slot) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := cart.NewStore(c.Request.Context(), stashSessionID(c), slot)
		c.JSON(http.StatusOK, stashResponse(store))
	}
}

type addStashItemRequest struct {
	Item     domain.CartItem `json:"item" binding:"required"`
	Quantity int             `json:"quantity"`
}

func addStashItemHandler(slot cart.Slot) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addStashItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Item.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stash payload"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		store := cart.NewStore(c.Request.Context(), stashSessionID(c), slot)
		if err := store.AddItem(c.Request.Context(), req.Item, req.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save stash"})
			return
		}
		c.JSON(http.StatusOK, stashResponse(store))
	}
}

type updateStashItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func updateStashItemHandler(slot cart.Slot) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStashItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stash payload"})
			return
		}

		store := cart.NewStore(c.Request.Context(), stashSessionID(c), slot)
		if err := store.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save stash"})
			return
		}
		c.JSON(http.StatusOK, stashResponse(store))
	}
}

func removeStashItemHandler(slot cart.Slot) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := cart.NewStore(c.Request.Context(), stashSessionID(c), slot)
		if err := store.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save stash"})
			return
		}
		c.JSON(http.StatusOK, stashResponse(store))
	}
}

func clearStashHandler(slot cart.Slot) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := cart.NewStore(c.Request.Context(), stashSessionID(c), slot)
		if err := store.Clear(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save stash"})
			return
		}
		c.JSON(http.StatusOK, stashResponse(store))
	}
}
