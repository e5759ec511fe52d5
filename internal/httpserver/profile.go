package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stash-backend/internal/domain"
	profilerepo "stash-backend/internal/repository/profile"
)

func getProfileHandler(repo profilerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repo == nil {
			c.JSON(http.StatusOK, gin.H{"profile": gin.H{}})
			return
		}
		data, err := repo.Get(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusOK, gin.H{"profile": gin.H{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": data})
	}
}

func putProfileHandler(repo profilerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data map[string]interface{}
		if err := c.ShouldBindJSON(&data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile payload"})
			return
		}
		if repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Profiles not configured"})
			return
		}
		if err := repo.Put(c.Request.Context(), currentCustomer(c).ID, data); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": data})
	}
}
