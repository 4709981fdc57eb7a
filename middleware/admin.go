package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/cleanrush-laundry-api/config"
)

// AdminPINHeader carries the admin PIN on every admin request
const AdminPINHeader = "X-Admin-PIN"

// CheckPIN reports whether pin matches the configured admin PIN.
// This is a static shared PIN, not an authentication system.
func CheckPIN(cfg *config.Config, pin string) bool {
	return subtle.ConstantTimeCompare([]byte(pin), []byte(cfg.AdminPIN)) == 1
}

// RequireAdminPIN rejects requests whose X-Admin-PIN header does not match
func RequireAdminPIN(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		pin := c.GetHeader(AdminPINHeader)
		if pin == "" {
			// Browsers can't set headers on websocket upgrades
			pin = c.Query("pin")
		}

		if !CheckPIN(cfg, pin) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_PIN",
					"message": "Admin PIN is missing or incorrect",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
