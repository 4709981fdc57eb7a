package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/middleware"
	"github.com/kendall-kelly/cleanrush-laundry-api/services"
)

// AdminLoginRequest represents the request body for the admin PIN check
type AdminLoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// AdminLogin handles POST /api/v1/admin/login - checks the static admin PIN
// from cfg, the same configuration the admin route group is guarded with
func AdminLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid request data",
					"details": err.Error(),
				},
			})
			return
		}

		if !middleware.CheckPIN(cfg, req.PIN) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_PIN",
					"message": "Admin PIN is incorrect",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "PIN accepted",
		})
	}
}

// ListOrders handles GET /api/v1/admin/orders - the whole collection, newest first
func ListOrders(c *gin.Context) {
	orders, err := services.GetOrderService().ListOrders(c.Request.Context())
	if err != nil {
		respondStoreError(c, "Failed to load orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}

// AdvanceOrder handles POST /api/v1/admin/orders/:code/advance
func AdvanceOrder(c *gin.Context) {
	moveOrder(c, 1)
}

// RetreatOrder handles POST /api/v1/admin/orders/:code/retreat
func RetreatOrder(c *gin.Context) {
	moveOrder(c, -1)
}

// moveOrder shifts an order one stage. Unknown codes answer with data: null.
func moveOrder(c *gin.Context, direction int) {
	order, err := services.GetOrderService().AdvanceStage(c.Request.Context(), c.Param("code"), direction)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDirection) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DIRECTION",
					"message": err.Error(),
				},
			})
			return
		}
		respondStoreError(c, "Failed to update order status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/admin/orders/:code
func DeleteOrder(c *gin.Context) {
	if err := services.GetOrderService().DeleteOrder(c.Request.Context(), c.Param("code")); err != nil {
		respondStoreError(c, "Failed to delete order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}

// ResetOrders handles DELETE /api/v1/admin/orders - clears every order
func ResetOrders(c *gin.Context) {
	if err := services.GetOrderService().ResetAll(c.Request.Context()); err != nil {
		respondStoreError(c, "Failed to reset orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All orders cleared",
	})
}

// ExportOrders handles GET /api/v1/admin/orders/export - XLSX download of the admin table
func ExportOrders(c *gin.Context) {
	svc := services.GetOrderService()

	orders, err := svc.ListOrders(c.Request.Context())
	if err != nil {
		respondStoreError(c, "Failed to load orders", err)
		return
	}

	f, err := services.BuildOrdersWorkbook(orders, svc.Location())
	if err != nil {
		config.Logger().Error("Failed to build export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_ERROR",
				"message": "Failed to build export",
			},
		})
		return
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			config.Logger().Warn("Failed to close workbook", zap.Error(closeErr))
		}
	}()

	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().In(svc.Location()).Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		config.Logger().Error("Failed to write export", zap.Error(err))
	}
}
