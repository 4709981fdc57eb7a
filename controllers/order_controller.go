package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/models"
	"github.com/kendall-kelly/cleanrush-laundry-api/services"
	"github.com/kendall-kelly/cleanrush-laundry-api/utils"
)

// CreateOrderRequest represents the request body for creating an order.
// WeightKg is loosely typed because form inputs send numbers or strings.
type CreateOrderRequest struct {
	CustomerName            string      `json:"customerName"`
	Phone                   string      `json:"phone"`
	Address                 string      `json:"address"`
	ServiceTier             string      `json:"serviceTier"`
	WeightKg                interface{} `json:"weightKg"`
	IroningRequested        bool        `json:"ironingRequested"`
	StainTreatmentRequested bool        `json:"stainTreatmentRequested"`
	DeliveryRequested       bool        `json:"deliveryRequested"`
	ScheduledPickupAt       string      `json:"scheduledPickupAt"`
	PaymentMethod           string      `json:"paymentMethod"`
	Note                    string      `json:"note"`
}

// QuoteRequest represents the request body for a price quote
type QuoteRequest struct {
	ServiceTier             string      `json:"serviceTier"`
	WeightKg                interface{} `json:"weightKg"`
	IroningRequested        bool        `json:"ironingRequested"`
	StainTreatmentRequested bool        `json:"stainTreatmentRequested"`
	DeliveryRequested       bool        `json:"deliveryRequested"`
}

// toForm coerces the raw request into an OrderForm
func (r CreateOrderRequest) toForm(now time.Time, loc *time.Location) (services.OrderForm, error) {
	pickup := now
	if s := strings.TrimSpace(r.ScheduledPickupAt); s != "" {
		t, err := utils.ParsePickupTime(s, loc)
		if err != nil {
			return services.OrderForm{}, err
		}
		pickup = t
	}

	return services.OrderForm{
		CustomerName:            strings.TrimSpace(r.CustomerName),
		Phone:                   strings.TrimSpace(r.Phone),
		Address:                 strings.TrimSpace(r.Address),
		ServiceTier:             models.ServiceTier(strings.ToLower(strings.TrimSpace(r.ServiceTier))),
		WeightKg:                utils.CoerceWeight(r.WeightKg),
		IroningRequested:        r.IroningRequested,
		StainTreatmentRequested: r.StainTreatmentRequested,
		DeliveryRequested:       r.DeliveryRequested,
		ScheduledPickupAt:       pickup,
		PaymentMethod:           models.PaymentMethod(strings.ToLower(strings.TrimSpace(r.PaymentMethod))),
		Note:                    r.Note,
	}, nil
}

// CreateOrder handles POST /api/v1/orders - prices, stores and returns a new order
func CreateOrder(c *gin.Context) {
	svc := services.GetOrderService()

	var req CreateOrderRequest
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

	form, err := req.toForm(time.Now(), svc.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid pickup time",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := svc.CreateOrder(c.Request.Context(), form)
	if err != nil {
		if errors.Is(err, services.ErrInvalidForm) {
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
		respondStoreError(c, "Failed to create order", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"data":      order,
		"shareLink": services.BuildShareLink(order, svc.Location()),
	})
}

// GetOrder handles GET /api/v1/orders/:code - tracking lookup, case-insensitive
func GetOrder(c *gin.Context) {
	svc := services.GetOrderService()

	order, err := svc.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		respondStoreError(c, "Failed to look up order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
		"stages":  models.Stages,
	})
}

// GetOrderShareLink handles GET /api/v1/orders/:code/share
func GetOrderShareLink(c *gin.Context) {
	svc := services.GetOrderService()

	order, err := svc.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		respondStoreError(c, "Failed to look up order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"code":    order.Code,
			"message": services.BuildShareMessage(*order, svc.Location()),
			"link":    services.BuildShareLink(*order, svc.Location()),
		},
	})
}

// QuotePrice handles POST /api/v1/quote - prices a form without storing anything
func QuotePrice(c *gin.Context) {
	var req QuoteRequest
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

	breakdown := services.GetOrderService().Quote(services.PriceInput{
		WeightKg:                utils.CoerceWeight(req.WeightKg),
		ServiceTier:             models.ServiceTier(strings.ToLower(strings.TrimSpace(req.ServiceTier))),
		IroningRequested:        req.IroningRequested,
		StainTreatmentRequested: req.StainTreatmentRequested,
		DeliveryRequested:       req.DeliveryRequested,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    breakdown,
	})
}

// GetPrices handles GET /api/v1/prices - the tariff shown on the home view
func GetPrices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.GetOrderService().Prices(),
	})
}

// GetStages handles GET /api/v1/stages - the fixed status pipeline
func GetStages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    models.Stages,
	})
}

// respondStoreError reports a backend failure without leaking details
func respondStoreError(c *gin.Context, message string, err error) {
	config.Logger().Error(message, zap.Error(err))

	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	if errors.Is(err, services.ErrStoreUnavailable) {
		status = http.StatusServiceUnavailable
		code = "STORE_UNAVAILABLE"
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
