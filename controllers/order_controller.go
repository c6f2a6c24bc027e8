package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/billplz"
	"storefront/middleware"
	"storefront/service"
	"storefront/store"
)

type OrderController struct {
	service *service.OrderService
}

func NewOrderController(svc *service.OrderService) *OrderController {
	return &OrderController{service: svc}
}

// ListOrders handles GET /orders. Non-admin callers only ever see their own
// orders; the optional ?status= filter composes with that scope.
func (ctl *OrderController) ListOrders(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	orders, err := ctl.service.List(c.Request.Context(), caller, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": orders})
}

// GetOrder handles GET /orders/:id.
func (ctl *OrderController) GetOrder(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	order, err := ctl.service.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": order})
}

// CreateOrder handles POST /orders. The response is the gateway's bill
// payload so the client can redirect the customer to the payment page.
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	bill, err := ctl.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

// UpdateOrder handles PUT /orders/:id (admin only).
func (ctl *OrderController) UpdateOrder(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	var patch store.OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := ctl.service.Update(c.Request.Context(), caller, c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "data": order})
}

// DeleteOrder handles DELETE /orders/:id (admin only).
func (ctl *OrderController) DeleteOrder(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	order, err := ctl.service.Delete(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "data": order})
}

// respondError maps error kinds to status codes while keeping the
// {"error": message} body shape everywhere.
func respondError(c *gin.Context, err error) {
	var gatewayErr *billplz.Error
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: admin only"})
	case errors.Is(err, store.ErrValidation), errors.Is(err, service.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": gatewayErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
