package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sosgog-storefront/models"
	"sosgog-storefront/pricing"
	"sosgog-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB *gorm.DB
}

func paginate(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

func pages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

// GetOrderByNumber is the shopper's order confirmation lookup. The email on
// the order must be supplied alongside the number.
func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	number := c.Param("number")
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").
		Where("order_number = ? AND LOWER(email) = LOWER(?)", number, email).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit, offset := paginate(c)

	query := h.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(order_number) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", like, like)
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
		"pages":  pages(total, limit),
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid status transition from '%s' to '%s'", order.Status, req.Status),
		})
		return
	}

	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	h.DB.Preload("Items").First(&order, "id = ?", order.ID)

	utils.SendOrderStatusUpdate(order.Email, order.FirstName, order.OrderNumber, string(req.Status))

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrderTransitions(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllowedTransitions)
}

// GetAdminDashboard returns pre-computed stats for the back office.
func (h *OrderHandler) GetAdminDashboard(c *gin.Context) {
	var productCount int64
	h.DB.Model(&models.Product{}).Count(&productCount)

	var activeProducts int64
	h.DB.Model(&models.Product{}).Where("is_active = ?", true).Count(&activeProducts)

	var categoryCount int64
	h.DB.Model(&models.Category{}).Count(&categoryCount)

	var totalOrders int64
	h.DB.Model(&models.Order{}).Count(&totalOrders)

	// Cancelled orders are not revenue.
	var totalRevenue float64
	h.DB.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&totalRevenue)

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	var recentRevenue float64
	h.DB.Model(&models.Order{}).
		Where("created_at >= ? AND status <> ?", sevenDaysAgo, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&recentRevenue)

	var pendingOrders int64
	h.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingOrders)

	var pendingApplications int64
	h.DB.Model(&models.DesignerApplication{}).Where("status = ?", models.ApplicationPending).Count(&pendingApplications)

	var recentOrders []models.Order
	h.DB.Preload("Items").Order("created_at DESC").Limit(10).Find(&recentOrders)

	c.JSON(http.StatusOK, gin.H{
		"total_products":       productCount,
		"active_products":      activeProducts,
		"total_categories":     categoryCount,
		"total_orders":         totalOrders,
		"total_revenue":        pricing.Round2(totalRevenue),
		"recent_revenue":       pricing.Round2(recentRevenue),
		"pending_orders":       pendingOrders,
		"pending_applications": pendingApplications,
		"recent_orders":        recentOrders,
	})
}
