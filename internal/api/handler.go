package api

import (
	"net/http"
	"strconv"
	"time"

	"resto-pos/internal/apperr"
	"resto-pos/internal/models"
	"resto-pos/internal/service"
	"resto-pos/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	orders      *service.OrderService
	payments    *service.PaymentService
	deliveries  *service.DeliveryService
	menu        *service.MenuService
	inventory   *service.InventoryService
	tables      *service.TableService
	customers   *service.CustomerService
	users       *service.UserService
	coupons     *service.CouponService
	reports     *service.ReportService
	restaurants *service.RestaurantService
}

// Services bundles everything the HTTP layer fronts
type Services struct {
	Orders      *service.OrderService
	Payments    *service.PaymentService
	Deliveries  *service.DeliveryService
	Menu        *service.MenuService
	Inventory   *service.InventoryService
	Tables      *service.TableService
	Customers   *service.CustomerService
	Users       *service.UserService
	Coupons     *service.CouponService
	Reports     *service.ReportService
	Restaurants *service.RestaurantService
}

// NewHandler creates a new HTTP handler
func NewHandler(s Services) *Handler {
	return &Handler{
		orders:      s.Orders,
		payments:    s.Payments,
		deliveries:  s.Deliveries,
		menu:        s.Menu,
		inventory:   s.Inventory,
		tables:      s.Tables,
		customers:   s.Customers,
		users:       s.Users,
		coupons:     s.Coupons,
		reports:     s.Reports,
		restaurants: s.Restaurants,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", h.createOrder)
		v1.POST("/public/orders", h.createPublicOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PATCH("/orders/:id", h.updateOrder)
		v1.PUT("/orders/:id/status", h.setOrderStatus)
		v1.POST("/orders/:id/cancel", h.cancelOrder)
		v1.POST("/orders/:id/payments", h.addPayment)
		v1.PUT("/orders/:id/delivery-person", h.assignDeliveryPerson)

		v1.GET("/menu-items", h.listMenuItems)
		v1.GET("/menu-items/:id", h.getMenuItem)
		v1.POST("/menu-items", h.createMenuItem)
		v1.PUT("/menu-items/:id", h.updateMenuItem)
		v1.DELETE("/menu-items/:id", h.deleteMenuItem)
		v1.POST("/menu-items/:id/restore", h.restoreMenuItem)

		v1.GET("/categories", h.listCategories)
		v1.POST("/categories", h.createCategory)
		v1.PUT("/categories", h.reorderCategories)
		v1.DELETE("/categories/:id", h.deleteCategory)

		v1.GET("/ingredients", h.listIngredients)
		v1.POST("/ingredients", h.createIngredient)
		v1.PUT("/ingredients/:id", h.updateIngredient)
		v1.POST("/ingredients/:id/adjust", h.adjustStock)
		v1.DELETE("/ingredients/:id", h.deleteIngredient)

		v1.GET("/tables", h.listTables)
		v1.PUT("/tables/layout", h.saveTableLayout)
		v1.POST("/tables/:id/clean", h.cleanTable)
		v1.PUT("/tables/:id/waiter", h.reassignWaiter)

		v1.GET("/customers", h.listCustomers)
		v1.GET("/customers/find", h.findCustomer)
		v1.POST("/customers", h.createCustomer)
		v1.PUT("/customers/:id", h.updateCustomer)
		v1.POST("/customers/:id/verify", h.verifyCustomer)
		v1.DELETE("/customers/:id", h.deleteCustomer)

		v1.GET("/users", h.listUsers)
		v1.POST("/users", h.createUser)
		v1.PUT("/users/:id", h.updateUser)
		v1.PUT("/users/:id/location", h.updateUserLocation)
		v1.DELETE("/users/:id", h.deleteUser)
		v1.GET("/delivery-people", h.listAvailableDeliveryPeople)

		v1.GET("/coupons", h.listCoupons)
		v1.POST("/coupons", h.createCoupon)
		v1.POST("/coupons/redeem", h.redeemCoupon)
		v1.PUT("/coupons/:id", h.updateCoupon)
		v1.DELETE("/coupons/:id", h.deleteCoupon)

		v1.GET("/settings/:restaurantId", h.getSettings)
		v1.PUT("/settings/:restaurantId", h.updateSettings)

		v1.GET("/reports/sales", h.salesReport)
	}
}

// respondError maps domain error kinds to HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindInvalidState:
		status = http.StatusConflict
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindBusinessRule:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func restaurantID(c *gin.Context) (string, bool) {
	id := c.Query("restaurant_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_id is required"})
		return "", false
	}
	return id, true
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// Orders

func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	if req.CreatedByID == "" {
		req.CreatedByID = c.GetHeader("X-User-ID")
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) createPublicOrder(c *gin.Context) {
	var req service.PublicOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.CreatePublicOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) listOrders(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListOrders(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) setOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) cancelOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) addPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.AddPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.payments.AddPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) assignDeliveryPerson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		DeliveryPersonID string `json:"delivery_person_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.deliveries.Assign(c.Request.Context(), id, req.DeliveryPersonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Menu

func (h *Handler) listMenuItems(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	items, err := h.menu.ListMenuItems(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu_items": items})
}

func (h *Handler) getMenuItem(c *gin.Context) {
	item, err := h.menu.GetMenuItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) createMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.menu.CreateMenuItem(c.Request.Context(), &item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, err)
		return
	}
	item.ID = c.Param("id")
	updated, err := h.menu.UpdateMenuItem(c.Request.Context(), &item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteMenuItem(c *gin.Context) {
	if err := h.menu.DeleteMenuItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) restoreMenuItem(c *gin.Context) {
	if err := h.menu.RestoreMenuItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Categories

func (h *Handler) listCategories(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	cats, err := h.menu.ListCategories(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *Handler) createCategory(c *gin.Context) {
	var req struct {
		RestaurantID string `json:"restaurant_id" binding:"required"`
		Name         string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.menu.CreateCategory(c.Request.Context(), req.RestaurantID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) reorderCategories(c *gin.Context) {
	var cats []models.MenuCategory
	if err := c.ShouldBindJSON(&cats); err != nil {
		badRequest(c, err)
		return
	}
	reordered, err := h.menu.ReorderCategories(c.Request.Context(), cats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": reordered})
}

func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.menu.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Inventory

func (h *Handler) listIngredients(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	ings, err := h.inventory.ListIngredients(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ings})
}

func (h *Handler) createIngredient(c *gin.Context) {
	var ing models.Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.inventory.CreateIngredient(c.Request.Context(), &ing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateIngredient(c *gin.Context) {
	var ing models.Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		badRequest(c, err)
		return
	}
	ing.ID = c.Param("id")
	updated, err := h.inventory.UpdateIngredient(c.Request.Context(), &ing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) adjustStock(c *gin.Context) {
	var req struct {
		Delta  float64 `json:"delta" binding:"required"`
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Reason == "" {
		req.Reason = "manual"
	}
	ing, err := h.inventory.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *Handler) deleteIngredient(c *gin.Context) {
	if err := h.inventory.DeleteIngredient(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Tables

func (h *Handler) listTables(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	tables, err := h.tables.ListTables(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

func (h *Handler) saveTableLayout(c *gin.Context) {
	var req struct {
		RestaurantID string         `json:"restaurant_id" binding:"required"`
		Tables       []models.Table `json:"tables"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tables, err := h.tables.SaveLayout(c.Request.Context(), req.RestaurantID, req.Tables)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

func (h *Handler) cleanTable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	table, err := h.tables.Clean(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *Handler) reassignWaiter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		WaiterID string `json:"waiter_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	table, err := h.tables.ReassignWaiter(c.Request.Context(), id, req.WaiterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// Customers

func (h *Handler) listCustomers(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	customers, err := h.customers.ListCustomers(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *Handler) findCustomer(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	contact := c.Query("contact")
	if contact == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact is required"})
		return
	}
	customer, err := h.customers.FindByContact(c.Request.Context(), rid, contact)
	if err != nil {
		respondError(c, err)
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) createCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.customers.CreateCustomer(c.Request.Context(), &customer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		badRequest(c, err)
		return
	}
	customer.ID = c.Param("id")
	updated, err := h.customers.UpdateCustomer(c.Request.Context(), &customer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) verifyCustomer(c *gin.Context) {
	var req struct {
		Verified *bool `json:"verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.customers.Verify(c.Request.Context(), c.Param("id"), *req.Verified); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	if err := h.customers.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Users

func (h *Handler) listUsers(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	users, err := h.users.ListUsers(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) createUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.users.CreateUser(c.Request.Context(), &user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		badRequest(c, err)
		return
	}
	user.ID = c.Param("id")
	updated, err := h.users.UpdateUser(c.Request.Context(), &user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) updateUserLocation(c *gin.Context) {
	var req struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.deliveries.UpdateLocation(c.Request.Context(), c.Param("id"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listAvailableDeliveryPeople(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	people, err := h.deliveries.ListAvailable(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivery_people": people})
}

// Coupons

func (h *Handler) listCoupons(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	coupons, err := h.coupons.ListCoupons(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

func (h *Handler) createCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.coupons.CreateCoupon(c.Request.Context(), &coupon)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) redeemCoupon(c *gin.Context) {
	var req struct {
		RestaurantID string  `json:"restaurant_id" binding:"required"`
		Code         string  `json:"code" binding:"required"`
		Subtotal     float64 `json:"subtotal" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	discount, err := h.coupons.Redeem(c.Request.Context(), req.RestaurantID, req.Code, req.Subtotal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discount": discount})
}

func (h *Handler) updateCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		badRequest(c, err)
		return
	}
	coupon.ID = c.Param("id")
	updated, err := h.coupons.UpdateCoupon(c.Request.Context(), &coupon)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteCoupon(c *gin.Context) {
	if err := h.coupons.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Settings

func (h *Handler) getSettings(c *gin.Context) {
	restaurant, err := h.restaurants.GetRestaurant(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *Handler) updateSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		badRequest(c, err)
		return
	}
	restaurant, err := h.restaurants.UpdateSettings(c.Request.Context(), c.Param("restaurantId"), &settings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// Reports

func (h *Handler) salesReport(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
		return
	}
	report, err := h.reports.Sales(c.Request.Context(), rid, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
