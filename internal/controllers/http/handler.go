package http

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	orders  *services.OrderService
	catalog *services.CatalogService
	auth    *services.AuthService
}

func NewHandler(o *services.OrderService, c *services.CatalogService, a *services.AuthService) *Handler {
	return &Handler{orders: o, catalog: c, auth: a}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/categories", h.ListCategories)

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	guarded := r.Group("/", AuthGuard(h.auth))
	guarded.POST("/auth/logout", h.Logout)
	guarded.GET("/auth/me", h.Me)
	guarded.PUT("/auth/profile", h.UpdateProfile)
	guarded.PUT("/auth/password", h.ChangePassword)

	guarded.POST("/orders", h.CreateOrder)
	guarded.GET("/orders/mine", h.ListMyOrders)
	guarded.GET("/orders/:id", h.GetOrder)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), customer, req.cartLines())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateOrderResponse{OrderID: order.ID, Total: order.Total.InexactFloat64()})
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}
	details := truthy(c.Query("details")) || truthy(c.Query("detalles"))

	orders, err := h.orders.ListCustomerOrders(c.Request.Context(), customer.ID, details)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o, details))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetOrder(c *gin.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, domain.ErrOrderNotFound)
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), customer.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order, true))
}

func (h *Handler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{Query: c.Query("q")}
	if raw := c.Query("categoria_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		filter.CategoryID = &id
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, domain.ErrProductNotFound)
		return
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, CategoryResponse{ID: cat.ID, Name: cat.Name, Active: cat.Active})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	customer, token, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toUserResponse(customer)})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	customer, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(customer)})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toUserResponse(customer))
}

// UpdateProfile answers with the session token too so the page can refresh
// its stored credentials in one step.
func (h *Handler) UpdateProfile(c *gin.Context) {
	current, ok := currentCustomer(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	customer, err := h.auth.UpdateProfile(c.Request.Context(), current.ID, repository.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: c.GetString(tokenKey), User: toUserResponse(customer)})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), customer.ID, req.Current, req.Next); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

func truthy(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
