package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/yishak-cs/coffees/internal/models"
	"github.com/yishak-cs/coffees/internal/services"
)

// HealthChecker reports the health of a backing store
type HealthChecker func(ctx context.Context) error

// APIHandler handles all API requests
type APIHandler struct {
	coffeeService         *services.CoffeeService
	recommendationService *services.RecommendationService
	similarityService     *services.SimilarityService
	healthChecks          map[string]HealthChecker
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(
	coffeeService *services.CoffeeService,
	recommendationService *services.RecommendationService,
	similarityService *services.SimilarityService,
	healthChecks map[string]HealthChecker,
) *APIHandler {
	return &APIHandler{
		coffeeService:         coffeeService,
		recommendationService: recommendationService,
		similarityService:     similarityService,
		healthChecks:          healthChecks,
	}
}

// RegisterValidators adds the custom tags used by the request models
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("notblank", validators.NotBlank)
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/coffees", h.ListCoffees)
		api.GET("/coffees/:id", h.GetCoffee)
		api.POST("/coffees", h.CreateCoffee)
		api.PATCH("/coffees/:id", h.UpdateCoffee)
		api.DELETE("/coffees/:id", h.RemoveCoffee)
		api.POST("/coffees/:id/recommend", h.RecommendCoffee)
		api.GET("/coffees/:id/similar", h.GetSimilarCoffees)
	}
}

// ListCoffees handles requests for a page of coffees
func (h *APIHandler) ListCoffees(c *gin.Context) {
	var query models.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coffees, err := h.coffeeService.List(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "listing coffees", err)
		return
	}

	c.JSON(http.StatusOK, coffees)
}

// GetCoffee handles requests for a single coffee
func (h *APIHandler) GetCoffee(c *gin.Context) {
	id, ok := coffeeID(c)
	if !ok {
		return
	}

	coffee, err := h.coffeeService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "getting coffee", err)
		return
	}

	c.JSON(http.StatusOK, coffee)
}

// CreateCoffee handles requests to add a coffee
func (h *APIHandler) CreateCoffee(c *gin.Context) {
	var input models.CreateCoffeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coffee, err := h.coffeeService.Create(c.Request.Context(), input)
	if err != nil {
		h.fail(c, "creating coffee", err)
		return
	}

	c.JSON(http.StatusCreated, coffee)
}

// UpdateCoffee handles partial updates of a coffee
func (h *APIHandler) UpdateCoffee(c *gin.Context) {
	id, ok := coffeeID(c)
	if !ok {
		return
	}

	var input models.UpdateCoffeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coffee, err := h.coffeeService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.fail(c, "updating coffee", err)
		return
	}

	c.JSON(http.StatusOK, coffee)
}

// RemoveCoffee handles requests to delete a coffee
func (h *APIHandler) RemoveCoffee(c *gin.Context) {
	id, ok := coffeeID(c)
	if !ok {
		return
	}

	coffee, err := h.coffeeService.Remove(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "removing coffee", err)
		return
	}

	c.JSON(http.StatusOK, coffee)
}

// RecommendCoffee handles requests to recommend a coffee
func (h *APIHandler) RecommendCoffee(c *gin.Context) {
	id, ok := coffeeID(c)
	if !ok {
		return
	}

	coffee, err := h.coffeeService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "getting coffee", err)
		return
	}

	if err := h.recommendationService.Recommend(c.Request.Context(), coffee); err != nil {
		h.fail(c, "recommending coffee", err)
		return
	}

	c.JSON(http.StatusOK, coffee)
}

// GetSimilarCoffees handles requests for coffees sharing flavors with a coffee
func (h *APIHandler) GetSimilarCoffees(c *gin.Context) {
	id, ok := coffeeID(c)
	if !ok {
		return
	}

	limit := services.DefaultSimilarLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		if parsedLimit, err := strconv.Atoi(limitParam); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	recommendations, err := h.similarityService.GetSimilarCoffees(c.Request.Context(), id, limit)
	if err != nil {
		h.fail(c, "getting similar coffees", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coffee_id":       id,
		"recommendations": recommendations,
		"strategy":        "SharedFlavors",
		"description":     "Coffees sharing the most flavors with this one",
	})
}

// Health reports the status of every backing store
func (h *APIHandler) Health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}
	for name, check := range h.healthChecks {
		if err := check(c.Request.Context()); err != nil {
			log.Printf("Health check %s failed: %v", name, err)
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(status, gin.H{"checks": checks})
}

func coffeeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coffee ID"})
		return 0, false
	}
	return uint(id), true
}

func (h *APIHandler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGraphUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Printf("Error %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed " + action})
	}
}
