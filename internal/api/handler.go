package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pricing-service/internal/pricing"
	"pricing-service/internal/service"
	"pricing-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	quoteService   *service.QuoteService
	importService  *service.ImportService
	repriceService *service.RepriceService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	quoteService *service.QuoteService,
	importService *service.ImportService,
	repriceService *service.RepriceService,
) *Handler {
	return &Handler{
		quoteService:   quoteService,
		importService:  importService,
		repriceService: repriceService,
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
		v1.POST("/quotes/selling", h.quoteSelling)
		v1.POST("/quotes/purchase", h.quotePurchase)
		v1.POST("/quotes/supplier", h.quoteSupplier)
		v1.POST("/quotes/breakdown", h.quoteBreakdown)
		v1.POST("/ankauf", h.createIntake)
		v1.POST("/import", h.importProducts)
		v1.POST("/admin/reprice", h.bulkReprice)
		v1.GET("/products/:id", h.getProduct)
	}
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

// quoteSelling handles selling price quotes for all tiers
func (h *Handler) quoteSelling(c *gin.Context) {
	var req service.SellingQuoteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.quoteService.QuoteSelling(c.Request.Context(), &req)
	if err != nil {
		respondQuoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// quotePurchase handles purchase price quotes
func (h *Handler) quotePurchase(c *gin.Context) {
	var req service.PurchaseQuoteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.quoteService.QuotePurchase(c.Request.Context(), &req)
	if err != nil {
		respondQuoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// quoteSupplier handles supplier restock quotes
func (h *Handler) quoteSupplier(c *gin.Context) {
	var req service.SupplierQuoteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.quoteService.QuoteSupplier(c.Request.Context(), &req)
	if err != nil {
		respondQuoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// quoteBreakdown handles adjustment breakdown requests
func (h *Handler) quoteBreakdown(c *gin.Context) {
	var req service.BreakdownRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.quoteService.QuoteBreakdown(c.Request.Context(), &req)
	if err != nil {
		respondQuoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// createIntake handles seller intake submissions
func (h *Handler) createIntake(c *gin.Context) {
	var req service.IntakeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.quoteService.CreateIntake(c.Request.Context(), &req)
	if err != nil {
		respondQuoteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// importProducts handles bulk product imports
func (h *Handler) importProducts(c *gin.Context) {
	var req service.ImportRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.JobID == "" {
		req.JobID = c.GetHeader("Idempotency-Key")
	}

	resp, err := h.importService.ImportProducts(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to import products",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// bulkReprice handles admin bulk price actions
func (h *Handler) bulkReprice(c *gin.Context) {
	var req service.BulkRepriceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.repriceService.RequestBulkReprice(c.Request.Context(), &req)
	if err != nil {
		respondQuoteError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	idStr := c.Param("id")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	product, history, err := h.quoteService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":       product,
		"price_history": history,
	})
}

// respondQuoteError maps validation failures to 400 and everything else to 500
func respondQuoteError(c *gin.Context, err error) {
	if errors.Is(err, pricing.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid pricing input",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to compute price",
		"details": err.Error(),
	})
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
