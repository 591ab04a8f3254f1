// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fourcdiamonds/jewelcore/app/dto"
	"github.com/fourcdiamonds/jewelcore/app/handlers"
	"github.com/fourcdiamonds/jewelcore/app/middleware"
	"github.com/fourcdiamonds/jewelcore/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app             *fiber.App
	pricingHandler  handlers.PricingHandlerInterface
	productHandler  handlers.ProductHandlerInterface
	customerHandler handlers.CustomerHandlerInterface
	saleHandler     handlers.SaleHandlerInterface
	reportHandler   handlers.ReportHandlerInterface
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	pricingHandler handlers.PricingHandlerInterface,
	productHandler handlers.ProductHandlerInterface,
	customerHandler handlers.CustomerHandlerInterface,
	saleHandler handlers.SaleHandlerInterface,
	reportHandler handlers.ReportHandlerInterface,
) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "JewelCore API",
		ServerHeader: "JewelCore",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:             app,
		pricingHandler:  pricingHandler,
		productHandler:  productHandler,
		customerHandler: customerHandler,
		saleHandler:     saleHandler,
		reportHandler:   reportHandler,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Prometheus scrape endpoint (outside the versioned API, no rate limiting)
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// API documentation route (development only)
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "local" {
		api.Get("/docs", r.getAPIDocumentation)
		log.Println("API documentation enabled for development")
	}

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        2000,            // Maximum 2000 requests (matches nginx api zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	// Product catalog endpoints
	products := api.Group("/products")
	products.Post("/", r.productHandler.CreateProduct)
	products.Get("/", r.productHandler.ListProducts)
	products.Get("/barcode/:barcode", r.productHandler.GetProductByBarcode)
	products.Get("/:uuid", r.productHandler.GetProduct)
	products.Put("/:uuid", r.productHandler.UpdateProduct)
	products.Delete("/:uuid", r.productHandler.DeleteProduct)

	// Customer endpoints
	customers := api.Group("/customers")
	customers.Post("/", r.customerHandler.CreateCustomer)
	customers.Get("/", r.customerHandler.ListCustomers)
	customers.Get("/:uuid", r.customerHandler.GetCustomer)
	customers.Put("/:uuid", r.customerHandler.UpdateCustomer)

	// Pricing endpoints
	pricing := api.Group("/pricing")
	pricing.Get("/rates", r.pricingHandler.GetRates)
	pricing.Put("/rates", r.pricingHandler.UpdateRates)
	pricing.Post("/compute", r.pricingHandler.ComputePrice)

	// Bulk recalculation can touch the whole catalog, keep it on a tighter budget
	recalc := pricing.Group("/recalculate")
	recalc.Use(limiter.New(limiter.Config{
		Max:        5,               // Maximum 5 requests
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))
	recalc.Post("/", r.pricingHandler.RecalculateAll)

	// Cart endpoints (session selected via X-Session-ID header)
	cart := api.Group("/cart")
	cart.Get("/", r.saleHandler.GetCart)
	cart.Delete("/", r.saleHandler.ClearCart)
	cart.Post("/lines", r.saleHandler.AddCartLine)
	cart.Put("/lines", r.saleHandler.SetCartQuantity)

	// Sale endpoints
	sales := api.Group("/sales")
	sales.Post("/", r.saleHandler.CommitSale)
	sales.Get("/", r.saleHandler.ListSales)
	sales.Get("/:uuid", r.saleHandler.GetSale)
	sales.Get("/:uuid/invoice", r.saleHandler.GetInvoice)
	sales.Post("/:uuid/invoice", r.saleHandler.RebuildInvoice)

	// Reporting endpoints
	reports := api.Group("/reports")
	reports.Get("/sales/summary", r.reportHandler.SalesSummary)
	reports.Get("/sales/export", r.reportHandler.ExportSales)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' https:; connect-src 'self' https:; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://fourcdiamonds.com",
			"https://api.fourcdiamonds.com",
			"https://counter.fourcdiamonds.com",
			"https://admin.fourcdiamonds.com",
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"X-Session-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for binary spreadsheet downloads
			contentType := c.Get("Content-Type")
			return contains(contentType, "image/") ||
				contains(contentType, "application/vnd.openxmlformats")
		},
	}))

	// Advanced logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks and metrics scrapes in production
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	// Prometheus HTTP metrics
	r.app.Use(middleware.Metrics())

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	// Add security headers
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "JewelCore")

	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "jewelcore-api",
		},
	})
}

// API documentation endpoint
func (r *FiberRouter) getAPIDocumentation(c fiber.Ctx) error {
	docs := GetRouteDocumentation()
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "API documentation retrieved successfully",
		Data: fiber.Map{
			"title":       "JewelCore API Documentation",
			"version":     "1.0.0",
			"description": "Jewelry catalog pricing and sale settlement API",
			"endpoints":   docs,
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring (case-insensitive)
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// GetRouteDocumentation returns the list of API endpoints
func GetRouteDocumentation() []map[string]any {
	return []map[string]any{
		{
			"method":      "GET",
			"path":        "/api/v1/pricing/rates",
			"description": "Current rate tables with last-updated timestamps",
			"parameters":  map[string]any{},
		},
		{
			"method":      "PUT",
			"path":        "/api/v1/pricing/rates",
			"description": "Update one rate table (metal, stone, stone_quality or stone_color)",
			"parameters": map[string]any{
				"kind":  "string (required) - Rate table to update",
				"rates": "object (required) - Key to decimal rate mapping",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/pricing/compute",
			"description": "Compute the price breakdown of a product against current rates",
			"parameters": map[string]any{
				"product_uuid": "string (required) - Product UUID",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/pricing/recalculate",
			"description": "Recalculate stored prices of the whole catalog against current rates",
			"parameters":  map[string]any{},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/sales",
			"description": "Settle the session cart as a sale and generate its invoice",
			"parameters": map[string]any{
				"customer_uuid":  "string (required) - Buying customer UUID",
				"payment_method": "string (required) - cash, card, upi or bank_transfer",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/reports/sales/export",
			"description": "Download sales in a date range as an xlsx workbook",
			"parameters": map[string]any{
				"start_date": "string (required) - YYYY-MM-DD",
				"end_date":   "string (required) - YYYY-MM-DD",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/health",
			"description": "Health check endpoint",
			"parameters":  map[string]any{},
		},
	}
}
