package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/gstbilling/internal/audit"
	auditdomain "github.com/smallbiznis/gstbilling/internal/audit/domain"
	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/customer"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/gstbilling/internal/dashboard/domain"
	"github.com/smallbiznis/gstbilling/internal/document"
	"github.com/smallbiznis/gstbilling/internal/invoice"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/observability"
	obsmiddleware "github.com/smallbiznis/gstbilling/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gstbilling/internal/observability/metrics"
	obstracing "github.com/smallbiznis/gstbilling/internal/observability/tracing"
	"github.com/smallbiznis/gstbilling/internal/product"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	"github.com/smallbiznis/gstbilling/internal/providers"
	"github.com/smallbiznis/gstbilling/internal/purchaseorder"
	purchaseorderdomain "github.com/smallbiznis/gstbilling/internal/purchaseorder/domain"
	"github.com/smallbiznis/gstbilling/internal/quotation"
	quotationdomain "github.com/smallbiznis/gstbilling/internal/quotation/domain"
	"github.com/smallbiznis/gstbilling/internal/sequence"
	"github.com/smallbiznis/gstbilling/internal/stock"
	"github.com/smallbiznis/gstbilling/internal/supplier"
	supplierdomain "github.com/smallbiznis/gstbilling/internal/supplier/domain"
	"github.com/smallbiznis/gstbilling/internal/tax"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	sequence.Module,
	tax.Module,
	stock.Module,
	customer.Module,
	product.Module,
	supplier.Module,
	document.Module,
	quotation.Module,
	invoice.Module,
	purchaseorder.Module,
	dashboard.Module,
	providers.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine           *gin.Engine
	cfg              config.Config
	log              *zap.Logger
	customerSvc      customerdomain.Service
	productSvc       productdomain.Service
	supplierSvc      supplierdomain.Service
	quotationSvc     quotationdomain.Service
	invoiceSvc       invoicedomain.Service
	purchaseOrderSvc purchaseorderdomain.Service
	dashboardSvc     dashboarddomain.Service
	auditSvc         auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Cfg              config.Config
	Log              *zap.Logger
	CustomerSvc      customerdomain.Service
	ProductSvc       productdomain.Service
	SupplierSvc      supplierdomain.Service
	QuotationSvc     quotationdomain.Service
	InvoiceSvc       invoicedomain.Service
	PurchaseOrderSvc purchaseorderdomain.Service
	DashboardSvc     dashboarddomain.Service
	AuditSvc         auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		log:              p.Log.Named("http.server"),
		customerSvc:      p.CustomerSvc,
		productSvc:       p.ProductSvc,
		supplierSvc:      p.SupplierSvc,
		quotationSvc:     p.QuotationSvc,
		invoiceSvc:       p.InvoiceSvc,
		purchaseOrderSvc: p.PurchaseOrderSvc,
		dashboardSvc:     p.DashboardSvc,
		auditSvc:         p.AuditSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PUT("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/low-stock", s.ListLowStockProducts)
	api.GET("/products/:id", s.GetProductByID)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	// -------- Suppliers --------
	api.GET("/suppliers", s.ListSuppliers)
	api.POST("/suppliers", s.CreateSupplier)
	api.GET("/suppliers/:id", s.GetSupplierByID)
	api.PUT("/suppliers/:id", s.UpdateSupplier)
	api.DELETE("/suppliers/:id", s.DeleteSupplier)

	// -------- Quotations --------
	api.GET("/quotations", s.ListQuotations)
	api.POST("/quotations", s.CreateQuotation)
	api.GET("/quotations/:id", s.GetQuotationByID)
	api.PATCH("/quotations/:id", s.RenameQuotation)
	api.DELETE("/quotations/:id", s.DeleteQuotation)
	api.GET("/quotations/:id/pdf", s.QuotationPDF)
	api.POST("/quotations/:id/convert", s.ConvertQuotation)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.POST("/invoices/from-quotation/:id", s.ConvertQuotation)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.RenameInvoice)
	api.PATCH("/invoices/:id/status", s.UpdateInvoiceStatus)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.GET("/invoices/:id/pdf", s.InvoicePDF)

	// -------- Purchase orders --------
	api.GET("/purchase-orders", s.ListPurchaseOrders)
	api.POST("/purchase-orders", s.CreatePurchaseOrder)
	api.GET("/purchase-orders/:id", s.GetPurchaseOrderByID)
	api.PATCH("/purchase-orders/:id", s.RenamePurchaseOrder)
	api.PATCH("/purchase-orders/:id/status", s.UpdatePurchaseOrderStatus)
	api.DELETE("/purchase-orders/:id", s.DeletePurchaseOrder)
	api.GET("/purchase-orders/:id/pdf", s.PurchaseOrderPDF)

	// -------- Dashboard --------
	api.GET("/stats", s.GetDashboardStats)
	api.GET("/stats/dashboard", s.GetDashboardStats)

	// -------- Audit --------
	api.GET("/audit/:type/:id", s.ListAuditEvents)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, errs.NotFound("route", c.Request.URL.Path))
	})
}
