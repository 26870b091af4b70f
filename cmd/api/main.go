package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imrishuroy/go-storefront/internal/auth"
	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/config"
	"github.com/imrishuroy/go-storefront/internal/fallback"
	"github.com/imrishuroy/go-storefront/internal/handlers"
	"github.com/imrishuroy/go-storefront/internal/loyalty"
	"github.com/imrishuroy/go-storefront/internal/metrics"
	"github.com/imrishuroy/go-storefront/internal/notify"
	"github.com/imrishuroy/go-storefront/internal/ordernum"
	"github.com/imrishuroy/go-storefront/internal/orders"
	"github.com/imrishuroy/go-storefront/internal/payments"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

// orderMetrics fans business metrics out to CloudWatch and Prometheus.
type orderMetrics struct {
	cloudwatch *aws.MetricsRecorder
}

func (m *orderMetrics) RecordOrderPlaced(ctx context.Context, storePath string, total float64) {
	m.cloudwatch.RecordOrderPlaced(ctx, storePath, total)
}

func (m *orderMetrics) RecordFallbackUsed(ctx context.Context) {
	m.cloudwatch.RecordFallbackUsed(ctx)
	metrics.RecordFallbackWrite()
}

func setupRouter(cfg *config.Config, clients *aws.AWSClients) *gin.Engine {
	v := validation.New()

	productsStore := catalog.NewStore(clients.DynamoDB, cfg.ProductsTable)
	ordersStore := orders.NewStore(clients.DynamoDB, cfg.OrdersTable)
	profilesStore := loyalty.NewStore(clients.DynamoDB, cfg.ProfilesTable)
	numbers := ordernum.NewGenerator(clients.DynamoDB, cfg.CountersTable, cfg.OrderNumberScheme, cfg.OrderNumberPrefix)
	primary := checkout.NewDynamoLedger(profilesStore, ordersStore, numbers)

	var fb *fallback.Store
	var fbLedger checkout.Ledger
	if cfg.FallbackURL != "" {
		var err error
		fb, err = fallback.Open(cfg.FallbackURL, cfg.OrderNumberPrefix)
		if err != nil {
			// run without the fallback rather than refusing to start
			log.Printf("fallback store unavailable, continuing without it: %v", err)
		} else {
			fbLedger = fb
		}
	}

	var notifier checkout.Notifier
	if cfg.EmailQueueURL != "" {
		notifier = notify.NewQueueNotifier(clients.SQS, cfg.EmailQueueURL)
	}

	coordinator := checkout.New(primary, fbLedger, notifier, &orderMetrics{
		cloudwatch: aws.NewMetricsRecorder(clients.CloudWatch, cfg.MetricsNamespace),
	})

	if err := productsStore.Seed(context.Background(), catalog.DefaultMenu); err != nil {
		log.Printf("menu seed skipped: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), metrics.GinMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/api")
	authed := r.Group("/api", auth.Middleware(cfg.JWTSecret))
	admin := r.Group("/api/admin", auth.Middleware(cfg.JWTSecret), auth.RequireStaff())

	handlers.RegisterProductRoutes(public, admin, handlers.ProductsConfig{
		Store:     productsStore,
		Validator: v,
	})
	handlers.RegisterOrderRoutes(authed, admin, handlers.OrdersConfig{
		Coordinator: coordinator,
		Orders:      ordersStore,
		Profiles:    profilesStore,
		Fallback:    fb,
		Validator:   v,
	})
	handlers.RegisterPaymentRoutes(authed, handlers.PaymentsConfig{
		Payments:  payments.New(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		Notifier:  notifier,
		Validator: v,
	})

	return r
}

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := config.Load()
	r := setupRouter(cfg, clients)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
