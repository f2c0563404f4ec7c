package main

import (
	"context"
	"fmt"
	"net/http"

	"booking-service/cache"
	"booking-service/clients"
	"booking-service/config"
	"booking-service/handlers"
	"booking-service/repository"
	"booking-service/routes"
	"booking-service/services"
	"booking-service/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	server      *gin.Engine
	ctx         context.Context
	mongoclient *mongo.Client
	cfg         *config.Config
	logger      *logrus.Logger

	eventRepo *repository.EventRepo

	bookingService      services.BookingService
	availabilityService services.AvailabilityService
	BookingHandler      handlers.BookingHandler
	BookingRouteHandler routes.BookingRouteHandler
)

func init() {
	ctx = context.TODO()
	cfg = config.LoadConfig()

	//logging
	logger = logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	lumberjackLog := &lumberjack.Logger{
		Filename:  "/booking-service/logs/logfile.log",
		MaxSize:   1,
		LocalTime: true,
	}
	logger.SetOutput(lumberjackLog)
	logger.WithFields(logrus.Fields{"path": "booking/main"}).Info("Booking service starting")
	//logging

	mongoconn := options.Client().ApplyURI(cfg.MongoURI)
	var err error
	mongoclient, err = mongo.Connect(ctx, mongoconn)
	if err != nil {
		panic(err)
	}

	if err := mongoclient.Ping(ctx, readpref.Primary()); err != nil {
		panic(err)
	}

	fmt.Println("MongoDB successfully connected...")

	tracerProvider, err := NewTracerProvider(cfg.ServiceName, cfg.JaegerAddress)
	if err != nil {
		logger.Fatal("JaegerTraceProvider failed to Initialize", err)
	}
	tracer := tracerProvider.Tracer(cfg.ServiceName)

	// Collections
	roomCollection := mongoclient.Database("BookingPlatform").Collection("rooms")
	bookingCollection := mongoclient.Database("BookingPlatform").Collection("bookings")

	roomCache := cache.New(fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort), logger, tracer)
	roomCache.Ping()

	// NoSQL: booking event store towards CassandraDB
	eventRepo, err = repository.NewEventRepo(cfg.CassDB, logger, tracer)
	if err != nil {
		logger.Fatal(err)
	}
	eventRepo.CreateTable()

	roomRepo := repository.NewRoomRepo(roomCollection, roomCache, logger, tracer)
	bookingRepo := repository.NewBookingRepo(bookingCollection, logger, tracer)

	authClient := clients.NewAuthClient(cfg.AuthServiceURL, tracer)
	paymentClient := clients.NewPaymentGatewayClient(cfg.PaymentServiceURL, logger, tracer)
	notifier := utils.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom, logger)

	availabilityService = services.NewAvailabilityServiceImpl(roomRepo, bookingRepo, tracer)
	bookingService = services.NewBookingServiceImpl(roomRepo, bookingRepo, eventRepo, paymentClient, notifier,
		availabilityService, cfg.TaxRate, cfg.ServiceFeeRate, logger, tracer)

	BookingHandler = handlers.NewBookingHandler(bookingService, availabilityService, authClient, logger, tracer)
	BookingRouteHandler = routes.NewBookingRouteHandler(BookingHandler, bookingService)

	server = gin.Default()
}

func main() {
	defer mongoclient.Disconnect(ctx)
	defer eventRepo.CloseSession()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"https://localhost:4200"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")

	server.Use(cors.New(corsConfig))

	router := server.Group("/api")
	router.GET("/healthchecker", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "Booking service up and running"})
	})

	BookingRouteHandler.BookingRoute(router)

	err := server.RunTLS(":"+cfg.Port, "/app/booking-service.crt", "/app/booking-service.key")
	if err != nil {
		fmt.Println(err)
		return
	}
}

func NewTracerProvider(serviceName, collectorEndpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(collectorEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("unable to initialize exporter due: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.DeploymentEnvironmentKey.String("development"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
