package bootstrap

import (
	"time"

	httpapi "github.com/GoSim-25-26J-441/todo-service/internal/api/http"
	"github.com/GoSim-25-26J-441/todo-service/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/todo-service/internal/api/http/routes"
	"github.com/GoSim-25-26J-441/todo-service/internal/metrics"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	RequestTimeout time.Duration
	AllowedOrigins []string
	DB             *sqlx.DB
	Events         service.Publisher
	Metrics        *metrics.Collector
	Log            *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))
	r.Use(middleware.Metrics(dep.Metrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	var db httpapi.Pinger
	if dep.DB != nil {
		db = dep.DB
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, db)
	healthHandler.RegisterRoutes(r)

	if dep.Metrics != nil {
		r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))
	}

	api := r.Group("/")
	api.Use(middleware.Timeout(dep.RequestTimeout))
	routes.RegisterAPI(api, routes.APIDeps{
		DB:      dep.DB,
		Events:  dep.Events,
		Metrics: dep.Metrics,
		Log:     dep.Log,
	})

	return r
}
