package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/GoSim-25-26J-441/go-failure-analyzer/internal/api/http"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/api/http/middleware"
	fahttp "github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Redis       *redis.Client
	Reports     httpapi.ReportLister
	Analysis    *fahttp.Handler
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:   []string{middleware.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis, dep.Reports)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	dep.Analysis.Register(api)

	return r
}
