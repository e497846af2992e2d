package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/kerbside-backend-go/internal/handler"
	"github.com/jengzang/kerbside-backend-go/internal/metrics"
	"github.com/jengzang/kerbside-backend-go/internal/middleware"
	"github.com/jengzang/kerbside-backend-go/internal/service"
)

// Services 路由依赖的业务服务
type Services struct {
	Query *service.QueryService
	Bays  *service.BayService
}

// SetupRouter 设置路由
func SetupRouter(svc Services, limiter *middleware.RateLimiter, l *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(l))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	bays := handler.NewBayHandler(svc.Bays)
	query := handler.NewQueryHandler(svc.Query)
	grids := handler.NewGridHandler(svc.Query)

	// 健康检查
	r.GET("/health", bays.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API 路由组
	v1 := r.Group("/api/v1")
	{
		v1.GET("/snapshot", bays.GetSnapshot)
		v1.GET("/bays", bays.ListBays)

		// 目的地查询会调用外部地理编码服务，按 IP 限流
		v1.GET("/destination", middleware.RateLimit(limiter), query.GetDestination)
		v1.GET("/nearest", query.GetNearest)

		v1.GET("/grid", grids.GetGrid)
		v1.GET("/grid.geojson", grids.GetGridGeoJSON)
	}

	return r
}
