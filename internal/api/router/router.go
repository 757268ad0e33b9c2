package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jceballos29/control-asistencia/config"
	"github.com/jceballos29/control-asistencia/internal/api/handler"
	"github.com/jceballos29/control-asistencia/internal/api/middleware"
	"github.com/jceballos29/control-asistencia/pkg/redis"
)

// Pinger 健康检查依赖（数据库、Redis）
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时限流降级放行，健康检查不包含 Redis
func Setup(cfg *config.Config, h *handler.Handler, db Pinger, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", healthHandler(db, rdb))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		var limiter middleware.RateLimiter
		if rdb != nil {
			limiter = rdb
		}
		v1.Use(middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger))
	}
	{
		// 办公室模块
		offices := v1.Group("/offices")
		{
			offices.POST("", h.Office.CreateOffice)
			offices.GET("", h.Office.ListOffices)
			offices.GET("/:id", h.Office.GetOffice)
			offices.PUT("/:id", h.Office.UpdateOffice)
			offices.PATCH("/:id", h.Office.UpdateOffice)
			offices.DELETE("/:id", h.Office.DeleteOffice)
			offices.GET("/:id/calendar", h.Office.GetCalendar)

			// 导出模块
			offices.GET("/:id/export.xlsx", h.Export.ExportExcel)
			offices.GET("/:id/export.ics", h.Export.ExportICS)
		}

		// 时间段模块（归属于办公室）
		timeSlots := offices.Group("/:id/time-slots")
		{
			timeSlots.POST("", h.TimeSlot.CreateTimeSlot)
			timeSlots.GET("", h.TimeSlot.ListTimeSlots)
			timeSlots.DELETE("", h.TimeSlot.DeleteAllTimeSlots)
			timeSlots.GET("/:slotId", h.TimeSlot.GetTimeSlot)
			timeSlots.PUT("/:slotId", h.TimeSlot.UpdateTimeSlot)
			timeSlots.PATCH("/:slotId", h.TimeSlot.UpdateTimeSlot)
			timeSlots.DELETE("/:slotId", h.TimeSlot.DeleteTimeSlot)
		}

		// 岗位模块（归属于办公室）
		jobPositions := offices.Group("/:id/job-positions")
		{
			jobPositions.POST("", h.JobPosition.CreateJobPosition)
			jobPositions.GET("", h.JobPosition.ListJobPositions)
			jobPositions.GET("/:jobPositionId", h.JobPosition.GetJobPosition)
			jobPositions.PUT("/:jobPositionId", h.JobPosition.UpdateJobPosition)
			jobPositions.PATCH("/:jobPositionId", h.JobPosition.UpdateJobPosition)
			jobPositions.DELETE("/:jobPositionId", h.JobPosition.DeleteJobPosition)
		}
	}

	return r
}

// healthHandler 数据库不可用返回 503；Redis 仅用于限流，不可用时标记 degraded
func healthHandler(db Pinger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok"}
		if err := db.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = err.Error()
		}
		if rdb != nil {
			checks["redis"] = "ok"
			if err := rdb.Ping(ctx); err != nil {
				checks["redis"] = "degraded: " + err.Error()
			}
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "unavailable"
		}
		c.JSON(status, gin.H{"status": overall, "checks": checks})
	}
}
