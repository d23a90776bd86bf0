package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/middleware"
)

// Handlers groups the API handlers mounted under the API prefix.
type Handlers struct {
	Students  *StudentHandler
	Teachers  *TeacherHandler
	Ledger    *LedgerHandler
	Materials *MaterialHandler
}

// RegisterRoutes mounts the console endpoints on api. Mutating routes are
// audited through logger.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, logger *zap.Logger) {
	api.Use(middleware.WithResponseMeta())

	students := api.Group("/students")
	students.POST("", middleware.Audit(logger, "register_student", "students"), h.Students.Register)
	students.GET("", h.Students.Search)
	students.GET("/export", h.Students.Export)
	students.GET("/:id/ledger", h.Ledger.Balance)
	students.POST("/:id/payments", middleware.Audit(logger, "collect_payment", "students"), h.Ledger.Pay)

	teachers := api.Group("/teachers")
	teachers.POST("", middleware.Audit(logger, "register_teacher", "teachers"), h.Teachers.Register)
	teachers.GET("", h.Teachers.List)
	teachers.GET("/export", h.Teachers.Export)

	materials := api.Group("/materials")
	materials.POST("", middleware.Audit(logger, "publish_material", "materials"), h.Materials.Publish)
	materials.GET("", h.Materials.List)
}

// RegisterOps mounts the health, readiness and metrics endpoints at the root.
func RegisterOps(r gin.IRoutes, h *MetricsHandler) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
}
