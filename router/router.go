package router

import (
	"io/fs"
	"net/http"

	"bookkeeping/api"
	"bookkeeping/config"
	"bookkeeping/web"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// 嵌入的静态文件 - 记账页面
	staticFS, _ := fs.Sub(web.StaticFS, "static")
	r.GET("/", func(c *gin.Context) {
		content, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "加载页面失败")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})
	r.StaticFS("/static", http.FS(staticFS))

	// 记账 API
	recordHandler := api.NewRecordHandler()
	statsHandler := api.NewStatsHandler()
	exportHandler := api.NewExportHandler()
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/records", recordHandler.List)
		apiGroup.POST("/record", recordHandler.Create)
		apiGroup.PUT("/record/:id", recordHandler.Update)
		apiGroup.DELETE("/record/:id", recordHandler.Delete)

		apiGroup.GET("/stats", statsHandler.GetStats)
		apiGroup.GET("/year-stats", statsHandler.GetYearStats)

		apiGroup.GET("/export/csv", exportHandler.ExportCSV)
		apiGroup.GET("/export/excel", exportHandler.ExportExcel)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
