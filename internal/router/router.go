package router

import (
	"github.com/Attenomics-Labs/attenomics-agent/internal/chain"
	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/Attenomics-Labs/attenomics-agent/internal/distribution"
	"github.com/Attenomics-Labs/attenomics-agent/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, sink chain.Distributor, builder *distribution.Builder, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "attenomics-agent",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 创作者相关路由
		creatorHandler := handler.NewCreatorHandler(db)
		creators := v1.Group("/creators")
		{
			creators.POST("/seed", creatorHandler.SeedCreators)
			creators.GET("", creatorHandler.GetCreators)
			creators.GET("/:name", creatorHandler.GetCreator)
			creators.PUT("/:name", creatorHandler.UpdateCreator)
		}

		// 用户相关路由
		userHandler := handler.NewUserHandler(db)
		users := v1.Group("/users")
		{
			users.POST("", userHandler.RegisterUser)
			users.GET("", userHandler.GetUsers)
		}

		// 窗口记录相关路由
		supportHandler := handler.NewSupportHandler(db, cfg)
		records := v1.Group("/records")
		{
			records.POST("", supportHandler.RecordScores)
			records.GET("/:name", supportHandler.GetRecords)
		}

		// 分发相关路由
		distributionHandler := handler.NewDistributionHandler(db, builder, sink, cfg)
		distributions := v1.Group("/distributions")
		{
			distributions.POST("/daily", distributionHandler.CreateDaily)
			distributions.POST("/weekly", distributionHandler.CreateWeekly)
			distributions.POST("/creators/:name", distributionHandler.CreateForCreator)
			distributions.GET("/creators/:name", distributionHandler.GetEntries)
			distributions.GET("/creators/:name/entry", distributionHandler.GetEntry)
			distributions.GET("/pending", distributionHandler.ListPending)
			distributions.POST("/broadcast", distributionHandler.Broadcast)
			distributions.POST("/direct", distributionHandler.CreateDirect)
			distributions.POST("/direct/broadcast", distributionHandler.BroadcastDirect)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
