// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ponder-art-go/internal/config"
	"ponder-art-go/internal/handler"
	"ponder-art-go/internal/middleware"
	"ponder-art-go/internal/model"
	"ponder-art-go/internal/pipeline"
	"ponder-art-go/internal/repository"
	"ponder-art-go/internal/service"
	"ponder-art-go/pkg/database"
	"ponder-art-go/pkg/kafka"
	"ponder-art-go/pkg/log"
	"ponder-art-go/pkg/storage"
	"ponder-art-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 与对象存储
	database.InitMySQL(cfg.Database.MySQL.DSN, &model.User{}, &model.Image{})
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	kafka.InitProducer(cfg.Kafka)

	// 4. 初始化 Repository
	userRepository := repository.NewUserRepository(database.DB)
	imageRepository := repository.NewImageRepository(database.DB, userRepository, cfg.Search.OverfetchMultiplier)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	userService := service.NewUserService(userRepository, jwtManager)
	imageService := service.NewImageService(imageRepository, cfg.MinIO)
	scoringService := service.NewScoringService(cfg.Search.Weights)
	searchService := service.NewSearchService(imageRepository, scoringService, cfg.Search)

	// 6. 初始化自动打标管道并启动后台 Kafka 消费者
	processor := pipeline.NewProcessor(cfg.MinIO, imageRepository)
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/refreshToken", handler.NewAuthHandler(userService).RefreshToken)
		}

		users := apiV1.Group("/users")
		{
			// 无需认证的路由 (公开访问)
			users.POST("/register", handler.NewUserHandler(userService).Register)
			users.POST("/login", handler.NewUserHandler(userService).Login)

			// 需要认证的路由 (仅限登录用户访问)
			authed := users.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager, userService))
			{
				authed.GET("/me", handler.NewUserHandler(userService).GetProfile)
				authed.POST("/logout", handler.NewUserHandler(userService).Logout)
			}
		}

		// Image 路由组
		images := apiV1.Group("/images")
		{
			imageHandler := handler.NewImageHandler(imageService)

			// 单张查看允许匿名访问，可见性规则在 service 层裁决
			images.GET("/:id", middleware.OptionalAuthMiddleware(jwtManager, userService), imageHandler.Get)
			images.GET("/:id/download", middleware.OptionalAuthMiddleware(jwtManager, userService), imageHandler.Download)

			// 写操作需要认证
			authed := images.Group("")
			authed.Use(middleware.AuthMiddleware(jwtManager, userService))
			{
				authed.POST("", imageHandler.Create)
				authed.DELETE("/:id", imageHandler.Delete)
				authed.PUT("/:id/rating", imageHandler.Rate)
				authed.PUT("/:id/visibility", imageHandler.SetVisibility)
			}
		}

		// Search 路由组：同时面向登录用户和匿名访客
		search := apiV1.Group("/search")
		search.Use(middleware.OptionalAuthMiddleware(jwtManager, userService))
		{
			search.GET("/images", handler.NewSearchHandler(searchService).SearchImages)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	// Kafka 消费者是一个阻塞循环，会随进程退出自然结束；
	// 若需要更精细的控制，可以在 StartConsumer 中实现一个关闭通道。
	log.Info("服务已优雅关闭")
}
