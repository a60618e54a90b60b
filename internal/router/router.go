// Package router wires handlers and middleware onto echo.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/iliyamo/movie-review-backend/internal/config"
	"github.com/iliyamo/movie-review-backend/internal/handler"
	"github.com/iliyamo/movie-review-backend/internal/middleware"
	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/service"
)

// Deps is everything the routes need.  Redis may be nil, in which case rate
// limiting and response caching pass through.
type Deps struct {
	Config    config.Config
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Store     repository.Store
	Catalog   handler.Catalog
	Mail      service.Notifier
	Redis     *redis.Client
}

// RegisterRoutes registers operational endpoints that are not enveloped:
// health, metrics and the API docs.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/docs/*", echo.WrapHandler(httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	)))
}

// Register mounts every API route.  The general token bucket covers the
// whole API and keys signed-in callers by the email of their bearer token;
// credential endpoints get a second, smaller bucket.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e)

	session := middleware.Session(d.Config.JWTSecret, d.Store.Tokens)
	general := middleware.NewTokenBucket("api", d.RateLimit, d.Redis)
	strict := middleware.NewTokenBucket("auth",
		d.RateLimit.WithCapacity(d.RateLimit.AuthCapacity, d.RateLimit.Prefix+":auth"), d.Redis)

	api := e.Group("", middleware.Identify(d.Config.JWTSecret), general)

	auth := handler.NewAuthHandler(d.Config, d.Store.Users, d.Store.Tokens, d.Mail)
	ag := api.Group("/auth")
	ag.POST("/register", auth.Register, strict)
	ag.POST("/login", auth.Login, strict)
	ag.POST("/reset-password", auth.ResetPassword, strict)
	ag.POST("/logout", auth.Logout, session)
	ag.GET("/me", auth.Me, session)

	reviews := handler.NewReviewHandler(d.Store.Reviews, d.Store.Users)
	api.POST("/reviews", reviews.Create)
	api.GET("/reviews/:movieId", reviews.ListByMovie)
	api.PUT("/reviews/:id", reviews.Update)
	api.DELETE("/reviews/:id", reviews.Delete)

	comments := handler.NewCommentHandler(d.Store.Comments, d.Store.Reviews, d.Store.Users)
	api.POST("/comments", comments.Create)
	api.GET("/comments/:reviewId", comments.ListByReview)

	movies := handler.NewMovieHandler(d.Catalog, d.Store.Movies)
	mg := api.Group("/movies", middleware.NewRedisCache(d.Cache, d.Redis))
	mg.GET("", movies.List)
	mg.GET("/search", movies.Search)
	mg.GET("/:id", movies.Details)
	mg.GET("/:id/trailer", movies.Trailer)

	comms := handler.NewCommsHandler(d.Store.Messages, d.Store.Subscribers, d.Mail, d.Config.AdminEmail)
	cg := api.Group("/comms")
	cg.POST("/contact", comms.Contact, strict)
	cg.POST("/subscribe", comms.Subscribe)
	cg.POST("/unsubscribe", comms.Unsubscribe)

	admin := handler.NewAdminHandler(d.Store.Messages, d.Store.Subscribers)
	adm := api.Group("/admin", session, middleware.RequireRole(model.RoleAdmin))
	adm.GET("/messages", admin.ListMessages)
	adm.GET("/subscribers", admin.ListSubscribers)
}
