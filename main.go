/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/structs"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/nethesis/memorial-api/audit"
	"github.com/nethesis/memorial-api/configuration"
	"github.com/nethesis/memorial-api/logs"
	"github.com/nethesis/memorial-api/methods"
	"github.com/nethesis/memorial-api/middleware"
	"github.com/nethesis/memorial-api/response"
	"github.com/nethesis/memorial-api/store"
)

func main() {
	// init logger
	logs.Init("memorial-api")

	// init configuration
	configuration.Init()

	// init document store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongo, err := store.NewMongo(ctx, configuration.Config.MongoURI, configuration.Config.MongoDatabase)
	if err != nil {
		os.Exit(1)
	}

	// init audit sink
	audit.Init(mongo.Audits)

	// create rate limiters. registration and login get stricter buckets than
	// the service-wide default
	apiLimiter := middleware.NewRateLimiter(configuration.Config.RateLimitPerMinute)
	registerLimiter := middleware.NewRateLimiter(configuration.Config.RegisterLimitPerMinute)
	loginLimiter := middleware.NewRateLimiter(configuration.Config.RegisterLimitPerMinute)

	// create router
	router := createRouter(mongo.Volunteers, mongo.News, apiLimiter, registerLimiter, loginLimiter)

	// create cron to prune idle rate limiter buckets
	c := cron.New()
	c.AddFunc("@hourly", func() {
		apiLimiter.PruneStale(time.Hour)
		registerLimiter.PruneStale(time.Hour)
		loginLimiter.PruneStale(time.Hour)
	})
	c.Start()

	// run server
	router.Run(configuration.Config.ListenAddress)
}

func createRouter(volunteers store.VolunteerStore, news store.NewsStore, apiLimiter *middleware.RateLimiter, registerLimiter *middleware.RateLimiter, loginLimiter *middleware.RateLimiter) *gin.Engine {
	// disable log to stdout when running in release mode
	if gin.Mode() == gin.ReleaseMode {
		gin.DefaultWriter = io.Discard
	}

	// init routers
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(
		gin.LoggerWithWriter(gin.DefaultWriter),
		gin.Recovery(),
	)

	// add default compression
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// tag requests for log correlation
	router.Use(middleware.RequestID())

	// gin gonic cors conf. the site itself is a static page served from
	// another origin, so the api always answers cross-origin requests
	corsConf := cors.DefaultConfig()
	corsConf.AllowHeaders = []string{"Authorization", "Content-Type", "Accept"}
	corsConf.AllowAllOrigins = true
	router.Use(cors.New(corsConf))

	// cap request bodies
	router.Use(middleware.BodySizeLimit(configuration.Config.MaxRequestBytes))

	// liveness probe (not rate limited)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "healthy",
			"status":  "ok",
		})
	})

	// define api group
	api := router.Group("/api")
	api.Use(apiLimiter.Middleware())

	// public endpoints
	api.POST("/register-volunteer", registerLimiter.Middleware(), methods.RegisterVolunteer(volunteers))
	api.POST("/admin/login", loginLimiter.Middleware(), middleware.InstanceJWT().LoginHandler)
	api.GET("/news", methods.ListNews(news))

	// protected endpoints
	api.Use(middleware.InstanceJWT().MiddlewareFunc())
	{
		api.GET("/volunteers", methods.ListVolunteers(volunteers))
		api.GET("/volunteers/export", methods.ExportVolunteersCSV(volunteers))
		api.DELETE("/volunteers/:id", methods.DeleteVolunteer(volunteers))
		api.GET("/admin/stats", methods.GetStats(volunteers))
		api.POST("/news", methods.AddNews(news))
		api.DELETE("/news/:id", methods.DeleteNews(news))
	}

	// handle missing endpoint
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, structs.Map(response.StatusNotFound{
			Success: false,
			Message: "endpoint not found",
			Data:    nil,
		}))
	})

	return router
}
