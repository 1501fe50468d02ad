package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mdx-cms/pkg/config"
	"mdx-cms/pkg/handlers"
	"mdx-cms/pkg/services"
)

var socialPostsCounter prometheus.Counter

func init() {
	socialPostsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "social_posts_published_total",
			Help: "Total number of successful social cross-posts.",
		},
	)
	prometheus.MustRegister(socialPostsCounter)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	var logging *zap.Logger
	if cfg.IsDevelopment() {
		logging, err = zap.NewDevelopment()
	} else {
		logging, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	// Setup Services
	resolver := services.NewResolver(cfg, logging)
	mutator := services.NewMutator(cfg, logging)

	var publishers []services.Publisher
	for _, name := range strings.Split(cfg.SocialPlatforms, ",") {
		name = strings.TrimSpace(name)
		known := false
		for _, platform := range services.KnownPlatforms {
			if name == platform {
				known = true
				break
			}
		}
		if !known {
			logging.Warn("Unknown platform in config", zap.String("platform", name))
			continue
		}
		publishers = append(publishers, services.NewLogPublisher(name, logging))
	}
	dispatcher := services.NewSocialDispatcher(resolver, publishers, cfg.BaseURL, cfg.LogDir, logging)

	// Setup Handlers
	api := &handlers.API{Resolver: resolver, Log: logging}
	admin := &handlers.Admin{Mutator: mutator, Config: cfg, Log: logging}
	media := &handlers.Media{Config: cfg, Log: logging}
	cronHandler := &handlers.Cron{Dispatcher: dispatcher, Secret: cfg.CronSecret, Log: logging}

	r := gin.Default()

	// Session Setup
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("mdxcms", store))

	r.Static(cfg.MediaPublicPrefix, cfg.MediaDir)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Public Content API ---
	public := r.Group("/api")
	{
		public.GET("/articles", api.ListArticles)
		public.GET("/articles/:slug", api.GetArticle)
		public.GET("/series", api.ListSeries)
		public.GET("/series/:slug", api.GetSeries)
		public.GET("/series/:slug/:articleSlug", api.GetSeriesArticle)
		public.GET("/tags", api.ListTags)
		public.GET("/categories", api.ListCategories)
	}

	// --- Preview Mode ---
	preview := &handlers.Preview{Secret: cfg.PreviewSecret}
	r.GET("/preview/enable", preview.Enable)
	r.GET("/preview/disable", preview.Disable)

	// --- Cron Trigger ---
	r.GET("/api/cron/social", cronHandler.TriggerSocial)

	// --- Admin (Development only) ---
	adminGroup := r.Group("/admin/api")
	adminGroup.Use(admin.RequireDevMode)
	{
		adminGroup.GET("/inventory", admin.Inventory)
		adminGroup.POST("/article", admin.UpdateArticle)
		adminGroup.POST("/article/body", admin.UpdateArticleBody)
		adminGroup.POST("/article/create", admin.CreateArticle)
		adminGroup.POST("/series", admin.UpdateSeries)
		adminGroup.POST("/series/create", admin.CreateSeries)
		adminGroup.POST("/series/schedule", admin.UpdateSeriesSchedule)
		adminGroup.GET("/calendar.csv", admin.CalendarCSV)
		adminGroup.GET("/calendar.ics", admin.CalendarICS)
		adminGroup.GET("/media", media.List)
		adminGroup.POST("/media", media.Upload)
		adminGroup.DELETE("/media/:name", media.Delete)
	}

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		today := time.Now().Format("2006-01-02")
		logging.Info("Running scheduled social dispatch...", zap.String("date", today))
		result, err := dispatcher.Dispatch(today)
		if err != nil {
			logging.Error("Cron job failed", zap.Error(err))
		} else {
			logging.Info("Cron job completed", zap.Int("posts", result.Total()))
			socialPostsCounter.Add(float64(result.Total()))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.Env))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}
