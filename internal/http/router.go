package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/truehome/backend/internal/auth"
	"github.com/truehome/backend/internal/config"
	"github.com/truehome/backend/internal/http/handlers"
	"github.com/truehome/backend/internal/http/middlewares"
	"github.com/truehome/backend/internal/mail"
	"github.com/truehome/backend/internal/observability"
	"github.com/truehome/backend/internal/repo/fallback"
	"github.com/truehome/backend/internal/repo/memory"
	"github.com/truehome/backend/internal/repo/postgres"
	"github.com/truehome/backend/internal/security"
	"github.com/truehome/backend/internal/verification"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// NewRouter wires the whole API. pool and rdb may be nil: a missing
// database routes everything through the in-memory stores, and missing
// redis keeps verification codes in process memory.
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// metrics

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("truehome-api"))
	r.Use(prom.GinHandleMiddleware())

	// stores: durable + ephemeral behind the per-call probe

	poolProbe := fallback.NewPoolProbe(pool, time.Second)
	probe := fallback.ProbeFunc(func(ctx context.Context) bool {
		ok := poolProbe.Available(ctx)

		if !ok {
			prom.StoreFallbacks.Inc()
		}

		return ok
	})

	usersStore := fallback.NewUsersStore(
		probe,
		postgres.NewUsersRepo(pool, prom),
		memory.NewUsersRepo(),
	)
	propertiesStore := fallback.NewPropertiesStore(
		probe,
		postgres.NewPropertiesRepo(pool, prom),
		memory.NewPropertiesRepo(),
	)

	// auth service

	hasher := security.NewHasher(cfg.BcryptCost)
	issuer := auth.NewIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authSvc := auth.NewService(usersStore, hasher, issuer)
	authMw := middlewares.NewAuthMiddleware(issuer)

	// outbound mail

	var mailer mail.Mailer

	if cfg.SMTPUser != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		log.Warn("EMAIL_USER not set, outbound mail is logged, not delivered")
		mailer = mail.NewLogMailer(log)
	}

	mailer = mail.NewProtectedMailer(mailer, mail.ProtectedMailerConfig{})
	mailer = mail.NewInstrumented(mailer, func(result string) {
		prom.MailSendsTotal.WithLabelValues(result).Inc()
	})

	// verification codes

	var codes verification.Store

	if rdb != nil {
		codes = verification.NewRedisStore(rdb, verification.DefaultTTL)
	} else {
		codes = verification.NewMemoryStore(verification.DefaultTTL)
	}

	// health

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	// handlers

	healthHandler := handlers.NewHealthHandler(ping)
	authHandler := handlers.NewAuthHandler(authSvc)
	emailHandler := handlers.NewEmailHandler(mailer, codes, usersStore, log)
	propertiesHandler := handlers.NewPropertiesHandler(propertiesStore)

	r.GET("/health", healthHandler.Health)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// credential endpoints are rate limited by client IP
	limiter := middlewares.NewRateLimiter(10, time.Minute)

	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", limiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Register)
	authGroup.POST("/login", limiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.GET("/profile", authMw.RequireAuth(), authHandler.Profile)

	emailGroup := r.Group("/api/email")
	emailGroup.POST("/send-verification", limiter.RateLimiterMiddleware(middlewares.KeyByIP), emailHandler.SendVerification)
	emailGroup.POST("/verify", emailHandler.Verify)

	props := r.Group("/api/properties")
	props.GET("", propertiesHandler.List)
	props.GET("/:id", propertiesHandler.GetByID)
	props.POST("", authMw.RequireAuth(), authMw.RequireRole("manager"), propertiesHandler.Create)

	return r
}
