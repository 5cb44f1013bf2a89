package app

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/balance"
	"github.com/techmajster/saas-leave-system/internal/config"
	"github.com/techmajster/saas-leave-system/internal/invitation"
	"github.com/techmajster/saas-leave-system/internal/leave"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/membership"
	"github.com/techmajster/saas-leave-system/internal/messaging/kafka"
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/notification"
	"github.com/techmajster/saas-leave-system/internal/organization"
	"github.com/techmajster/saas-leave-system/internal/rbac"
	"github.com/techmajster/saas-leave-system/internal/shared/counter"
	"github.com/techmajster/saas-leave-system/internal/team"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	membershipRepo := membership.NewRepository(db)
	organizationRepo := organization.NewRepository(db)
	teamRepo := team.NewRepository(db)
	leaveTypeRepo := leavetype.NewRepository(db)
	balanceRepo := balance.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	counterRepo := counter.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	notificationRepo := notification.NewRepository(db)
	invitationRepo := invitation.NewRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewDefaultService(logger)
	if err != nil {
		return err
	}

	// --- Services ---
	sender, err := newSender(cfg, logger)
	if err != nil {
		return err
	}

	membershipService := membership.NewService(membershipRepo, logger)
	teamService := team.NewService(db, teamRepo, membershipService, logger)
	balanceService := balance.NewService(db, balanceRepo, leaveTypeRepo, membershipService, logger)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb, membershipService, balanceService, logger)
	organizationService := organization.NewService(db, organizationRepo, membershipRepo, leaveTypeService, balanceService, logger)
	leaveService := leave.NewService(db, leaveRepo, counterRepo, outboxRepo, membershipService, leaveTypeService, balanceService, logger)
	notificationService := notification.NewService(notificationRepo, membershipRepo, leaveTypeService, sender, logger)
	invitationService := invitation.NewService(
		db,
		invitationRepo,
		membershipRepo,
		organizationService,
		outboxRepo,
		balanceService,
		notificationService,
		cfg.AppURL,
		logger,
	)

	// --- Handlers ---
	membershipHandler := membership.NewHandler(membershipService, logger)
	organizationHandler := organization.NewHandler(organizationService, logger)
	teamHandler := team.NewHandler(teamService, logger)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	invitationHandler := invitation.NewHandler(invitationService, logger)

	// --- Routes Registration ---
	router.Use(
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst),
	)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	notification.RegisterCronRoutes(v1, notificationHandler, cfg.CronSecret)

	api := v1.Group("",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst),
		middleware.Idempotency(rdb),
	)
	resolveActor := middleware.ResolveActor(membershipService)
	{
		membership.RegisterRoutes(api, membershipHandler, resolveActor, rbacService)
		organization.RegisterRoutes(api, organizationHandler, resolveActor, rbacService)
		invitation.RegisterRoutes(api, invitationHandler, resolveActor, rbacService)
	}

	scoped := api.Group("", resolveActor)
	{
		team.RegisterRoutes(scoped, teamHandler, rbacService)
		leavetype.RegisterRoutes(scoped, leaveTypeHandler, rbacService)
		balance.RegisterRoutes(scoped, balanceHandler, rbacService)
		leave.RegisterRoutes(scoped, leaveHandler, rbacService)
		notification.RegisterRoutes(scoped, notificationHandler, rbacService)
	}

	return nil
}

// newSender picks SES when it is enabled and a logging sender otherwise, so
// local setups keep working without AWS credentials.
func newSender(cfg *config.Config, logger *zap.Logger) (notification.Sender, error) {
	if !cfg.SESEnabled {
		return notification.NewNoopSender(logger), nil
	}
	return notification.NewSESSender(cfg.AWSRegion, cfg.MailFrom, logger)
}
