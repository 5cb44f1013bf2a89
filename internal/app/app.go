package app

import (
	"github.com/techmajster/saas-leave-system/internal/balance"
	"github.com/techmajster/saas-leave-system/internal/config"
	"github.com/techmajster/saas-leave-system/internal/invitation"
	"github.com/techmajster/saas-leave-system/internal/leave"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/membership"
	"github.com/techmajster/saas-leave-system/internal/messaging/kafka"
	"github.com/techmajster/saas-leave-system/internal/notification"
	"github.com/techmajster/saas-leave-system/internal/organization"
	"github.com/techmajster/saas-leave-system/internal/shared/connection"
	"github.com/techmajster/saas-leave-system/internal/shared/counter"
	"github.com/techmajster/saas-leave-system/internal/team"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// BuildApp connects the stores and mounts every module on router.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	log := zap.L().Named("app")

	db, err := connectDatabase(cfg)
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		return err
	}

	if err := registerModules(router, cfg, db, rdb); err != nil {
		return err
	}

	log.Info("application ready", zap.String("env", cfg.AppEnv))
	return nil
}

func connectDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := connection.ConnectGORMWithRetry(connection.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, connectRetries)
	if err != nil {
		return nil, err
	}

	if cfg.DBAutoMigrate {
		if err := db.AutoMigrate(models()...); err != nil {
			return nil, err
		}
		zap.L().Named("app").Info("schema migrated")
	}
	return db, nil
}

func models() []any {
	return []any{
		&organization.Organization{},
		&membership.Profile{},
		&team.Team{},
		&leavetype.LeaveType{},
		&balance.LeaveBalance{},
		&balance.BalanceApplication{},
		&balance.Reconciliation{},
		&leave.LeaveRequest{},
		&counter.OrganizationCounter{},
		&kafka.OutboxEvent{},
		&notification.Preference{},
		&notification.Notification{},
		&invitation.Invitation{},
	}
}
