package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/mboulet/authcore/internal/api"
	"github.com/mboulet/authcore/internal/controller"
	"github.com/mboulet/authcore/internal/migrations"
	"github.com/mboulet/authcore/internal/service"
	"github.com/mboulet/authcore/internal/storage/memory"
	"github.com/mboulet/authcore/internal/storage/postgres"
	redisstore "github.com/mboulet/authcore/internal/storage/redis"
	"github.com/mboulet/authcore/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger, util.NewDBConfig())
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.Apply(db, logger); err != nil {
		logger.Fatal(zap.Error(err))
	}

	pgStorage := postgres.NewStorage(db)
	cleanupFuncs := []func(){dbCleanup}

	storageCfg := util.NewStorageConfig()
	var sessions service.SessionStore = pgStorage
	switch storageCfg.RefreshStore {
	case util.RefreshStoreRedis:
		redisClient, redisCleanup, err := util.NewRedisClient(logger, util.NewRedisConfig())
		if err != nil {
			logger.Fatal(zap.Error(err))
		}
		sessions = redisstore.NewSessionStore(redisClient)
		cleanupFuncs = append(cleanupFuncs, redisCleanup)
	case util.RefreshStoreMemory:
		sessions = memory.NewSessionStore()
	}

	authCfg := util.NewAuthConfig()

	tokenService := service.NewTokenService(util.NewTokenConfig())
	hasher := service.NewPasswordHasher(authCfg.BcryptCost)
	webhookService := service.NewWebhookService(logger, util.GetWebhookURL())
	authService := service.NewAuthService(pgStorage, sessions, tokenService, hasher, webhookService, logger)

	transport := controller.NewTokenTransport(authCfg)
	ctrl := controller.NewController(logger, authService, transport)

	apiServer := api.NewAPI(ctrl, authService, transport, util.NewServerConfig(), authCfg.RoutePrefix, logger, cleanupFuncs)
	apiServer.Run(ctx)
}
