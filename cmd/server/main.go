package main

import (
	"context"
	"flag"

	"github.com/Luismorlan/eventmux/access"
	"github.com/Luismorlan/eventmux/app_setting"
	"github.com/Luismorlan/eventmux/notification"
	"github.com/Luismorlan/eventmux/relationship"
	"github.com/Luismorlan/eventmux/server"
	"github.com/Luismorlan/eventmux/server/middlewares"
	"github.com/Luismorlan/eventmux/store"
	. "github.com/Luismorlan/eventmux/utils"
	"github.com/Luismorlan/eventmux/utils/dotenv"
	. "github.com/Luismorlan/eventmux/utils/flag"
	. "github.com/Luismorlan/eventmux/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("api server shutdown")
}

func main() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	// flags and env are only known now, rebuild the logger with them
	InitLogger()

	setting, err := app_setting.ParseServerAppSetting(*AppSettingPath)
	if err != nil {
		Log.Fatal(err)
	}
	location, err := setting.EventLocation()
	if err != nil {
		Log.Fatal(err)
	}

	InitTracer(*ServiceName)
	InitProfiler(*ServiceName)
	defer cleanup()

	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		Log.Fatal("fail to migrate database: ", err)
	}

	ctx := context.Background()
	dbProvider := relationship.NewDBProvider(db)
	srv := &server.Server{
		Store:    store.New(db),
		Composer: notification.NewComposer(dbProvider, location),
		Location: location,
	}

	var provider relationship.Provider = dbProvider
	if ttl := setting.RelationshipCacheTTL(); ttl > 0 {
		client, err := GetRedisClient(ctx)
		if err != nil {
			Log.Error("redis unavailable, relationship cache disabled: ", err)
		} else {
			defer client.Close()
			cached := relationship.NewCachedProvider(dbProvider, relationship.NewRedisSetCache(client), ttl)
			provider = cached
			srv.Cache = cached
			Log.Info("relationship cache enabled, ttl: ", ttl)
		}
	}
	srv.Evaluator = access.NewEvaluator(provider)

	if statsdClient := NewDogStatsdClient(setting.STATSD_ADDR); statsdClient != nil {
		defer statsdClient.Close()
		srv.Composer.Counter = statsdClient
	}

	handlers := []gin.HandlerFunc{cors.Default(), gintrace.Middleware(*ServiceName)}
	if !setting.BYPASS_AUTH {
		verifier, err := middlewares.NewCognitoVerifier(ctx)
		if err != nil {
			// Abort directly if the Cognito isn't setup successfully, which is
			// crucial for server side authorization.
			Log.Fatal("fail to setup Cognito client: ", err)
		}
		handlers = append(handlers, middlewares.JWT(verifier, true))
	} else {
		Log.Warn("auth is bypassed, the sub header is trusted as sent")
	}
	router := server.NewRouter(srv, handlers...)

	Log.Info("api server starts up on ", setting.LISTEN_ADDR)
	if err := router.Run(setting.LISTEN_ADDR); err != nil {
		Log.Error("api server stopped: ", err)
	}
}
