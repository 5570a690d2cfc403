package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"permit-workflow-backend/config"
	apiv1 "permit-workflow-backend/controllers/v1"
	"permit-workflow-backend/fiberlog"
	"permit-workflow-backend/initializers"
	"permit-workflow-backend/lib/notification"
	"permit-workflow-backend/lib/ws"
	"permit-workflow-backend/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server together with the reminder and expiry workers.

Configuration is read from config.yml, .env and the environment.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	bodyLimit := config.Conf.App.BodyLimitMB * 1024 * 1024
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())

	if _, err := os.Stat(config.Conf.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: config.Conf.App.SwaggerFile,
		}))
	} else {
		log.WithField("file", config.Conf.App.SwaggerFile).Warn("swagger file not found, docs disabled")
	}

	//api
	apiV1 := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	app.Mount("/api/v1", apiV1)

	apiv1.InitAuthApiRouters(apiV1)
	ws.InitWs(apiV1)

	protected := apiV1.Group("",
		middleware.AuthorizationRequired(),
		middleware.RbacMiddleware(),
		middleware.ErrNotify(notification.Instance.SystemAlert),
		middleware.WithBodyLimit(int64(bodyLimit)),
	)
	apiv1.InitUsersApiRouters(protected)
	apiv1.InitApplicationsApiRouters(protected)
	apiv1.InitWorkflowApiRouters(protected)
	apiv1.InitCommentsApiRouters(protected)
	apiv1.InitDocumentsApiRouters(protected)
	apiv1.InitActivityLogsApiRouters(protected)
	apiv1.InitMessagesApiRouters(protected)
	apiv1.InitReportsApiRouters(protected)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
