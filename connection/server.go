package connection

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kalender/config"
	"kalender/controller/auth"
	"kalender/controller/notification"
	"kalender/controller/task"
	"kalender/controller/tasklist"
	"kalender/controller/user"
	"kalender/dto"
	"kalender/logging"
	"kalender/services"
)

// NewRouter wires every controller onto a fresh gin engine.
func NewRouter(cfg config.Config, log *zap.Logger, svc *services.Service) (*gin.Engine, error) {
	if err := dto.RegisterGinValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(logging.Middleware(log), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.HTTP)))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})
	router.GET("/healthz", func(c *gin.Context) {
		if err := svc.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth.SignInController(router, svc)
	auth.SignUpController(router, svc)
	user.UserController(router, svc)
	tasklist.TaskListController(router, svc)
	task.TaskController(router, svc)
	task.CalendarController(router, svc)
	notification.NotificationController(router, svc)

	return router, nil
}

func corsConfig(cfg config.HTTPConfig) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	c.AddAllowHeaders("Authorization")
	return c
}

// StartServer serves router until ctx is cancelled, then drains in-flight
// requests.
func StartServer(ctx context.Context, cfg config.HTTPConfig, log *zap.Logger, router http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: cfg.Timeout,
		ReadTimeout:       cfg.Timeout,
		WriteTimeout:      cfg.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
