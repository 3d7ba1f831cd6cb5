package servehttp

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venuedesk/common"

	"github.com/gin-gonic/gin"
)

func ListenAddr() string {
	if port := os.Getenv("SERVICE_PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

func StartHTTPServer(engine *gin.Engine) {
	srv := &http.Server{
		Addr:    ListenAddr(),
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.Log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 send syscall.SIGINT
	// kill -9 send syscall.SIGKILL, can't be caught
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	common.Log.Infoln("shutdown signal has been received, the service will exit in 3 seconds")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.Log.Fatalf("http server shutdown failed: %v", err)
	}
	common.Log.Infoln("http server is shutdown gracefully, new request will be rejected")

	<-ctx.Done()
	common.Log.Infoln("service exiting")
}
