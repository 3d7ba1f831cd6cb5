package main

import (
	"context"
	"log"
	"net/http"

	"venuedesk/account"
	"venuedesk/authority"
	"venuedesk/bizerror"
	"venuedesk/client/s3"
	"venuedesk/domain/role"
	"venuedesk/domain/staff"
	"venuedesk/infra/tracing"
	"venuedesk/menu"
	"venuedesk/persistence"
	"venuedesk/servehttp"
	"venuedesk/session"
	"venuedesk/sessions"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(context.Background()).
		AutoMigrate(&account.User{}, &role.Role{}, &staff.Staff{}).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.BootstrapPlatformAdmin(); err != nil {
		log.Fatalf("bootstrap platform admin failed %v\n", err)
	}

	tracingCloser := tracing.Bootstrap()
	if tracingCloser != nil {
		defer tracingCloser.Close()
	}
	s3.Bootstrap()

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling(), tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "venuedesk")
	})

	sessions.RegisterSessionsRestAPI(engine, sessions.LoginThrottleFilter())
	sessions.RegisterSessionRestAPI(engine, session.AuthFilter())
	account.RegisterUsersRestAPI(engine, session.AuthFilter())
	menu.RegisterMenusRestAPI(engine, session.AuthFilter())

	// role and staff administration is a vendor owner surface
	ownerOnly := []gin.HandlerFunc{session.AuthFilter(), session.RequireKind(authority.KindVendor)}
	role.RegisterRolesRestAPI(engine, ownerOnly...)
	staff.RegisterStaffsRestAPI(engine, ownerOnly...)

	servehttp.StartHTTPServer(engine)
}
