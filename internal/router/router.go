package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microdesk/ticket-service/api"
	"github.com/microdesk/ticket-service/internal/handler"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	pathHealth  = "/health"
	pathReady   = "/ready"
	pathSwagger = "/swagger"
)

func New(ticketHandler *handler.TicketHandler, healthHandler *handler.HealthHandler) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(pathHealth, healthHandler.Health)
	r.GET(pathReady, handler.Ready)
	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	r.POST("/tickets", ticketHandler.Create)
	r.GET("/tickets/:id", ticketHandler.Get)
	r.PUT("/tickets/:id", ticketHandler.Update)

	return r
}
