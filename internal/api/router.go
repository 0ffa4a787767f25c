// Package api exposes the running timer over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine for the control API.
func NewRouter(h *Handler, corsOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), cors(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	t := api.Group("/timer")
	t.GET("", h.GetTimer)
	t.POST("/start", h.Start)
	t.POST("/pause", h.Pause)
	t.POST("/skip", h.Skip)
	t.POST("/reset", h.Reset)
	t.POST("/end", h.End)
	t.POST("/adjust", h.Adjust)
	t.PUT("/length", h.SetLength)
	t.POST("/preset", h.LoadPreset)

	api.PUT("/activity", h.SetActivity)
	api.GET("/presets", h.ListPresets)
	api.GET("/presets/:id", h.GetPreset)
	api.GET("/settings", h.GetSettings)
	api.GET("/shop", h.ListShop)
	api.POST("/shop/:id/buy", h.Buy)

	return engine
}

func cors(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimSpace(origin)] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed["*"]; ok {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
