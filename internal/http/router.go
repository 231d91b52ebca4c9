package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "liquidaciones/internal/config"
	"liquidaciones/internal/domain"
	h "liquidaciones/internal/http/handlers"
	"liquidaciones/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.ConfigureAuth(env)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsConfig(env))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "ruta no encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		protegido := api.Group("")
		protegido.Use(middleware.RequireAuth(h.JWTSecret()))
		{
			usuarios := protegido.Group("/usuarios")
			usuarios.Use(middleware.RequireRoles(domain.RolAdmin, domain.RolSistemas))
			usuarios.GET("", h.GetUsuarios)
			usuarios.PUT("/:id/activo", h.SetUsuarioActivo)

			liqs := protegido.Group("/liquidaciones")
			liqs.GET("", h.GetLiquidaciones)
			liqs.GET("/:id", h.GetLiquidacionByID)
			liqs.POST("", h.CreateLiquidacion)
			liqs.PUT("/:id", h.UpdateLiquidacion)
			liqs.DELETE("/:id", h.DeleteLiquidacion)

			liqs.POST("/:id/preview", h.PreviewLiquidacion)
			liqs.PUT("/:id/ajustar", h.AjustarLiquidacion)
			liqs.POST("/:id/modificar-pago/preview", h.PreviewModificarPago)
			liqs.PUT("/:id/modificar-pago", h.ModificarPago)
			liqs.PUT("/:id/estado", h.CambiarEstadoLiquidacion)
			liqs.GET("/:id/pdf", h.GetLiquidacionPDF)

			liqs.GET("/:id/movimientos/:clase", h.GetMovimientos)
			liqs.POST("/:id/movimientos/:clase", h.CreateMovimiento)
			liqs.PUT("/:id/movimientos/:clase/:movId", h.UpdateMovimiento)
			liqs.DELETE("/:id/movimientos/:clase/:movId", h.DeleteMovimiento)
		}
	}

	h.SetRouter(r)
	return r
}

func corsConfig(env intconfig.Env) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000", "http://127.0.0.1:3000",
			"http://localhost:5173", "http://127.0.0.1:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(env.CORSOrigins) > 0 {
		cfg.AllowOrigins = env.CORSOrigins
	}
	return cors.New(cfg)
}
