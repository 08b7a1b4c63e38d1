package server

import (
	"net/http"

	"app/internal/middleware"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, d Deps) {
	//認証が必要なルートに付けるミドルウェア
	authMW := []echo.MiddlewareFunc{
		middleware.AuthJWT(d.Cfg),
		middleware.TokenVersionGuard(d.UserRepo),
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	d.AuthHandler.RegisterRoutes(e, authMW...)
	d.OrderHandler.RegisterRoutes(e, authMW...)
	d.SubmissionHandler.RegisterRoutes(e, authMW...)
	d.DashboardHandler.RegisterRoutes(e, authMW...)
	d.CountryHandler.RegisterRoutes(e)
}
