package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Serverを組み立てるのに必要な部品
type Deps struct {
	Cfg config.Config

	AuthHandler       *handler.AuthHandler
	OrderHandler      *handler.OrderHandler
	SubmissionHandler *handler.SubmissionHandler
	DashboardHandler  *handler.DashboardHandler
	CountryHandler    *handler.CountryHandler

	// TokenVersionGuardで使う
	UserRepo repository.UserRepository
}

// Newはechoを組み立てて返す。起動はStartで行う。
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	if d.Cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{d.Cfg.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowCredentials: true,
		}))
	}

	registerRoutes(e, d)
	return e
}

func Start(e *echo.Echo, port string) error {
	return e.Start(":" + port)
}
