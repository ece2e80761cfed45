// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"uvalert/config"
	"uvalert/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config              *config.Config
	SubscriptionHandler *handler.SubscriptionHandler
	DispatchHandler     *handler.DispatchHandler
	DebugHandler        *handler.DebugHandler
	ReportHandler       *handler.ReportHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg                 *config.Config
	subscriptionHandler *handler.SubscriptionHandler
	dispatchHandler     *handler.DispatchHandler
	debugHandler        *handler.DebugHandler
	reportHandler       *handler.ReportHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:                 params.Config,
		subscriptionHandler: params.SubscriptionHandler,
		dispatchHandler:     params.DispatchHandler,
		debugHandler:        params.DebugHandler,
		reportHandler:       params.ReportHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Registration and opt-out; unsubscribe answers GET for mail links.
	e.POST("/subscriptions", r.subscriptionHandler.Register)
	e.GET("/unsubscribe", r.subscriptionHandler.Unsubscribe)
	e.POST("/unsubscribe", r.subscriptionHandler.Unsubscribe)

	// Analytical series read by the dashboard.
	reportGroup := e.Group("/reports")
	{
		reportGroup.GET("/incidence/annual", r.reportHandler.AnnualIncidence)
		reportGroup.GET("/forecast/annual", r.reportHandler.Forecast)
		reportGroup.GET("/correlation/uv-incidence", r.reportHandler.Correlation)
		reportGroup.GET("/charts", r.reportHandler.Charts)
	}

	// Operator-only surfaces, off in production unless explicitly enabled.
	if r.cfg.TestRoutes != nil && r.cfg.TestRoutes.Enabled {
		e.POST("/dispatch/run", r.dispatchHandler.Run)

		debugGroup := e.Group("/debug")
		{
			debugGroup.GET("/uv", r.debugHandler.Snapshot)
			debugGroup.GET("/uv/inspect", r.debugHandler.Inspect)
			debugGroup.GET("/uv/emails", r.debugHandler.InspectSubscribers)
		}
	}
}
