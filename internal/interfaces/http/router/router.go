package router

import (
	"time"

	appidentity "github.com/schoolfees/backend/internal/application/identity"
	"github.com/schoolfees/backend/internal/interfaces/http/handler"
	"github.com/schoolfees/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	AcademicYear *handler.AcademicYearHandler
	Class        *handler.ClassHandler
	FeeCategory  *handler.FeeCategoryHandler
	Student      *handler.StudentHandler
	Invoice      *handler.InvoiceHandler
	Payment      *handler.PaymentHandler
	Report       *handler.ReportHandler
	Notification *handler.NotificationHandler
}

// Router mounts the API route tree
type Router struct {
	handlers    Handlers
	authService *appidentity.AuthService
	logger      *zap.Logger
	loginLimit  *middleware.RateLimiter
}

// New creates a Router
func New(handlers Handlers, authService *appidentity.AuthService, logger *zap.Logger) *Router {
	return &Router{
		handlers:    handlers,
		authService: authService,
		logger:      logger,
		loginLimit:  middleware.NewRateLimiter(10, time.Minute),
	}
}

// Setup mounts all routes under /api/v1. System and login endpoints are
// public; everything else requires a valid access token, with role checks
// applied per group.
func (r *Router) Setup(engine *gin.Engine) {
	api := engine.Group("/api/v1")

	r.handlers.System.RegisterRoutes(api)

	authMW := middleware.Auth(r.authService, r.logger)
	r.handlers.Auth.RegisterRoutes(api, r.loginLimit.Middleware(), authMW)

	authed := api.Group("", authMW)

	adminOnly := middleware.RequireAdmin()
	ledgerAccess := middleware.RequireLedgerAccess()

	r.handlers.User.RegisterRoutes(authed, adminOnly)
	r.handlers.AcademicYear.RegisterRoutes(authed, ledgerAccess)
	r.handlers.Class.RegisterRoutes(authed, ledgerAccess)
	r.handlers.FeeCategory.RegisterRoutes(authed, ledgerAccess)
	r.handlers.Student.RegisterRoutes(authed, ledgerAccess)
	r.handlers.Invoice.RegisterRoutes(authed, ledgerAccess)
	r.handlers.Payment.RegisterRoutes(authed, ledgerAccess)
	r.handlers.Report.RegisterRoutes(authed, ledgerAccess)
	r.handlers.Notification.RegisterRoutes(authed, adminOnly)
}
