// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"sync"

	certificatesfeature "github.com/dalemusser/recycleadmin/internal/app/features/certificates"
	dashboardfeature "github.com/dalemusser/recycleadmin/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/recycleadmin/internal/app/features/errors"
	healthfeature "github.com/dalemusser/recycleadmin/internal/app/features/health"
	homefeature "github.com/dalemusser/recycleadmin/internal/app/features/home"
	logoutfeature "github.com/dalemusser/recycleadmin/internal/app/features/logout"
	profilefeature "github.com/dalemusser/recycleadmin/internal/app/features/profile"
	usersfeature "github.com/dalemusser/recycleadmin/internal/app/features/users"
	"github.com/dalemusser/recycleadmin/internal/app/platform"
	auditstore "github.com/dalemusser/recycleadmin/internal/app/store/audit"
	userstore "github.com/dalemusser/recycleadmin/internal/app/store/users"
	"github.com/dalemusser/recycleadmin/internal/app/system/auditlog"
	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"github.com/dalemusser/recycleadmin/internal/app/system/console"
	"github.com/dalemusser/recycleadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	consolesMu sync.Mutex
	consoles   *console.Registry
)

// closeConsoles stops the registry built by BuildHandler, if any.
func closeConsoles() {
	consolesMu.Lock()
	defer consolesMu.Unlock()
	if consoles != nil {
		consoles.Close()
		consoles = nil
	}
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It boots the template engine, applies
// session middleware, and mounts the feature routers: home, dashboard,
// users, certificates, profile, logout, health and the error pages.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.LoginURL = appCfg.LoginURL

	// LoadSessionUser re-reads the account on each request so deleted users
	// and user-type changes take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsfeature.LoginURL = appCfg.LoginURL

	auditEvents := auditstore.New(deps.MongoDatabase)
	audit := auditlog.New(auditEvents, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// Platform services
	users := platform.NewMongoUsers(deps.MongoDatabase, audit, logger)
	certs := platform.NewMongoCertificates(deps.MongoDatabase, audit, logger)
	accounts := platform.NewMongoAccounts(deps.MongoDatabase)

	// Per-browser-session list state for the Users and Certificates screens.
	registry := console.NewRegistry(appCfg.ConsoleTTL, logger)
	consolesMu.Lock()
	if consoles != nil {
		consoles.Close()
	}
	consoles = registry
	consolesMu.Unlock()

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, registry, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(appCfg.LoginURL, logger)
	r.Get("/", homeHandler.ServeRoot)

	logoutHandler := logoutfeature.NewHandler(sessionMgr, registry, audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Role-based dashboards
	dashboardHandler := dashboardfeature.NewHandler(users, certs, auditEvents, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Admin list screens; mutation submissions share one per-user budget.
	var submit []func(http.Handler) http.Handler
	if appCfg.MutationLimit > 0 {
		limiter := ratelimit.New(appCfg.MutationLimit, appCfg.MutationWindow)
		submit = append(submit, limiter.Middleware(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("mutation rate limit exceeded", zap.String("key", ratelimit.Key(r)), zap.String("path", r.URL.Path))
			errorsfeature.HTMXTooManyRequests(w, r, "Too many changes in a short time. Please wait a moment and try again.", "/dashboard")
		}))
	}

	usersHandler := usersfeature.NewHandler(users, registry, sessionMgr, appCfg.PageSize, errLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr, submit...))

	certsHandler := certificatesfeature.NewHandler(certs, registry, sessionMgr, appCfg.PageSize, errLog, logger)
	r.Mount("/certificates", certificatesfeature.Routes(certsHandler, sessionMgr, submit...))

	profileHandler := profilefeature.NewHandler(accounts, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	return r, nil
}
