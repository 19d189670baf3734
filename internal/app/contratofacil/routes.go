// Package contratofacil собирает HTTP-сервис генерации договоров.
package contratofacil

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/contrato-facil/docs"
	"github.com/magabrotheeeer/contrato-facil/internal/catalog"
	"github.com/magabrotheeeer/contrato-facil/internal/config"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/auth/confirm"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/auth/register"
	bloglist "github.com/magabrotheeeer/contrato-facil/internal/http/handlers/blog/list"
	blogread "github.com/magabrotheeeer/contrato-facil/internal/http/handlers/blog/read"
	contractlist "github.com/magabrotheeeer/contrato-facil/internal/http/handlers/contracts/list"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/contracts/pdf"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/contracts/remove"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/contracts/save"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/editor/entry"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/editor/export"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/editor/preview"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/editor/validate"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/health"
	planlist "github.com/magabrotheeeer/contrato-facil/internal/http/handlers/plans/list"
	"github.com/magabrotheeeer/contrato-facil/internal/http/handlers/plans/upgrade"
	templatelist "github.com/magabrotheeeer/contrato-facil/internal/http/handlers/templates/list"
	"github.com/magabrotheeeer/contrato-facil/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contrato-facil/internal/services/auth"
	"github.com/magabrotheeeer/contrato-facil/internal/services/billing"
	"github.com/magabrotheeeer/contrato-facil/internal/services/contract"
	"github.com/magabrotheeeer/contrato-facil/internal/services/document"
)

// Services зависимости обработчиков.
type Services struct {
	Catalog   *catalog.Catalog
	Auth      *auth.Service
	Documents *document.Service
	Contracts *contract.Service
	Billing   *billing.Service
	Health    health.Checker
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, maxProofSize int64, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))

		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Get("/confirm", confirm.New(logger, svc.Auth).ServeHTTP)
		r.Get("/templates", templatelist.New(logger, svc.Catalog).ServeHTTP)
		r.Get("/plans", planlist.New(logger, svc.Billing).ServeHTTP)
		r.Get("/blog", bloglist.New(logger, svc.Catalog).ServeHTTP)
		r.Get("/blog/{id}", blogread.New(logger, svc.Catalog).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Post("/logout", logout.New(logger, svc.Auth).ServeHTTP)
			r.Get("/me", me.New(logger, svc.Auth).ServeHTTP)

			r.Get("/editor", entry.New(logger, svc.Documents).ServeHTTP)
			r.Post("/editor/{template}/validate", validate.New(logger, svc.Documents).ServeHTTP)
			r.Post("/editor/{template}/preview", preview.New(logger, svc.Documents).ServeHTTP)
			r.Post("/editor/{template}/export/{format}", export.New(logger, svc.Documents).ServeHTTP)

			r.Post("/contracts", save.New(logger, svc.Contracts).ServeHTTP)
			r.Get("/contracts", contractlist.New(logger, svc.Contracts).ServeHTTP)
			r.Delete("/contracts/{id}", remove.New(logger, svc.Contracts).ServeHTTP)
			r.Get("/contracts/{id}/pdf", pdf.New(logger, svc.Contracts).ServeHTTP)

			r.Post("/plans/upgrade", upgrade.New(logger, svc.Billing, maxProofSize).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, svc.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
