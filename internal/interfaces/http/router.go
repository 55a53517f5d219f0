package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmejiac/beneficio-api/internal/application/auth"
	"github.com/dmejiac/beneficio-api/internal/application/rendimiento"
	"github.com/dmejiac/beneficio-api/internal/application/reproceso"
	"github.com/dmejiac/beneficio-api/internal/application/vineta"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	RendimientoUC *rendimiento.UseCase
	ReprocesoUC   *reproceso.UseCase
	VinetaUC      *vineta.EstadoUseCase
	ActaGen       *pdf.ActaGenerator
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	operarios := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Rendimientos (protegido)
	rendimientos := protected.Group("/rendimientos", operarios)
	rendimientoHandler := NewRendimientoHandler(deps.RendimientoUC)
	rendimientos.Get("/", rendimientoHandler.List)
	rendimientos.Get("/ordenes-disponibles", rendimientoHandler.OrdenesDisponibles)
	rendimientos.Get("/:id", rendimientoHandler.GetByID)
	rendimientos.Post("/", rendimientoHandler.Guardar)
	rendimientos.Delete("/:id", rendimientoHandler.Eliminar)

	// Reprocesos (protegido; el candado finalizado se resuelve en el handler)
	reprocesos := protected.Group("/reprocesos", operarios)
	reprocesoHandler := NewReprocesoHandler(deps.ReprocesoUC, deps.ActaGen)
	reprocesos.Get("/", reprocesoHandler.List)
	reprocesos.Get("/seleccionables", reprocesoHandler.Seleccionables)
	reprocesos.Get("/:id", reprocesoHandler.GetByID)
	reprocesos.Get("/:id/acta", reprocesoHandler.Acta)
	reprocesos.Post("/", reprocesoHandler.Guardar)
	reprocesos.Post("/:id/finalizar", reprocesoHandler.Finalizar)
	reprocesos.Delete("/:id", reprocesoHandler.Eliminar)

	// Viñetas (protegido; lo consumen los subsistemas de mezcla, trilla y venta)
	vinetas := protected.Group("/vinetas", operarios)
	vinetaHandler := NewVinetaHandler(deps.VinetaUC)
	vinetas.Get("/subproductos", vinetaHandler.Subproductos)
	vinetas.Get("/:id", vinetaHandler.GetByID)
	vinetas.Patch("/:id/estado", vinetaHandler.SetEstado)
}
