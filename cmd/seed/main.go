// seed crea el usuario administrador inicial y, en modo development, unas
// órdenes de trilla de muestra para probar el flujo de rendimientos.
//
// Uso: go run ./cmd/seed -email admin@beneficio.local -password <pass>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/infrastructure/postgres"
	"github.com/dmejiac/beneficio-api/pkg/config"
)

func main() {
	email := flag.String("email", "admin@beneficio.local", "email del admin")
	password := flag.String("password", "", "password del admin (requerido)")
	nombre := flag.String("nombre", "Administrador", "nombre del admin")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password es requerido")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash de password: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	usuarioRepo := postgres.NewUsuarioRepository(pool)
	admin := &entity.Usuario{
		ID:           uuid.New().String(),
		Email:        *email,
		PasswordHash: string(hash),
		Nombre:       *nombre,
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := usuarioRepo.Create(admin); err != nil {
		fmt.Fprintf(os.Stderr, "crear admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("admin creado: %s (%s)\n", admin.Email, admin.ID)

	if cfg.App.Env != "development" {
		return
	}

	// Órdenes de trilla de muestra. En producción las publica el subsistema
	// de trilla; aquí solo sirven para probar rendimientos en local.
	muestras := []struct {
		numero   string
		trillar  string
		primeras string
		catadura string
	}{
		{"OT-1001", "100.00", "80.00", "8.00"},
		{"OT-1002", "250.50", "200.40", "20.04"},
		{"OT-1003", "75.25", "60.20", "6.02"},
	}
	for _, m := range muestras {
		_, err := pool.Exec(ctx, `
			INSERT INTO ordenes_trilla (id, numero, total_trillar, total_primeras, total_catadura, fecha)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (numero) DO NOTHING`,
			uuid.New().String(), m.numero,
			decimal.RequireFromString(m.trillar),
			decimal.RequireFromString(m.primeras),
			decimal.RequireFromString(m.catadura),
			now,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "orden de muestra %s: %v\n", m.numero, err)
			os.Exit(1)
		}
	}
	fmt.Printf("%d órdenes de trilla de muestra insertadas\n", len(muestras))
}
