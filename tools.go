//go:build tools

package main

// La documentación OpenAPI se genera con swag a partir de las anotaciones
// godoc de los handlers: swag init -g cmd/api/main.go -o docs
import (
	_ "github.com/swaggo/swag"
)
