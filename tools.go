//go:build tools

package main

// Dependencias de herramientas de build (swag init genera docs/swagger.json).
import (
	_ "github.com/swaggo/swag"
)
