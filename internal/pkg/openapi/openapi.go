// Package openapi serves the API description through the swagger UI.
package openapi

import (
	"context"
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Load parses and validates the document at path.
func Load(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// Mount serves the swagger UI under /docs/api/v1 when the document exists and is valid.
// It reports whether the UI was mounted.
func Mount(app *fiber.App, path string) bool {
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		log.Warnf("[openapi] %s not found, swagger UI disabled", path)
		return false
	}
	doc, err := Load(path)
	if err != nil {
		log.Errorf("[openapi] %v", err)
		return false
	}

	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: path,
		Path:     "v1",
		Title:    doc.Info.Title,
	}))
	return true
}
