package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r *gin.Engine) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>inksign — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the auth and document endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "inksign", "version": "v0.1.0" },
  "paths": {
    "/api/auth/login": {
      "post": {
        "summary": "Log in with email and password",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "token and user returned" }, "400": { "description": "missing fields" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/api/auth/logout": {
      "post": { "summary": "Log out and clear the auth cookie", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/documents/user": {
      "get": { "summary": "List the caller's documents", "responses": { "200": { "description": "documents" }, "401": { "description": "missing or invalid token" } } }
    },
    "/api/documents/{id}": {
      "get": { "summary": "Fetch one document", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } }
    },
    "/api/documents/upload": {
      "post": { "summary": "Upload a PDF (multipart field: file, max 10MB)", "responses": { "200": { "description": "uploaded" }, "400": { "description": "not a PDF, too large or missing" } } }
    },
    "/api/documents/{id}/sign": {
      "post": { "summary": "Sign a document (multipart fields: signatureText, signatureImage)", "responses": { "200": { "description": "signed" }, "400": { "description": "signature required" }, "404": { "description": "not found" } } }
    },
    "/api/documents/{id}/destroy": {
      "delete": { "summary": "Delete a document", "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/documents/{id}/download": {
      "get": { "summary": "Get a short-lived download URL", "responses": { "200": { "description": "url" }, "404": { "description": "not found" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
