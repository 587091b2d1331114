package http

import (
	"fmt"
	"html"
	"log/slog"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"

	"github.com/rienbien8/Bloomix-backend/api"
)

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({url: '%s', dom_id: '#swagger-ui', deepLinking: true});
  </script>
</body>
</html>`

// SetupDocs mounts Swagger UI at /docs over the embedded OpenAPI document,
// served as-is at /docs/openapi.yaml and parsed at /docs/openapi.json.
func SetupDocs(app *fiber.App) {
	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(api.OpenAPI)
	})

	title := "API docs"
	doc, err := openapi3.NewLoader().LoadFromData(api.OpenAPI)
	if err != nil {
		slog.Warn("openapi document unreadable, json view disabled", "error", err)
	} else {
		title = fmt.Sprintf("%s %s", doc.Info.Title, doc.Info.Version)
		app.Get("/docs/openapi.json", func(c *fiber.Ctx) error {
			return c.JSON(doc)
		})
	}

	page := fmt.Sprintf(swaggerUIPage, html.EscapeString(title), "/docs/openapi.yaml")
	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(page)
	})
}
