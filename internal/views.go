package internal

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/cloverbooth/kiosk/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Page     string
	Error    string
	Position int
	Orders   []model.OrderView
}

func renderPage(c *fiber.Ctx, data pageData) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return err
	}
	c.Type("html")
	return c.Send(buf.Bytes())
}
