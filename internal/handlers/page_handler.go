package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/callpad/internal/call"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const pageTitle = "Vapi Call Demo"

// Templates is installed on the engine with SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

type pageData struct {
	Title  string
	Status call.Status
}

// PageHandler renders the call page from the current view state
type PageHandler struct {
	view CallView
}

func NewPageHandler(view CallView) *PageHandler {
	return &PageHandler{view: view}
}

func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", pageData{
		Title:  pageTitle,
		Status: h.view.Status(),
	})
}
