package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/valueobject"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// PageHandler renders the board page
type PageHandler struct {
	board  usecase.TimezoneListService
	logger domain.Logger
}

// NewPageHandler creates the page handler
func NewPageHandler(board usecase.TimezoneListService, logger domain.Logger) *PageHandler {
	return &PageHandler{board: board, logger: logger}
}

type pageData struct {
	Board   *usecase.BoardSnapshot
	Catalog []usecase.CatalogOption
}

// Index renders the board. A timezones query parameter replaces the rows first.
func (p *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has(valueobject.ShareLinkParam) {
		if _, err := p.board.ImportFromLink(r.Context(), r.URL.RawQuery); err != nil {
			p.logger.Warn(r.Context(), "Failed to import share link",
				domain.NewField("query", r.URL.RawQuery), domain.ErrorField(err))
		}
	}

	catalog, err := p.board.Catalog()
	if err != nil {
		p.logger.Error(r.Context(), "Failed to load catalog", domain.ErrorField(err))
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, pageData{Board: p.board.Snapshot(), Catalog: catalog}); err != nil {
		p.logger.Error(r.Context(), "Failed to render page", domain.ErrorField(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
