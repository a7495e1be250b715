package presenter

import (
	"encoding/json"
	"io"
	"os"

	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

// JSONPresenterImpl implements JSONPresenter for JSON output
type JSONPresenterImpl struct {
	encoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter() *JSONPresenterImpl {
	return NewJSONPresenterWithWriter(os.Stdout)
}

// NewJSONPresenterWithWriter creates a JSON presenter writing to w
func NewJSONPresenterWithWriter(w io.Writer) *JSONPresenterImpl {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &JSONPresenterImpl{encoder: encoder}
}

// PrintBoard prints the board snapshot as JSON
func (p *JSONPresenterImpl) PrintBoard(snap *usecase.BoardSnapshot) error {
	if snap.Rows == nil {
		copied := *snap
		copied.Rows = []usecase.RowView{}
		snap = &copied
	}
	return p.encoder.Encode(snap)
}

// PrintCatalog prints the catalog as JSON
func (p *JSONPresenterImpl) PrintCatalog(options []usecase.CatalogOption) error {
	if options == nil {
		options = []usecase.CatalogOption{}
	}
	return p.encoder.Encode(map[string]interface{}{
		"timezones": options,
		"count":     len(options),
	})
}

// PrintConfig prints an exported configuration as JSON
func (p *JSONPresenterImpl) PrintConfig(export map[string]interface{}) error {
	return p.encoder.Encode(export)
}
