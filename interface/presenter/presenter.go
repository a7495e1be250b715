package presenter

import (
	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

// ConsolePresenter handles console output formatting
type ConsolePresenter interface {
	// Version and basic output
	PrintVersion(version string)
	PrintError(err error)

	// Board output
	PrintBoard(snap *usecase.BoardSnapshot) error
	PrintCatalog(options []usecase.CatalogOption) error

	// Config output
	PrintConfig(export map[string]interface{}) error
}

// JSONPresenter handles JSON output formatting
type JSONPresenter interface {
	PrintBoard(snap *usecase.BoardSnapshot) error
	PrintCatalog(options []usecase.CatalogOption) error
	PrintConfig(export map[string]interface{}) error
}
