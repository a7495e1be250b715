//go:build !darwin
// +build !darwin

package controller

import (
	"context"

	"github.com/ca-srg/tzconv/domain"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

// SystrayController is unavailable outside macOS
type SystrayController struct {
	logger domain.Logger
}

// NewSystrayController creates a tray controller that refuses to run
func NewSystrayController(board usecase.TimezoneListService, actions *TrayActions, hideFromDock bool, logger domain.Logger) *SystrayController {
	return &SystrayController{logger: logger}
}

// Run always fails on this platform
func (s *SystrayController) Run(ctx context.Context) error {
	return domain.ErrInvalidState("tray", "unsupported platform", "run")
}
