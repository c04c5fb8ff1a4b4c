package collection

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iafilius/Visualizer/src/plot"
)

// Command is a discrete user action aimed at the collection. The UI builds
// commands; the Manager applies them.
type Command interface {
	command()
}

// PlotConfirmed asks for a new panel built from Spec.
type PlotConfirmed struct{ Spec plot.Spec }

// PanelDeleted removes the panel with ID.
type PanelDeleted struct{ ID uuid.UUID }

// PanelDuplicated duplicates the panel with ID.
type PanelDuplicated struct{ ID uuid.UUID }

// UndoRequested restores the most recently deleted panel.
type UndoRequested struct{}

func (PlotConfirmed) command()   {}
func (PanelDeleted) command()    {}
func (PanelDuplicated) command() {}
func (UndoRequested) command()   {}

// Dispatch applies cmd. Errors have already been reported to the notifier
// when they come back here.
func (m *Manager) Dispatch(cmd Command) error {
	switch c := cmd.(type) {
	case PlotConfirmed:
		_, err := m.Create(c.Spec)
		return err
	case PanelDeleted:
		m.Remove(c.ID)
		return nil
	case PanelDuplicated:
		_, err := m.Duplicate(c.ID)
		return err
	case UndoRequested:
		_, err := m.UndoDelete()
		return err
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}
