package selector

import "fmt"

// Command is a user action aimed at a selector.
type Command interface {
	command()
}

// LoadRequested loads the CSV file at Path.
type LoadRequested struct{ Path string }

// ColumnSelected picks Name for Role; an empty Name clears the role.
type ColumnSelected struct {
	Role Role
	Name string
}

func (LoadRequested) command()  {}
func (ColumnSelected) command() {}

// Dispatch applies cmd. Only a failed load returns an error.
func (s *Selector) Dispatch(cmd Command) error {
	switch c := cmd.(type) {
	case LoadRequested:
		return s.Load(c.Path)
	case ColumnSelected:
		s.Select(c.Role, c.Name)
		return nil
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}
