package itemstatus

import "strings"

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	if len(s.Name) == 0 {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

type Enum struct {
	Nuevo      Status
	Preparando Status
	Listo      Status
}

var Statuses = Enum{
	Nuevo:      Status{Name: "nuevo"},
	Preparando: Status{Name: "preparando"},
	Listo:      Status{Name: "listo"},
}

var All = []Status{
	Statuses.Nuevo,
	Statuses.Preparando,
	Statuses.Listo,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// CanAdvance reports whether moving from one preparation status to the next
// is a legal forward step. Items only ever move nuevo -> preparando -> listo.
func CanAdvance(from, to string) bool {
	switch from {
	case Statuses.Nuevo.Name:
		return to == Statuses.Preparando.Name
	case Statuses.Preparando.Name:
		return to == Statuses.Listo.Name
	default:
		return false
	}
}
