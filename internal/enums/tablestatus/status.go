package tablestatus

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
	Libre    Status
	Ocupada  Status
	Servido  Status
	Cuenta   Status
	Limpieza Status
}

var Statuses = Enum{
	Libre:    Status{Name: "libre"},
	Ocupada:  Status{Name: "ocupada"},
	Servido:  Status{Name: "servido"},
	Cuenta:   Status{Name: "cuenta"},
	Limpieza: Status{Name: "limpieza"},
}

var All = []Status{
	Statuses.Libre,
	Statuses.Ocupada,
	Statuses.Servido,
	Statuses.Cuenta,
	Statuses.Limpieza,
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
