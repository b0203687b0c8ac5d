package payment

import "strings"

type Method struct {
	Name string
}

func (m Method) Code() string {
	return m.Name
}

func (m Method) Label() string {
	if len(m.Name) == 0 {
		return ""
	}
	return strings.ToUpper(m.Name[:1]) + m.Name[1:]
}

type Enum struct {
	Efectivo Method
	Tarjeta  Method
	Yape     Method
	Plin     Method
}

var Methods = Enum{
	Efectivo: Method{Name: "efectivo"},
	Tarjeta:  Method{Name: "tarjeta"},
	Yape:     Method{Name: "yape"},
	Plin:     Method{Name: "plin"},
}

var All = []Method{
	Methods.Efectivo,
	Methods.Tarjeta,
	Methods.Yape,
	Methods.Plin,
}

// ByName returns the method for a given name, or nil if not found
func ByName(name string) *Method {
	for _, m := range All {
		if m.Name == name {
			return &m
		}
	}
	return nil
}
