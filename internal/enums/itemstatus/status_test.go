package itemstatus

import "testing"

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{name: "nuevoToPreparando", from: "nuevo", to: "preparando", want: true},
		{name: "preparandoToListo", from: "preparando", to: "listo", want: true},
		{name: "nuevoSkipsToListo", from: "nuevo", to: "listo", want: false},
		{name: "preparandoBackToNuevo", from: "preparando", to: "nuevo", want: false},
		{name: "listoIsTerminal", from: "listo", to: "preparando", want: false},
		{name: "unknownStatus", from: "entregado", to: "listo", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAdvance(tt.from, tt.to); got != tt.want {
				t.Errorf("CanAdvance(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
