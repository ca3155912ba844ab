package importer

import "testing"

func TestExtractUnit(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Milk 1L", "1l"},
		{"Rice 25 lbs", "25lb"},
		{"Eggs", "each"},
		{"Cheese 115g", "115g"},
		{"Cheese 115 gr", "115g"},
		{"Sugar 1kg", "1kg"},
		{"Sugar 2 kilos", "2kg"},
		{"Juice 500ml", "500ml"},
		{"Oil 1 lt", "1l"},
		{"Tortillas 2 pack", "2 pack"},
		{"Tortillas 2pk", "2 pack"},
		{"Wine 1 bottle", "1 bottle"},
		{"Soda 12 oz", "12oz"},
		{"Avocado 1 un", "each"},
		{"Avocado 3 unid", "each"},
		{"Yogurt 1.5l", "1.5l"},
		{"Yogurt 1,5 lt", "1.5l"},
		{"", "each"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractUnit(tt.name); got != tt.want {
				t.Fatalf("ExtractUnit(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
