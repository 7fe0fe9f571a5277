package bridge

import "testing"

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"123456", true},
		{float64(0), false},
		{float64(123456), true},
		{[]any{}, false},
		{[]any{"x"}, true},
		{map[string]any{}, false},
		{map[string]any{"a": 1}, true},
	}
	for _, tt := range tests {
		if got := truthy(tt.v); got != tt.want {
			t.Errorf("truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestEntry_PhonesIgnoresNonList(t *testing.T) {
	e := Entry{"contrato": "123456", "telefones": "84999990000"}
	if e.Phones() != 0 {
		t.Errorf("Phones() = %d, want 0 for non-list value", e.Phones())
	}
	var empty Entry
	if empty.Found() {
		t.Error("nil entry should not be found")
	}
}
