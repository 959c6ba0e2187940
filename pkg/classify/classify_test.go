package classify

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"router1", "router1"},
		{"Core Router/1", "core-router-1"},
		{"Zürich-GW", "zurich-gw"},
		{"  spaced  out  ", "spaced-out"},
		{"a--b", "a--b"},
		{"edge_fw.dc1", "edge_fw-dc1"},
		{"10.0.0.1", "10-0-0-1"},
		{"", ""},
		{"///", ""},
	}

	for _, tt := range tests {
		if got := Classify(tt.in); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
