package module

import "testing"

func TestVersionString(t *testing.T) {
	tests := []struct {
		v    Version
		want string
	}{
		{Version{Path: "boost", Version: "1.84.0"}, "boost@1.84.0"},
		{Version{Path: "owner/repo", Version: "2.0.0"}, "owner/repo@2.0.0"},
		{Version{Path: "boost"}, "boost"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
