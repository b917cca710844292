package naming

import "testing"

func TestStartsLower(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"myClass", true},
		{"MyClass", false},
		{"_private", false},
		{"9lives", false},
		{"", false},
		{"\u00e9lan", true},
		{"e\u0301lan", true},
		{"\u03a9mega", false},
		{"\u03c9mega", true},
	}
	for _, tc := range cases {
		if got := StartsLower(tc.in); got != tc.want {
			t.Errorf("StartsLower(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestUpperFirst(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"myClass", "MyClass"},
		{"MyClass", "MyClass"},
		{"mYCLASS", "MYCLASS"},
		{"a", "A"},
		{"", ""},
		{"e\u0301lan", "E\u0301lan"},
		{"\u03c9mega", "\u03a9mega"},
		{"_x", "_x"},
	}
	for _, tc := range cases {
		if got := UpperFirst(tc.in); got != tc.want {
			t.Errorf("UpperFirst(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFirstCluster(t *testing.T) {
	if got := FirstCluster("e\u0301x"); got != "e\u0301" {
		t.Fatalf("expected combining cluster, got %q", got)
	}
	if got := FirstCluster(""); got != "" {
		t.Fatalf("expected empty cluster, got %q", got)
	}
}
