package inputval

import "testing"

func TestCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"3", 3},
		{"  12 ", 12},
		{"", 0},
		{"abc", 0},
		{"-4", 0},
		{"2.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Count(tt.in); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestInt(t *testing.T) {
	if got := Int("20", 15); got != 20 {
		t.Errorf("Int(20) = %d", got)
	}
	if got := Int("", 15); got != 15 {
		t.Errorf("Int(blank) = %d, want default 15", got)
	}
	if got := Int("-3", 0); got != -3 {
		t.Errorf("Int(-3) = %d, want -3", got)
	}
}

func TestBool(t *testing.T) {
	for _, s := range []string{"true", "1", "on", "YES"} {
		if !Bool(s) {
			t.Errorf("Bool(%q) = false", s)
		}
	}
	for _, s := range []string{"", "false", "0", "off", "nope"} {
		if Bool(s) {
			t.Errorf("Bool(%q) = true", s)
		}
	}
}
