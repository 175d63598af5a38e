package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"coach@rinkside.org", true},
		{"parent+u12@example.co.uk", true},
		{"manager@localhost", true},
		{"  padded@example.com  ", true},

		{"", false},
		{"coach", false},
		{"coach@", false},
		{"@rinkside.org", false},
		{".coach@rinkside.org", false},
		{"coach..a@rinkside.org", false},
		{"coach@rinkside..org", false},
		{"Coach <coach@rinkside.org>", false},
		{"coach @rinkside.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidate_BareEmail(t *testing.T) {
	type signup struct {
		Email string `json:"email" validate:"omitempty,bareemail" label:"Email"`
	}

	if r := Validate(signup{}); r.HasErrors() {
		t.Errorf("empty email should pass omitempty: %v", r.All())
	}
	if r := Validate(signup{Email: "coach@rinkside.org"}); r.HasErrors() {
		t.Errorf("valid email rejected: %v", r.All())
	}
	r := Validate(signup{Email: "Coach <coach@rinkside.org>"})
	if !r.HasErrors() || r.Errors[0].Field != "email" {
		t.Fatalf("display-name email accepted: %+v", r.Errors)
	}
}
