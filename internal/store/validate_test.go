package store

import "testing"

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?q=1",
		"https://sub.example.com:8443/deep/path",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("%q: unexpected error: %v", u, err)
		}
	}

	invalid := []string{
		"",
		"not-a-url",
		"example.com",
		"ftp://example.com/file",
		"https://",
		"://missing-scheme",
	}
	for _, u := range invalid {
		if err := ValidateURL(u); err != ErrURLInvalid {
			t.Errorf("%q: err = %v, want ErrURLInvalid", u, err)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	for _, u := range []string{"abc", "Alice99", "X1Y2Z3"} {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("%q: unexpected error: %v", u, err)
		}
	}
	for _, u := range []string{"", "ab", "a b", "alice!", "tab\tname"} {
		if err := ValidateUsername(u); err != ErrUsernameInvalid {
			t.Errorf("%q: err = %v, want ErrUsernameInvalid", u, err)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	for _, e := range []string{"a@example.com", "first.last@sub.example.org"} {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("%q: unexpected error: %v", e, err)
		}
	}
	for _, e := range []string{"", "plain", "@example.com", "Alice <a@example.com>"} {
		if err := ValidateEmail(e); err != ErrEmailInvalid {
			t.Errorf("%q: err = %v, want ErrEmailInvalid", e, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("123456"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePassword("12345"); err != ErrPasswordTooShort {
		t.Errorf("err = %v, want ErrPasswordTooShort", err)
	}
}
