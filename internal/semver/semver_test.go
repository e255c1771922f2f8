package semver

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("extracts version from manifest", func(t *testing.T) {
		t.Parallel()
		manifest := "[package]\nname = \"cfait\"\nversion = \"0.3.2\"\nedition = \"2021\"\n"
		v, err := Parse(manifest)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if v.Major != 0 || v.Minor != 3 || v.Patch != 2 {
			t.Errorf("got %d.%d.%d, want 0.3.2", v.Major, v.Minor, v.Patch)
		}
		if v.String() != "0.3.2" {
			t.Errorf("String() = %q, want \"0.3.2\"", v.String())
		}
	})

	t.Run("missing version is ErrNoVersion", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("[package]\nname = \"cfait\"\n")
		if !errors.Is(err, ErrNoVersion) {
			t.Fatalf("err = %v, want ErrNoVersion", err)
		}
	})

	t.Run("ignores dependency version constraints", func(t *testing.T) {
		t.Parallel()
		manifest := "[dependencies]\nserde = { version = \"1.0.0\" }\n"
		_, err := Parse(manifest)
		if !errors.Is(err, ErrNoVersion) {
			t.Fatalf("err = %v, want ErrNoVersion (indented field must not match)", err)
		}
	})

	t.Run("first match wins", func(t *testing.T) {
		t.Parallel()
		manifest := "version = \"1.2.3\"\nversion = \"9.9.9\"\n"
		v, err := Parse(manifest)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if v.String() != "1.2.3" {
			t.Errorf("got %s, want first match 1.2.3", v)
		}
	})

	t.Run("rejects partial versions", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("version = \"1.2\"\n")
		if !errors.Is(err, ErrNoVersion) {
			t.Fatalf("err = %v, want ErrNoVersion", err)
		}
	})
}

func TestBuildCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version Version
		want    int
	}{
		{Version{0, 3, 2}, 302},
		{Version{0, 0, 0}, 0},
		{Version{1, 0, 0}, 10000},
		{Version{2, 14, 7}, 21407},
		{Version{0, 99, 99}, 9999},
		{Version{10, 99, 99}, 109999},
	}
	for _, tt := range tests {
		if got := tt.version.BuildCode(); got != tt.want {
			t.Errorf("BuildCode(%s) = %d, want %d", tt.version, got, tt.want)
		}
	}
}

// BuildCode must be injective while minor and patch are two-digit.
func TestBuildCodeInjective(t *testing.T) {
	t.Parallel()

	seen := make(map[int]Version)
	for major := 0; major <= 2; major++ {
		for minor := 0; minor <= 99; minor++ {
			for patch := 0; patch <= 99; patch++ {
				v := Version{major, minor, patch}
				code := v.BuildCode()
				if prev, ok := seen[code]; ok {
					t.Fatalf("collision: %s and %s both encode to %d", prev, v, code)
				}
				seen[code] = v
			}
		}
	}
}
