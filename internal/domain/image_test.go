package domain

import "testing"

func TestAllowedImageFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"a.png", true},
		{"b.JPG", true},
		{"c.jpeg", true},
		{"photo.PNG", true},
		{"archive.tar.jpg", true},
		{"noextension", false},
		{"d.gif", false},
		{"e.png.exe", false},
		{"", false},
		{".png", true}, // расширение есть, имя пустое — отсечёт санитизация
	}

	for _, tc := range tests {
		if got := AllowedImageFilename(tc.filename); got != tc.want {
			t.Errorf("AllowedImageFilename(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"x.png", "x.png"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd.png", "passwd.png"},
		{"dir\\sub\\evil.jpg", "evil.jpg"},
		{"..hidden.png", "hidden.png"},
		{"--flag.jpeg", "flag.jpeg"},
		{"прив x.png", "_x.png"},
		{"...", ""},
	}

	for _, tc := range tests {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
