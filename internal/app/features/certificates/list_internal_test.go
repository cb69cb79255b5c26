package certificates

import "testing"

func TestDocumentLink(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"https://files.example.com/a.pdf", "https://files.example.com/a.pdf"},
		{"http://files.example.com/a.pdf", "http://files.example.com/a.pdf"},
		{"/uploads/a.pdf", "/uploads/a.pdf"},
		{"", ""},
		{"javascript:alert(1)", ""},
		{"//evil.example.com/a.pdf", ""},
		{"uploads/a.pdf", ""},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := documentLink(tt.ref); got != tt.want {
				t.Errorf("documentLink(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
