package model

import "testing"

func TestFormatSize(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{500, "500 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 << 30, "3.0 GB"},
		{2 << 40, "2.0 TB"},
	}
	for _, c := range cases {
		if got := FormatSize(c.size); got != c.want {
			t.Errorf("FormatSize(%d) = %q, want %q", c.size, got, c.want)
		}
	}
}

func TestFileIcon(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "ri-file-pdf-line"},
		{"photo.JPG", "ri-image-line"},
		{"archive.tar.gz", "ri-file-line"},
		{"notes.md", "ri-markdown-line"},
		{"script.py", "ri-code-line"},
		{"noextension", "ri-file-line"},
		{"", "ri-file-line"},
	}
	for _, c := range cases {
		if got := FileIcon(c.filename); got != c.want {
			t.Errorf("FileIcon(%q) = %q, want %q", c.filename, got, c.want)
		}
	}
}
