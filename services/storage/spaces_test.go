package storage

import (
	"strings"
	"testing"
)

func testClient() *SpacesClient {
	return &SpacesClient{
		bucket:   "hosteldesk",
		region:   "blr1",
		endpoint: "blr1.digitaloceanspaces.com",
		cdnURL:   "https://cdn.hosteldesk.app",
	}
}

func TestKeyFromURL(t *testing.T) {
	c := testClient()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"origin url", "https://hosteldesk.blr1.digitaloceanspaces.com/students/123_photo.jpg", "students/123_photo.jpg"},
		{"cdn url", "https://cdn.hosteldesk.app/students/123_photo.jpg", "students/123_photo.jpg"},
		{"foreign url", "https://example.com/students/123_photo.jpg", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.KeyFromURL(tt.url); got != tt.want {
				t.Errorf("KeyFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestGetFileURL(t *testing.T) {
	withCDN := testClient()
	if got := withCDN.GetFileURL("menus/1_lunch.png"); got != "https://cdn.hosteldesk.app/menus/1_lunch.png" {
		t.Errorf("GetFileURL with CDN = %q", got)
	}

	noCDN := testClient()
	noCDN.cdnURL = ""
	if got := noCDN.GetFileURL("menus/1_lunch.png"); got != "https://hosteldesk.blr1.digitaloceanspaces.com/menus/1_lunch.png" {
		t.Errorf("GetFileURL without CDN = %q", got)
	}
}

func TestGetFileURLRoundTripsThroughKeyFromURL(t *testing.T) {
	c := testClient()
	key := "staff/1700000000_portrait.webp"
	if got := c.KeyFromURL(c.GetFileURL(key)); got != key {
		t.Errorf("round trip = %q, want %q", got, key)
	}
}

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("students", "photo.jpg")
	if !strings.HasPrefix(key, "students/") {
		t.Errorf("key %q missing prefix", key)
	}
	if !strings.HasSuffix(key, "_photo.jpg") {
		t.Errorf("key %q missing original name and extension", key)
	}
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"a.png", "image/png"},
		{"a.webp", "image/webp"},
		{"import.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"data.csv", "text/csv"},
		{"unknown.bin", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := GetContentType(tt.filename); got != tt.want {
			t.Errorf("GetContentType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestIsImage(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.webp"} {
		if !IsImage(name) {
			t.Errorf("IsImage(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"a.pdf", "b.xlsx", "c", "d.svg"} {
		if IsImage(name) {
			t.Errorf("IsImage(%q) = true, want false", name)
		}
	}
}
