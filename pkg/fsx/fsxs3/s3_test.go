package fsxs3

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestS3FileSystem_KeysAndURL(t *testing.T) {
	client := s3.New(s3.Options{Region: "eu-west-1"})

	tests := []struct {
		name   string
		prefix string
		path   string
		want   string
	}{
		{"with prefix", "/avatars/", "u1/a.png", "https://bucket.s3.eu-west-1.amazonaws.com/avatars/u1/a.png"},
		{"no prefix", "", "/u1/a.png", "https://bucket.s3.eu-west-1.amazonaws.com/u1/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewS3FileSystem(client, "bucket", tt.prefix)
			if got := fs.URL(tt.path); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestS3FileSystem_Join(t *testing.T) {
	fs := NewS3FileSystem(s3.New(s3.Options{Region: "us-east-1"}), "b", "")
	if got := fs.Join("avatars", "u1", "..", "u2", "a.png"); got != "avatars/u2/a.png" {
		t.Errorf("Join() = %q", got)
	}
}
