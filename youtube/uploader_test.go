package youtube

import (
	"errors"
	"testing"

	"clipcast/types"
)

func TestBuildVideo(t *testing.T) {
	cases := []struct {
		name    string
		meta    types.PublishMetadata
		wantErr bool
	}{
		{"minimal", types.PublishMetadata{Title: "t"}, false},
		{"full", types.PublishMetadata{Title: "t", Description: "d", Tags: []string{"a"}, Privacy: types.PrivacyPublic, CategoryID: "10"}, false},
		{"category by name", types.PublishMetadata{Title: "t", CategoryID: "Gaming"}, false},
		{"missing title", types.PublishMetadata{}, true},
		{"bad privacy", types.PublishMetadata{Title: "t", Privacy: "friends-only"}, true},
		{"bad category", types.PublishMetadata{Title: "t", CategoryID: "999"}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			video, err := buildVideo(c.meta)
			if c.wantErr {
				var invalid *types.InvalidInputError
				if !errors.As(err, &invalid) {
					t.Fatalf("buildVideo error = %v; want InvalidInputError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildVideo error: %v", err)
			}
			if video.Snippet.Title != c.meta.Title {
				t.Fatalf("title = %q; want %q", video.Snippet.Title, c.meta.Title)
			}
			if len(video.Snippet.Tags) == 0 {
				t.Fatal("tags empty; default tag expected")
			}
		})
	}
}

func TestBuildVideoDefaults(t *testing.T) {
	video, err := buildVideo(types.PublishMetadata{Title: "t"})
	if err != nil {
		t.Fatalf("buildVideo error: %v", err)
	}
	if video.Status.PrivacyStatus != string(types.PrivacyUnlisted) {
		t.Fatalf("privacy = %q; want unlisted default", video.Status.PrivacyStatus)
	}
	if video.Snippet.CategoryId != "28" {
		t.Fatalf("category = %q; want 28 default", video.Snippet.CategoryId)
	}
}

func TestSanitiseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10", "10"},
		{"Music", "10"},
		{"Science & Technology", "28"},
		{"999", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := sanitiseCategory(c.in); got != c.want {
			t.Fatalf("sanitiseCategory(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}
