package instagram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"clipcast/types"
)

// graphStub fakes the three Graph API calls of a reel publish.
type graphStub struct {
	mu          sync.Mutex
	statusPolls int
	readyAfter  int    // number of IN_PROGRESS polls before FINISHED
	finalStatus string // FINISHED or ERROR
	published   bool
	publishedID string
	gotVideoURL string
	gotCaption  string
	gotCreation string
}

func (g *graphStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()

		switch {
		case strings.HasSuffix(r.URL.Path, "/media"):
			_ = r.ParseForm()
			g.gotVideoURL = r.PostForm.Get("video_url")
			g.gotCaption = r.PostForm.Get("caption")
			fmt.Fprint(w, `{"id":"container-1"}`)
		case strings.HasSuffix(r.URL.Path, "/media_publish"):
			_ = r.ParseForm()
			g.gotCreation = r.PostForm.Get("creation_id")
			g.published = true
			fmt.Fprintf(w, `{"id":%q}`, g.publishedID)
		default: // status poll
			g.statusPolls++
			status := "IN_PROGRESS"
			if g.statusPolls > g.readyAfter {
				status = g.finalStatus
			}
			fmt.Fprintf(w, `{"status_code":%q}`, status)
		}
	}
}

func newTestClient(server *httptest.Server) *Client {
	c := NewClient("17841000000", server.Client())
	c.BaseURL = server.URL
	c.PollInterval = time.Millisecond
	c.PollTimeout = time.Second
	return c
}

func TestPublishReel(t *testing.T) {
	stub := &graphStub{readyAfter: 2, finalStatus: "FINISHED", publishedID: "media-9"}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := newTestClient(server)
	meta := types.PublishMetadata{Title: "Clip", Tags: []string{"go", "two words"}}

	result, err := client.Publish(context.Background(), "tok", "https://cdn.example/clip.mp4", meta)
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if result.ID != "media-9" {
		t.Fatalf("result.ID = %q; want media-9", result.ID)
	}

	if stub.gotVideoURL != "https://cdn.example/clip.mp4" {
		t.Fatalf("video_url = %q", stub.gotVideoURL)
	}
	if !strings.Contains(stub.gotCaption, "#go") || !strings.Contains(stub.gotCaption, "#twowords") {
		t.Fatalf("caption = %q; hashtags missing or unsquashed", stub.gotCaption)
	}
	if stub.gotCreation != "container-1" {
		t.Fatalf("creation_id = %q; want container-1", stub.gotCreation)
	}
	if stub.statusPolls < 3 {
		t.Fatalf("status polled %d times; want at least 3", stub.statusPolls)
	}
}

func TestPublishContainerError(t *testing.T) {
	stub := &graphStub{readyAfter: 0, finalStatus: "ERROR"}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Publish(context.Background(), "tok", "https://cdn.example/clip.mp4", types.PublishMetadata{Title: "Clip"})

	var pubErr *types.PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("Publish error = %v; want PublishError", err)
	}
	if stub.published {
		t.Fatal("media_publish called after container error")
	}
}

func TestPublishPollTimeoutIsTransient(t *testing.T) {
	stub := &graphStub{readyAfter: 1 << 30, finalStatus: "FINISHED"}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := newTestClient(server)
	client.PollTimeout = 10 * time.Millisecond

	_, err := client.Publish(context.Background(), "tok", "https://cdn.example/clip.mp4", types.PublishMetadata{Title: "Clip"})
	if !types.Retryable(err) {
		t.Fatalf("poll timeout not retryable: %v", err)
	}
	if stub.published {
		t.Fatal("media_publish called after timeout")
	}
}

func TestRecentMediaAndConfirm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.HasSuffix(r.URL.Path, "/media") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[
			{"id":"media-9","caption":"Clip","permalink":"https://instagram.example/p/9","timestamp":"2025-06-01T10:00:00+0000"},
			{"id":"media-8","caption":"Older","permalink":"https://instagram.example/p/8","timestamp":"2025-05-20T10:00:00+0000"}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(server)

	media, err := client.RecentMedia(context.Background(), "tok", 5)
	if err != nil {
		t.Fatalf("RecentMedia error: %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("got %d media; want 2", len(media))
	}
	if media[0].ID != "media-9" || media[0].Permalink != "https://instagram.example/p/9" {
		t.Fatalf("first media = %+v", media[0])
	}

	found, err := client.ConfirmPublished(context.Background(), "tok", "media-8")
	if err != nil {
		t.Fatalf("ConfirmPublished error: %v", err)
	}
	if !found {
		t.Fatal("media-8 not found in recent media")
	}

	found, err = client.ConfirmPublished(context.Background(), "tok", "media-0")
	if err != nil {
		t.Fatalf("ConfirmPublished error: %v", err)
	}
	if found {
		t.Fatal("media-0 reported as published")
	}
}

func TestCaption(t *testing.T) {
	cases := []struct {
		name string
		meta types.PublishMetadata
		want string
	}{
		{"title only", types.PublishMetadata{Title: "t"}, "t"},
		{"with description", types.PublishMetadata{Title: "t", Description: "d"}, "t\n\nd"},
		{"with tags", types.PublishMetadata{Title: "t", Tags: []string{"a b", "c"}}, "t\n\n#ab #c"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := caption(c.meta); got != c.want {
				t.Fatalf("caption = %q; want %q", got, c.want)
			}
		})
	}
}
