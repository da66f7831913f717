// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bsky_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/creachadair/jdecode"
	"github.com/creachadair/jdecode/bsky"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func mustRead(t testing.TB, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Read test data: %v", err)
	}
	return data
}

func TestParseProfile(t *testing.T) {
	got, err := bsky.ParseProfile(mustRead(t, "profile.json"))
	if err != nil {
		t.Fatalf("ParseProfile: unexpected error: %v", err)
	}
	want := bsky.Profile{
		DID:            "did:plc:z72i7hdynmk6r22z27h6tvur",
		Handle:         "bsky.app",
		DisplayName:    "Bluesky",
		Description:    "official Bluesky account (check username👆)\n\nBugs, feature requests, feedback: support@bsky.app",
		FollowersCount: 27164592,
		FollowsCount:   6,
		PostsCount:     612,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseProfile: (-want, +got)\n%s", diff)
	}
	if got.Protected() {
		t.Error("Protected: got true, want false")
	}
}

func TestParseFollows(t *testing.T) {
	got, err := bsky.ParseFollows(mustRead(t, "follows.json"))
	if err != nil {
		t.Fatalf("ParseFollows: unexpected error: %v", err)
	}
	want := bsky.Follows{
		Subject: bsky.Subject{
			DID:         "did:plc:z72i7hdynmk6r22z27h6tvur",
			Handle:      "bsky.app",
			DisplayName: "Bluesky",
			Description: "official Bluesky account",
		},
		Follows: []bsky.Subject{{
			DID:         "did:plc:oky5czdrnfjpqslsw2a5iclo",
			Handle:      "jay.bsky.team",
			DisplayName: "Jay 🦋",
			Description: "CEO of Bluesky, steward of AT Protocol. \n\nLet’s build a federated republic, starting with this server. 🌱 🪴 🌳 ",
		}, {
			DID:         "did:plc:vjug55kidv6sye7ykr5faxxn",
			Handle:      "emilyliu.me",
			DisplayName: "Emily",
			Description: `"head of growth" \ strategy @bsky.app`,
		}, {
			DID:    "did:plc:vpkhqolt662uhesyj6nxm7ys",
			Handle: "why.bsky.team",
		}},
		Cursor: "3jui7akfgh22p",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseFollows: (-want, +got)\n%s", diff)
	}
}

func TestParseAuthorFeed(t *testing.T) {
	got, err := bsky.ParseAuthorFeed(mustRead(t, "feed.json"))
	if err != nil {
		t.Fatalf("ParseAuthorFeed: unexpected error: %v", err)
	}
	author := bsky.Subject{DID: "did:plc:z72i7hdynmk6r22z27h6tvur", Handle: "bsky.app"}
	first := author
	first.DisplayName = "Bluesky"
	want := bsky.AuthorFeed{
		Cursor: "2025-01-07T01:02:03Z",
		Feed: []bsky.FeedItem{{Post: bsky.Post{
			URI:    "at://did:plc:z72i7hdynmk6r22z27h6tvur/app.bsky.feed.post/3lfiptkpxes2e",
			CID:    "bafyreib2tsq6pk4wt7mmoxj4ydmjxtxxnzlhjbq4l4fsrvwd3z7uc6a6pe",
			Author: first,
			Record: bsky.PostRecord{
				CreatedAt: "2025-01-10T19:32:11.504Z",
				Text:      "Starter packs now support up to 150 accounts!\nShare yours with the \"#starterpack\" tag: bsky.social/about/blog",
			},
			ReplyCount:  412,
			RepostCount: 1893,
			LikeCount:   11732,
		}}, {Post: bsky.Post{
			URI:         "at://did:plc:z72i7hdynmk6r22z27h6tvur/app.bsky.feed.post/3lf7zjbzfmk2c",
			CID:         "bafyreihwpmqgmx2qhbtt35kxjhm3isxbfzoqmjnrwsyivspzk77eyeqaaa",
			Author:      author,
			Record:      bsky.PostRecord{CreatedAt: "2025-01-07T01:02:03.000Z", Text: "café ☕ 😀"},
			RepostCount: 5,
			LikeCount:   77,
		}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseAuthorFeed: (-want, +got)\n%s", diff)
	}
	if diff := cmp.Diff([]string{want.Feed[0].Post.Record.Text, "café ☕ 😀"}, got.Texts()); diff != "" {
		t.Errorf("Texts: (-want, +got)\n%s", diff)
	}
}

// Mirror types for decoding the test data with a reflective decoder.
type (
	jsonSubject struct {
		DID         string `json:"did"`
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
		Description string `json:"description"`
	}
	jsonFollows struct {
		Subject jsonSubject   `json:"subject"`
		Follows []jsonSubject `json:"follows"`
		Cursor  string        `json:"cursor"`
	}
)

func TestMatchesReflectiveDecoder(t *testing.T) {
	data := mustRead(t, "follows.json")

	var ref jsonFollows
	if err := json.Unmarshal(data, &ref); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	got, err := bsky.ParseFollows(data)
	if err != nil {
		t.Fatalf("ParseFollows: unexpected error: %v", err)
	}
	conv := func(s jsonSubject) bsky.Subject { return bsky.Subject(s) }
	want := bsky.Follows{Subject: conv(ref.Subject), Cursor: ref.Cursor}
	for _, f := range ref.Follows {
		want.Follows = append(want.Follows, conv(f))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseFollows: (-want, +got)\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		parse func([]byte) error
		want  error
	}{
		{`{"did": 1}`, parseProfile, jdecode.ErrSyntax},
		{`{"followsCount": "6"}`, parseProfile, jdecode.ErrSyntax},
		{`{"followsCount": 6`, parseProfile, jdecode.ErrTruncated},
		{`{"followersCount": 99999999999999999999}`, parseProfile, jdecode.ErrRange},
		{`{"rating": 4.5}`, parseProfile, jdecode.ErrLex},
		{`{} {}`, parseProfile, jdecode.ErrTrailing},
		{`{"follows": {}}`, parseFollows, jdecode.ErrSyntax},
		{`{"subject": {"did": null}}`, parseFollows, jdecode.ErrSyntax},
		{`{"follows": [{"handle": "a"},]}`, parseFollows, jdecode.ErrSyntax},
		{`{"feed": [{"post": {"record": {"text": "x}}]}`, parseFeed, jdecode.ErrTruncated},
		{`{"feed": [{"post": {"likeCount": -1}}]}`, parseFeed, jdecode.ErrLex},
	}
	for _, test := range tests {
		err := test.parse([]byte(test.input))
		if !errors.Is(err, test.want) {
			t.Errorf("Parse %#q: got %v, want %v", test.input, err, test.want)
		}
	}
}

func parseProfile(data []byte) error { _, err := bsky.ParseProfile(data); return err }
func parseFollows(data []byte) error { _, err := bsky.ParseFollows(data); return err }
func parseFeed(data []byte) error    { _, err := bsky.ParseAuthorFeed(data); return err }

func TestProtected(t *testing.T) {
	for _, n := range []int{0, -1} {
		if p := (bsky.Profile{FollowsCount: n}); !p.Protected() {
			t.Errorf("Protected(%d): got false, want true", n)
		}
	}
	if p := (bsky.Profile{FollowsCount: 1}); p.Protected() {
		t.Error("Protected(1): got true, want false")
	}
}

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"alice", "alice.bsky.social"},
		{"alice.bsky.social", "alice.bsky.social"},
		{"example.com", "example.com"},
		{"", ".bsky.social"},
	}
	for _, test := range tests {
		if got := bsky.NormalizeHandle(test.input); got != test.want {
			t.Errorf("NormalizeHandle(%q): got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestIDMap(t *testing.T) {
	var m bsky.IDMap
	if _, ok := m.DID(0); ok {
		t.Error("DID(0) on empty map: got true, want false")
	}

	ids := m.Assign([]bsky.Subject{{DID: "did:a"}, {DID: "did:b"}, {DID: "did:a"}, {DID: "did:c"}})
	if diff := cmp.Diff([]int{0, 1, 0, 2}, ids); diff != "" {
		t.Errorf("Assign: (-want, +got)\n%s", diff)
	}
	for id, want := range []string{"did:a", "did:b", "did:c"} {
		if got, ok := m.DID(id); !ok || got != want {
			t.Errorf("DID(%d): got %q, %v; want %q, true", id, got, ok, want)
		}
	}
	if _, ok := m.DID(-1); ok {
		t.Error("DID(-1): got true, want false")
	}
	if _, ok := m.DID(3); ok {
		t.Error("DID(3): got true, want false")
	}

	t.Run("Concurrent", func(t *testing.T) {
		var m bsky.IDMap
		const workers, perWorker = 8, 50

		var wg sync.WaitGroup
		for w := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range perWorker {
					// Each DID is requested by two workers.
					m.ID(fmt.Sprintf("did:%d", (w/2)*perWorker+i))
				}
			}()
		}
		wg.Wait()

		if got, want := m.Len(), workers/2*perWorker; got != want {
			t.Errorf("Len: got %d, want %d", got, want)
		}
		seen := make(map[string]bool)
		for id := range m.Len() {
			did, ok := m.DID(id)
			if !ok {
				t.Fatalf("DID(%d) not found", id)
			}
			if seen[did] {
				t.Errorf("DID %q assigned more than once", did)
			}
			seen[did] = true
			if got := m.ID(did); got != id {
				t.Errorf("ID(%q): got %d, want %d", did, got, id)
			}
		}
	})
}

func BenchmarkParseAuthorFeed(b *testing.B) {
	data := mustRead(b, "feed.json")
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		if _, err := bsky.ParseAuthorFeed(data); err != nil {
			b.Fatalf("ParseAuthorFeed: %v", err)
		}
	}
}
