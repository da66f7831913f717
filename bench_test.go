package jdecode_test

import (
	"bytes"
	stdjson "encoding/json"
	"io"
	"os"
	"testing"

	"github.com/creachadair/jdecode"
	"github.com/creachadair/jdecode/bsky"
	"github.com/goccy/go-json"
)

// benchInput returns a large feed response built by repeating the entries of
// the sample feed.
func benchInput(b *testing.B) []byte {
	b.Helper()
	data, err := os.ReadFile("bsky/testdata/feed.json")
	if err != nil {
		b.Fatalf("Reading test input: %v", err)
	}
	var feed struct {
		Cursor string `json:"cursor"`
		Feed   []any  `json:"feed"`
	}
	if err := json.Unmarshal(data, &feed); err != nil {
		b.Fatalf("Unmarshal: %v", err)
	}
	items := feed.Feed
	for len(feed.Feed) < 500 {
		feed.Feed = append(feed.Feed, items...)
	}
	input, err := json.Marshal(feed)
	if err != nil {
		b.Fatalf("Marshal: %v", err)
	}
	b.Logf("Benchmark input: %d bytes", len(input))
	return input
}

// Mirror types for the reflective decoders.
type (
	benchSubject struct {
		DID         string `json:"did"`
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
		Description string `json:"description"`
	}
	benchFeed struct {
		Cursor string `json:"cursor"`
		Feed   []struct {
			Post struct {
				URI    string       `json:"uri"`
				CID    string       `json:"cid"`
				Author benchSubject `json:"author"`
				Record struct {
					CreatedAt string `json:"createdAt"`
					Text      string `json:"text"`
				} `json:"record"`
				ReplyCount  int `json:"replyCount"`
				RepostCount int `json:"repostCount"`
				LikeCount   int `json:"likeCount"`
			} `json:"post"`
		} `json:"feed"`
	}
)

func BenchmarkDecode(b *testing.B) {
	input := benchInput(b)

	b.Run("Std", func(b *testing.B) {
		b.SetBytes(int64(len(input)))
		for b.Loop() {
			var v benchFeed
			if err := stdjson.Unmarshal(input, &v); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	b.Run("Goccy", func(b *testing.B) {
		b.SetBytes(int64(len(input)))
		for b.Loop() {
			var v benchFeed
			if err := json.Unmarshal(input, &v); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	b.Run("Schema", func(b *testing.B) {
		b.SetBytes(int64(len(input)))
		for b.Loop() {
			if _, err := jdecode.Parse(input, bsky.AuthorFeedSchema); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})
}

func BenchmarkLexer(b *testing.B) {
	input := benchInput(b)

	b.Run("Decoder", func(b *testing.B) {
		for b.Loop() {
			dec := stdjson.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Lexer", func(b *testing.B) {
		for b.Loop() {
			lx := jdecode.NewLexer(input)
			for {
				tok, err := lx.Next()
				if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				} else if tok.Kind == jdecode.EOF {
					break
				}
			}
		}
	})

	b.Run("Skip", func(b *testing.B) {
		for b.Loop() {
			if err := jdecode.Skip(jdecode.NewLexer(input)); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})
}
