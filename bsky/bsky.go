// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package bsky defines records and decoding schemas for responses from the
// public Bluesky API.
//
// The supported responses are:
//
//	app.bsky.actor.getProfile    ParseProfile
//	app.bsky.graph.getFollows    ParseFollows
//	app.bsky.feed.getAuthorFeed  ParseAuthorFeed
//
// Only the fields described here are decoded. Other fields of the responses
// are skipped.
package bsky

import (
	"strings"
	"sync"

	"github.com/creachadair/jdecode"
)

// A Profile is the detailed view of an actor returned by getProfile.
type Profile struct {
	DID            string
	Handle         string
	DisplayName    string
	Description    string
	FollowersCount int
	FollowsCount   int
	PostsCount     int
}

// Protected reports whether p should be treated as a protected account.
// An actor who follows nobody is considered protected.
func (p Profile) Protected() bool { return p.FollowsCount <= 0 }

// ProfileSchema describes a getProfile response.
var ProfileSchema = jdecode.Record(
	jdecode.Field("did", jdecode.Str(), func(p *Profile, s string) { p.DID = s }),
	jdecode.Field("handle", jdecode.Str(), func(p *Profile, s string) { p.Handle = s }),
	jdecode.Field("displayName", jdecode.Str(), func(p *Profile, s string) { p.DisplayName = s }),
	jdecode.Field("description", jdecode.Str(), func(p *Profile, s string) { p.Description = s }),
	jdecode.Field("followersCount", jdecode.Int[int](), func(p *Profile, n int) { p.FollowersCount = n }),
	jdecode.Field("followsCount", jdecode.Int[int](), func(p *Profile, n int) { p.FollowsCount = n }),
	jdecode.Field("postsCount", jdecode.Int[int](), func(p *Profile, n int) { p.PostsCount = n }),
)

// ParseProfile decodes a getProfile response.
func ParseProfile(data []byte) (Profile, error) { return jdecode.Parse(data, ProfileSchema) }

// A Subject is the basic view of an actor, as it appears in lists.
type Subject struct {
	DID         string
	Handle      string
	DisplayName string
	Description string
}

// DecodeField implements the jdecode.FieldDecoder interface.
func (s *Subject) DecodeField(lx *jdecode.Lexer, key string) (ok bool, err error) {
	var dst *string
	switch key {
	case "did":
		dst = &s.DID
	case "handle":
		dst = &s.Handle
	case "displayName":
		dst = &s.DisplayName
	case "description":
		dst = &s.Description
	default:
		return false, nil
	}
	*dst, err = jdecode.Decode(lx, jdecode.Str())
	return true, err
}

// SubjectSchema describes an actor view.
var SubjectSchema = jdecode.Object[Subject]()

// Follows is the response from getFollows: the actor and the accounts it
// follows. A non-empty Cursor means more results are available.
type Follows struct {
	Subject Subject
	Follows []Subject
	Cursor  string
}

// FollowsSchema describes a getFollows response.
var FollowsSchema = jdecode.Record(
	jdecode.Field("subject", SubjectSchema, func(f *Follows, s Subject) { f.Subject = s }),
	jdecode.Field("follows", jdecode.SliceOf(SubjectSchema), func(f *Follows, ss []Subject) { f.Follows = ss }),
	jdecode.Field("cursor", jdecode.Str(), func(f *Follows, s string) { f.Cursor = s }),
)

// ParseFollows decodes a getFollows response.
func ParseFollows(data []byte) (Follows, error) { return jdecode.Parse(data, FollowsSchema) }

// A PostRecord is the content of a post.
type PostRecord struct {
	CreatedAt string
	Text      string
}

// A Post is a post with its metadata.
type Post struct {
	URI         string
	CID         string
	Author      Subject
	Record      PostRecord
	ReplyCount  int
	RepostCount int
	LikeCount   int
}

// A FeedItem is a single entry of a feed.
type FeedItem struct {
	Post Post
}

// AuthorFeed is the response from getAuthorFeed. A non-empty Cursor means
// more results are available.
type AuthorFeed struct {
	Cursor string
	Feed   []FeedItem
}

// Texts returns the text of each post in the feed, in order.
func (a AuthorFeed) Texts() []string {
	out := make([]string, len(a.Feed))
	for i, item := range a.Feed {
		out[i] = item.Post.Record.Text
	}
	return out
}

var postRecordSchema = jdecode.Record(
	jdecode.Field("createdAt", jdecode.Str(), func(r *PostRecord, s string) { r.CreatedAt = s }),
	jdecode.Field("text", jdecode.Str(), func(r *PostRecord, s string) { r.Text = s }),
)

// PostSchema describes a post view.
var PostSchema = jdecode.Record(
	jdecode.Field("uri", jdecode.Str(), func(p *Post, s string) { p.URI = s }),
	jdecode.Field("cid", jdecode.Str(), func(p *Post, s string) { p.CID = s }),
	jdecode.Field("author", SubjectSchema, func(p *Post, s Subject) { p.Author = s }),
	jdecode.Field("record", postRecordSchema, func(p *Post, r PostRecord) { p.Record = r }),
	jdecode.Field("replyCount", jdecode.Int[int](), func(p *Post, n int) { p.ReplyCount = n }),
	jdecode.Field("repostCount", jdecode.Int[int](), func(p *Post, n int) { p.RepostCount = n }),
	jdecode.Field("likeCount", jdecode.Int[int](), func(p *Post, n int) { p.LikeCount = n }),
)

// AuthorFeedSchema describes a getAuthorFeed response.
var AuthorFeedSchema = jdecode.Record(
	jdecode.Field("cursor", jdecode.Str(), func(a *AuthorFeed, s string) { a.Cursor = s }),
	jdecode.Field("feed", jdecode.SliceOf(jdecode.Record(
		jdecode.Field("post", PostSchema, func(f *FeedItem, p Post) { f.Post = p }),
	)), func(a *AuthorFeed, items []FeedItem) { a.Feed = items }),
)

// ParseAuthorFeed decodes a getAuthorFeed response.
func ParseAuthorFeed(data []byte) (AuthorFeed, error) { return jdecode.Parse(data, AuthorFeedSchema) }

// NormalizeHandle returns h as a fully-qualified handle. A handle without a
// domain is assumed to belong to bsky.social.
func NormalizeHandle(h string) string {
	if !strings.Contains(h, ".") {
		return h + ".bsky.social"
	}
	return h
}

// An IDMap assigns dense integer IDs to DIDs, in order of first appearance.
// A zero IDMap is ready for use, and it is safe for concurrent use.
type IDMap struct {
	mu    sync.Mutex
	dids  []string
	index map[string]int
}

// ID returns the ID assigned to did, assigning a new one if necessary.
func (m *IDMap) ID(did string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.index[did]; ok {
		return id
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	id := len(m.dids)
	m.dids = append(m.dids, did)
	m.index[did] = id
	return id
}

// DID returns the DID assigned the given id, and reports whether it exists.
func (m *IDMap) DID(id int) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 0 || id >= len(m.dids) {
		return "", false
	}
	return m.dids[id], true
}

// Len reports the number of DIDs assigned IDs in m.
func (m *IDMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.dids)
}

// Assign assigns IDs to the DIDs of each of the given subjects, and returns
// the IDs in the same order.
func (m *IDMap) Assign(subjects []Subject) []int {
	ids := make([]int, len(subjects))
	for i, s := range subjects {
		ids[i] = m.ID(s.DID)
	}
	return ids
}
