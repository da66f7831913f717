// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jdecode/bsky"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log/level"
)

// profileCommand prints a summary of each getProfile response.
type profileCommand struct {
	*settings
	files *[]string
}

func (cmd *profileCommand) run(*kingpin.ParseContext) error {
	bold := color.New(color.Bold)
	return cmd.forEachFile(*cmd.files, func(name string) error {
		p, err := decodeFile(cmd.settings, name, bsky.ProfileSchema)
		if err != nil {
			return err
		}
		bold.Fprintf(cmd.out, "%s (%s)\n", p.Handle, p.DisplayName)
		fmt.Fprintf(cmd.out, "\tdid: %s\n", p.DID)
		fmt.Fprintf(cmd.out, "\tfollowers: %s, follows: %s, posts: %s, protected: %v\n",
			humanize.Comma(int64(p.FollowersCount)),
			humanize.Comma(int64(p.FollowsCount)),
			humanize.Comma(int64(p.PostsCount)),
			p.Protected())
		return nil
	})
}

func addProfileCommand(app *kingpin.Application, s *settings) {
	cmd := &profileCommand{settings: s}
	c := app.Command("profile", "Summarize app.bsky.actor.getProfile responses.").Action(cmd.run)
	cmd.files = c.Arg("file", "The files to decode.").Required().ExistingFiles()
}

// followsCommand lists the accounts in each getFollows response, numbering
// them with IDs that are stable across all the input files.
type followsCommand struct {
	*settings
	files *[]string
	ids   bsky.IDMap
}

func (cmd *followsCommand) run(*kingpin.ParseContext) error {
	bold := color.New(color.Bold)
	return cmd.forEachFile(*cmd.files, func(name string) error {
		f, err := decodeFile(cmd.settings, name, bsky.FollowsSchema)
		if err != nil {
			return err
		}
		bold.Fprintf(cmd.out, "%s follows %d accounts:\n", f.Subject.Handle, len(f.Follows))
		for i, id := range cmd.ids.Assign(f.Follows) {
			fmt.Fprintf(cmd.out, "\t%d\t%s\t%s\n", id, f.Follows[i].Handle, f.Follows[i].DID)
		}
		if f.Cursor != "" {
			level.Debug(cmd.logger).Log("msg", "more results available", "file", name, "cursor", f.Cursor)
		}
		return nil
	})
}

func addFollowsCommand(app *kingpin.Application, s *settings) {
	cmd := &followsCommand{settings: s}
	c := app.Command("follows", "List accounts from app.bsky.graph.getFollows responses.").Action(cmd.run)
	cmd.files = c.Arg("file", "The files to decode.").Required().ExistingFiles()
}

// feedCommand prints the posts of each getAuthorFeed response.
type feedCommand struct {
	*settings
	files *[]string
	limit int
}

func (cmd *feedCommand) run(*kingpin.ParseContext) error {
	bold := color.New(color.Bold)
	return cmd.forEachFile(*cmd.files, func(name string) error {
		feed, err := decodeFile(cmd.settings, name, bsky.AuthorFeedSchema)
		if err != nil {
			return err
		}
		bold.Fprintf(cmd.out, "%s: %d posts\n", name, len(feed.Feed))
		for i, item := range feed.Feed {
			if cmd.limit > 0 && i == cmd.limit {
				break
			}
			p := item.Post
			fmt.Fprintf(cmd.out, "\t[%s] @%s (%s likes): %q\n",
				p.Record.CreatedAt, p.Author.Handle, humanize.Comma(int64(p.LikeCount)), p.Record.Text)
		}
		return nil
	})
}

func addFeedCommand(app *kingpin.Application, s *settings) {
	cmd := &feedCommand{settings: s}
	c := app.Command("feed", "Print posts from app.bsky.feed.getAuthorFeed responses.").Action(cmd.run)
	c.Flag("limit", "Maximum number of posts to print per file (0 for all).").Default("0").IntVar(&cmd.limit)
	cmd.files = c.Arg("file", "The files to decode.").Required().ExistingFiles()
}
