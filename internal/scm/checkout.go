// Package scm fetches plugin sources for the checkout stage.
package scm

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/compattester/internal/logfields"
)

// Client handles source checkouts into the workspace.
type Client struct {
	depth int // optional shallow clone depth, 0 means full history
}

// NewClient creates a checkout client.
func NewClient() *Client { return &Client{} }

// WithDepth enables shallow clones (fluent helper).
func (c *Client) WithDepth(depth int) *Client { c.depth = depth; return c }

// Clone fetches url into dest, replacing any previous checkout. When branch
// is non-empty only that branch is fetched.
func (c *Client) Clone(url, branch, dest string) error {
	slog.Debug("Cloning plugin sources", slog.String("url", url), slog.String("branch", branch), logfields.Path(dest))
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to remove existing checkout: %w", err)
	}

	opts := &git.CloneOptions{URL: url}
	if branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		opts.SingleBranch = true
	}
	if c.depth > 0 {
		opts.Depth = c.depth
	}
	if _, err := git.PlainClone(dest, false, opts); err != nil {
		return fmt.Errorf("failed to clone %s: %w", url, err)
	}
	return nil
}
