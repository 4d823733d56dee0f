package vcs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/m-mizutani/goerr/v2"
)

type GitHubClient struct {
	client *github.Client
}

var _ RepoClient = (*GitHubClient)(nil)

func NewGitHubClient(client *github.Client) *GitHubClient {
	return &GitHubClient{client: client}
}

const defaultAPIURL = "https://api.github.com"

// NewClient builds a go-github client. An empty token means anonymous access;
// a non-empty baseURL points the client at a GitHub Enterprise server.
func NewClient(token, baseURL string) (*github.Client, error) {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != "" && strings.TrimSuffix(baseURL, "/") != defaultAPIURL {
		c, err := client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API URL", goerr.V("url", baseURL))
		}
		client = c
	}
	return client, nil
}

func (g *GitHubClient) GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	release, resp, err := g.client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		if isNotFound(resp, err) {
			return nil, goerr.Wrap(ErrNotFound, "no latest release",
				goerr.V("owner", owner), goerr.V("repo", repo))
		}
		return nil, goerr.Wrap(err, "failed to get latest release",
			goerr.V("owner", owner), goerr.V("repo", repo))
	}
	if release == nil {
		return nil, goerr.Wrap(ErrNotFound, "empty latest release response",
			goerr.V("owner", owner), goerr.V("repo", repo))
	}
	return &Release{TagName: release.GetTagName()}, nil
}

func (g *GitHubClient) ListTags(ctx context.Context, owner, repo string, perPage int) ([]Tag, error) {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	opts := &github.ListOptions{PerPage: perPage}

	tags, _, err := g.client.Repositories.ListTags(ctx, owner, repo, opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tags",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("perPage", perPage))
	}

	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, Tag{
			Name:   t.GetName(),
			Commit: t.GetCommit().GetSHA(),
		})
	}
	return out, nil
}

func isNotFound(resp *github.Response, err error) bool {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == http.StatusNotFound
	}
	return false
}
