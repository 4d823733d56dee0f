package vcs

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when the requested release or repository does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidRepository is returned when an owner/repo reference cannot be parsed.
var ErrInvalidRepository = errors.New("invalid repository reference")

// MaxPerPage is the largest page size the tags endpoint accepts.
const MaxPerPage = 100

type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

type Release struct {
	TagName string
}

type Tag struct {
	Name   string
	Commit string
}

type RepoClient interface {
	// GetLatestRelease returns the repository's designated latest release.
	// A missing release is reported as an error wrapping ErrNotFound.
	GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error)

	// ListTags returns a single page of at most perPage tags.
	ListTags(ctx context.Context, owner, repo string, perPage int) ([]Tag, error)
}

// ParseRepositoryRef accepts "owner/repo" as well as GitHub URLs such as
// "https://github.com/owner/repo.git".
func ParseRepositoryRef(raw string) (RepositoryRef, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepositoryRef{}, goerr.Wrap(ErrInvalidRepository, "expected owner/repo", goerr.V("value", raw))
	}
	return RepositoryRef{Owner: parts[0], Name: parts[1]}, nil
}
