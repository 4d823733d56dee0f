package resolver

import (
	"context"
	"fmt"

	"github.com/latest-version-resolver/pkg/vcs"
	"github.com/latest-version-resolver/pkg/version"
	"github.com/m-mizutani/goerr/v2"
)

type Source string

const (
	SourceRelease Source = "release"
	SourceTags    Source = "tags"
	SourceNone    Source = "none"
)

// Outcome is the tagged result of a single lookup step.
type Outcome struct {
	Found  bool
	Value  string
	Reason string
}

func found(value string) Outcome { return Outcome{Found: true, Value: value} }

func notFound(reason string) Outcome { return Outcome{Reason: reason} }

// Result is what Resolve reports. Version is empty when no version could be
// determined; Reason then says why.
type Result struct {
	Repository vcs.RepositoryRef `json:"repository"`
	Version    string            `json:"version"`
	Source     Source            `json:"source"`
	Reason     string            `json:"reason,omitempty"`
}

// MaxCandidates caps how many of the highest valid tags are reported.
const MaxCandidates = 5

const (
	ReasonNoTags      = "no tags found"
	ReasonNoValidTags = "no valid version tags"
	ReasonUnexpected  = "unexpected error"
)

type Resolver struct {
	client   vcs.RepoClient
	reporter Reporter
	perPage  int
}

type Option func(*Resolver)

func WithReporter(r Reporter) Option {
	return func(x *Resolver) {
		x.reporter = r
	}
}

// WithPerPage sets the tag page size; values outside 1..100 fall back to 100.
func WithPerPage(n int) Option {
	return func(x *Resolver) {
		if n > 0 && n <= vcs.MaxPerPage {
			x.perPage = n
		}
	}
}

func New(client vcs.RepoClient, opts ...Option) *Resolver {
	r := &Resolver{
		client:   client,
		reporter: SlogReporter{},
		perPage:  vcs.MaxPerPage,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetLatestValidVersion resolves the latest valid version tag of owner/repo,
// or "" when none can be determined. It never fails.
func GetLatestValidVersion(ctx context.Context, owner, repo string, client vcs.RepoClient) string {
	return New(client).Resolve(ctx, vcs.RepositoryRef{Owner: owner, Name: repo}).Version
}

// Resolve tries the latest release first and falls back to the newest valid
// tag among the first page of tags.
func (x *Resolver) Resolve(ctx context.Context, ref vcs.RepositoryRef) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			err := goerr.New("panic while resolving version", goerr.V("panic", fmt.Sprint(r)))
			x.reporter.Report(ctx, Event{
				Kind:       EventUnexpectedError,
				Repository: ref,
				Message:    "Error fetching latest version",
				Err:        err,
			})
			result = Result{Repository: ref, Source: SourceNone, Reason: ReasonUnexpected}
		}
	}()

	if x.client == nil {
		x.reporter.Report(ctx, Event{
			Kind:       EventUnexpectedError,
			Repository: ref,
			Message:    "Error fetching latest version",
			Err:        goerr.New("API client is not configured"),
		})
		return Result{Repository: ref, Source: SourceNone, Reason: ReasonUnexpected}
	}

	if out := x.latestRelease(ctx, ref); out.Found {
		return Result{Repository: ref, Version: out.Value, Source: SourceRelease}
	}

	out := x.latestTag(ctx, ref)
	if !out.Found {
		return Result{Repository: ref, Source: SourceNone, Reason: out.Reason}
	}
	return Result{Repository: ref, Version: out.Value, Source: SourceTags}
}

func (x *Resolver) latestRelease(ctx context.Context, ref vcs.RepositoryRef) Outcome {
	release, err := x.client.GetLatestRelease(ctx, ref.Owner, ref.Name)
	if err != nil {
		x.reporter.Report(ctx, Event{
			Kind:       EventReleaseLookupFailed,
			Repository: ref,
			Message:    "Could not fetch latest release, falling back to tags",
			Err:        err,
		})
		return notFound(err.Error())
	}
	if release == nil {
		x.reporter.Report(ctx, Event{
			Kind:       EventReleaseLookupFailed,
			Repository: ref,
			Message:    "Latest release response was empty, falling back to tags",
		})
		return notFound("empty release")
	}

	if !version.IsValidTag(release.TagName) {
		x.reporter.Report(ctx, Event{
			Kind:       EventReleaseTagInvalid,
			Repository: ref,
			Message:    "Latest release tag is not a valid version, falling back to tags",
			Tag:        release.TagName,
		})
		return notFound("invalid release tag")
	}

	x.reporter.Report(ctx, Event{
		Kind:       EventReleaseFound,
		Repository: ref,
		Message:    "Found latest release",
		Tag:        release.TagName,
	})
	return found(release.TagName)
}

func (x *Resolver) latestTag(ctx context.Context, ref vcs.RepositoryRef) Outcome {
	tags, err := x.client.ListTags(ctx, ref.Owner, ref.Name, x.perPage)
	if err != nil {
		x.reporter.Report(ctx, Event{
			Kind:       EventTagListFailed,
			Repository: ref,
			Message:    "Error fetching latest version",
			Err:        err,
		})
		return notFound(ReasonUnexpected)
	}

	if len(tags) == 0 {
		x.reporter.Report(ctx, Event{
			Kind:       EventNoTags,
			Repository: ref,
			Message:    "No tags found",
		})
		return notFound(ReasonNoTags)
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}

	valid := version.Filter(names)
	if len(valid) == 0 {
		x.reporter.Report(ctx, Event{
			Kind:       EventNoValidTags,
			Repository: ref,
			Message:    "No valid version tags found",
			Count:      len(tags),
		})
		return notFound(ReasonNoValidTags)
	}

	version.SortDescending(valid)
	latest := valid[0]
	x.reporter.Report(ctx, Event{
		Kind:       EventTagSelected,
		Repository: ref,
		Message:    "Selected latest version tag",
		Tag:        latest,
		Count:      len(tags),
		Candidates: valid[:min(len(valid), MaxCandidates)],
	})
	return found(latest)
}
