package resolver

import (
	"context"
	"log/slog"

	"github.com/latest-version-resolver/pkg/logging"
	"github.com/latest-version-resolver/pkg/vcs"
)

type EventKind string

const (
	EventReleaseLookupFailed EventKind = "release_lookup_failed"
	EventReleaseTagInvalid   EventKind = "release_tag_invalid"
	EventReleaseFound        EventKind = "release_found"
	EventTagListFailed       EventKind = "tag_list_failed"
	EventNoTags              EventKind = "no_tags"
	EventNoValidTags         EventKind = "no_valid_tags"
	EventTagSelected         EventKind = "tag_selected"
	EventUnexpectedError     EventKind = "unexpected_error"
)

// Event describes a step the resolver took. Events are diagnostic only and
// never change the result.
type Event struct {
	Kind       EventKind
	Repository vcs.RepositoryRef
	Message    string
	Tag        string
	// Count is the number of tags fetched; Candidates the highest valid ones.
	Count      int
	Candidates []string
	Err        error
}

type Reporter interface {
	Report(ctx context.Context, ev Event)
}

type NopReporter struct{}

func (NopReporter) Report(context.Context, Event) {}

// SlogReporter writes events to the logger carried by the context.
type SlogReporter struct{}

func (SlogReporter) Report(ctx context.Context, ev Event) {
	attrs := []any{
		slog.String("event", string(ev.Kind)),
		slog.String("repository", ev.Repository.String()),
	}
	if ev.Tag != "" {
		attrs = append(attrs, slog.String("tag", ev.Tag))
	}
	if ev.Count > 0 {
		attrs = append(attrs, slog.Int("count", ev.Count))
	}
	if len(ev.Candidates) > 0 {
		attrs = append(attrs, slog.Any("candidates", ev.Candidates))
	}

	logger := logging.From(ctx)
	switch ev.Kind {
	case EventUnexpectedError, EventTagListFailed:
		logger.Error(ev.Message, append(attrs, slog.Any("error", ev.Err))...)
	case EventReleaseLookupFailed, EventReleaseTagInvalid, EventNoTags, EventNoValidTags:
		if ev.Err != nil {
			attrs = append(attrs, slog.Any("error", ev.Err))
		}
		logger.Warn(ev.Message, attrs...)
	default:
		logger.Info(ev.Message, attrs...)
	}
}
