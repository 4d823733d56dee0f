package reporter

import (
	"io"

	"github.com/latest-version-resolver/pkg/resolver"
)

type Reporter interface {
	Report(w io.Writer, result resolver.Result) error
}

func New(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	case "github":
		return &GitHubOutputReporter{}
	default:
		return &TableReporter{}
	}
}
