package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/latest-version-resolver/pkg/resolver"
	"github.com/m-mizutani/goerr/v2"
)

// GitHubOutputReporter writes key=value lines in the format GitHub Actions
// reads from the $GITHUB_OUTPUT file.
type GitHubOutputReporter struct{}

func (r *GitHubOutputReporter) Report(w io.Writer, result resolver.Result) error {
	found := "false"
	if result.Version != "" {
		found = "true"
	}
	_, err := fmt.Fprintf(w, "version=%s\nfound=%s\nsource=%s\n", result.Version, found, result.Source)
	return err
}

// AppendGitHubOutput appends the step outputs for result to the file at path.
func AppendGitHubOutput(path string, result resolver.Result) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return goerr.Wrap(err, "failed to open GitHub output file", goerr.V("path", path))
	}
	defer f.Close()

	if err := (&GitHubOutputReporter{}).Report(f, result); err != nil {
		return goerr.Wrap(err, "failed to write GitHub output", goerr.V("path", path))
	}
	return nil
}
