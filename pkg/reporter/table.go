package reporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/latest-version-resolver/pkg/resolver"
)

type TableReporter struct{}

func (r *TableReporter) Report(w io.Writer, result resolver.Result) error {
	if result.Version == "" {
		_, err := fmt.Fprintf(w, "No version found for %s: %s\n", result.Repository, result.Reason)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REPOSITORY\tVERSION\tSOURCE")
	fmt.Fprintf(tw, "%s\t%s\t%s\n", result.Repository, result.Version, result.Source)
	return tw.Flush()
}
