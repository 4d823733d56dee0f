package reporter

import (
	"encoding/json"
	"io"

	"github.com/latest-version-resolver/pkg/resolver"
)

type JSONReporter struct{}

func (r *JSONReporter) Report(w io.Writer, result resolver.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
