package pipeline

import (
	"io"
	"os"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
)

// Parse reads a JSON dataset from r.
func Parse(r io.Reader) (chart.Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read dataset")
	}
	return chart.ParseDataset(b)
}

// ParseFile reads a JSON dataset from path. "-" reads standard input.
func ParseFile(path string) (chart.Dataset, error) {
	if path == "-" {
		return Parse(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Parse(f)
}
