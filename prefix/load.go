package prefix

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrSourceUnavailable means the name list could not be read. Callers must
// treat it as fatal; no partial index is ever returned.
var ErrSourceUnavailable = errors.New("prefix: name source unavailable")

// Load reads the whole name list from r and builds the index.
// A source that yields no names is rejected as well.
func Load(r io.Reader) (*Index, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrSourceUnavailable)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	idx := Build(string(data))
	if idx.Len() == 0 {
		return nil, fmt.Errorf("%w: no names found", ErrSourceUnavailable)
	}
	return idx, nil
}

// LoadFile builds the index from the file at path.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()
	idx, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}
