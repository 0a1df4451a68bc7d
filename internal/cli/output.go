package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/fiberflow/pkg/errors"
)

// errInvalidFlag reports a flag value outside its allowed set.
func errInvalidFlag(flag, value string, allowed ...string) error {
	return errors.New(errors.ErrCodeInvalidInput, "invalid --%s %q (must be one of: %s)", flag, value, strings.Join(allowed, ", "))
}

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit writes the rendered output to path, or to w when path is empty.
// Files are written unstyled. It reports whether a file was written.
func emit(w io.Writer, path string, render func(w io.Writer, styled bool) error) (bool, error) {
	if path == "" {
		return false, render(w, true)
	}
	var buf bytes.Buffer
	if err := render(&buf, false); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
	}
	return true, nil
}
