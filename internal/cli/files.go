package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/pipeline"
)

// stdio names standard input or output in path arguments.
const stdio = "-"

// readSnapshot reads a snapshot file, or stdin for "-".
func readSnapshot(path string) ([]byte, error) {
	if path == stdio {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// loadTree reads and validates a snapshot file.
func loadTree(path string) (*mindmap.Tree, error) {
	data, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	t, err := mindmap.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// writeOutput writes data to path, or stdout for "-". Parent directories
// are created. The write goes through a temp file so a failed render
// never truncates an existing output.
func writeOutput(path string, data []byte) error {
	if path == stdio {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "create %s", dir)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	return nil
}

// basePath derives the output base from -o or the input name. A known
// format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == stdio {
			return "mindmap"
		}
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".mindmap")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file: output itself for a single
// format with an explicit name, base.format otherwise.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
