package translation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/graceworks/concord/core"
)

// fileSuffix is how translation documents are named on disk: {CODE}_bible.json.
const fileSuffix = "_bible.json"

// LocalSource loads translation documents from a directory of
// {CODE}_bible.json files.
type LocalSource struct {
	dir string
}

// NewLocalSource creates a source reading from the given directory.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

// Dir returns the directory the source reads from.
func (s *LocalSource) Dir() string {
	return s.dir
}

// Path returns the file path holding the given translation's document.
func (s *LocalSource) Path(code string) string {
	return filepath.Join(s.dir, code+fileSuffix)
}

// Load reads and decodes one translation document. A missing file is
// core.ErrTranslationUnavailable; other read failures propagate as is.
func (s *LocalSource) Load(code string) (Document, error) {
	path := s.Path(code)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (no file at %s)", core.ErrTranslationUnavailable, code, path)
		}
		return nil, fmt.Errorf("reading translation %s: %w", code, err)
	}
	return DecodeDocument(data, path)
}

// List returns the translation codes available locally, in lexical order.
func (s *LocalSource) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+fileSuffix))
	if err != nil {
		return nil, fmt.Errorf("listing translations in %s: %w", s.dir, err)
	}

	codes := make([]string, 0, len(matches))
	for _, match := range matches {
		code := strings.TrimSuffix(filepath.Base(match), fileSuffix)
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}
