// Package discovery finds instrument, answer and rule documents on disk.
package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileType categorizes discovered files
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeInstrument
	FileTypeAnswers
	FileTypeRules
)

// String returns the human-readable name of the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeInstrument:
		return "instrument"
	case FileTypeAnswers:
		return "answers"
	case FileTypeRules:
		return "rules"
	default:
		return "unknown"
	}
}

// ParseFileType converts a string to a FileType.
func ParseFileType(s string) (FileType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "instrument", "instruments":
		return FileTypeInstrument, nil
	case "answers", "answer":
		return FileTypeAnswers, nil
	case "rules", "rule":
		return FileTypeRules, nil
	default:
		return FileTypeUnknown, fmt.Errorf("invalid type %q: valid types are instrument, answers, rules", s)
	}
}

// TypePattern maps a basename glob to a FileType.
type TypePattern struct {
	Pattern  string
	FileType FileType
}

// typePatterns are matched against a file's basename; first match wins.
var typePatterns = []TypePattern{
	{"*.instrument.yaml", FileTypeInstrument},
	{"*.instrument.yml", FileTypeInstrument},
	{"*.answers.yaml", FileTypeAnswers},
	{"*.answers.yml", FileTypeAnswers},
	{"*.rules.yaml", FileTypeRules},
	{"*.rules.yml", FileTypeRules},
}

// FileTypeEntry defines the discovery configuration for a file type.
type FileTypeEntry struct {
	Type     FileType
	Patterns []string
}

// DefaultFileTypes is the registry of file types and their discovery patterns.
var DefaultFileTypes = []FileTypeEntry{
	{Type: FileTypeInstrument, Patterns: []string{"**/*.instrument.yaml", "**/*.instrument.yml"}},
	{Type: FileTypeAnswers, Patterns: []string{"**/*.answers.yaml", "**/*.answers.yml"}},
	{Type: FileTypeRules, Patterns: []string{"**/*.rules.yaml", "**/*.rules.yml"}},
}

// Entry returns the registry entry for one file type.
func Entry(ft FileType) (FileTypeEntry, bool) {
	for _, e := range DefaultFileTypes {
		if e.Type == ft {
			return e, true
		}
	}
	return FileTypeEntry{}, false
}

// DetectFileType determines the document type from a path's basename.
func DetectFileType(path string) (FileType, error) {
	base := strings.ToLower(filepath.Base(path))
	for _, tp := range typePatterns {
		matched, err := doublestar.Match(tp.Pattern, base)
		if err != nil {
			continue
		}
		if matched {
			return tp.FileType, nil
		}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FileTypeUnknown, fmt.Errorf(
			"cannot determine type: %s is YAML but not named *.instrument.yaml, *.answers.yaml or *.rules.yaml. "+
				"Use --type to specify (instrument, answers, rules)", filepath.Base(path))
	case "":
		return FileTypeUnknown, fmt.Errorf("unsupported file: %s has no extension", filepath.Base(path))
	default:
		return FileTypeUnknown, fmt.Errorf("unsupported file type: %s. spmto reads YAML documents only", ext)
	}
}

// ValidateFilePath checks that path names a readable, non-empty text file and
// returns its absolute, symlink-resolved form.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// File represents a discovered file with its metadata
type File struct {
	Path     string
	RelPath  string
	Size     int64
	Type     FileType
	Contents []byte
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
}

// NewFileDiscovery creates a new FileDiscovery instance
func NewFileDiscovery(rootPath string, followSymlinks bool) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
	}
}

// DiscoverFiles finds every known document under the root.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	return fd.DiscoverFilesWithRegistry(DefaultFileTypes)
}

// DiscoverType finds the documents of one type, ordered by relative path.
func (fd *FileDiscovery) DiscoverType(ft FileType) ([]File, error) {
	entry, ok := Entry(ft)
	if !ok {
		return nil, fmt.Errorf("no discovery patterns for %s", ft)
	}
	return fd.DiscoverFilesWithRegistry([]FileTypeEntry{entry})
}

// DiscoverFilesWithRegistry finds files using a custom registry. Results are
// ordered by relative path and a file matched by two patterns appears once.
func (fd *FileDiscovery) DiscoverFilesWithRegistry(registry []FileTypeEntry) ([]File, error) {
	var files []File
	seen := make(map[string]bool)

	for _, ftc := range registry {
		discovered, err := fd.findFilesByPattern(ftc.Patterns)
		if err != nil {
			return nil, fmt.Errorf("error discovering %s files: %w", ftc.Type.String(), err)
		}
		for _, f := range discovered {
			if seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			f.Type = ftc.Type
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func (fd *FileDiscovery) findFilesByPattern(patterns []string) ([]File, error) {
	var files []File

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			if f, ok := fd.processMatch(match); ok {
				files = append(files, f)
			}
		}
	}

	return files, nil
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, match)

	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		info = resolvedInfo
	}
	if info.IsDir() {
		return File{}, false
	}

	contents, err := os.ReadFile(fullPath)
	if err != nil {
		return File{}, false
	}

	ft, _ := DetectFileType(match)
	return File{
		Path:     fullPath,
		RelPath:  filepath.ToSlash(match),
		Size:     info.Size(),
		Type:     ft,
		Contents: contents,
	}, true
}

// resolveSymlink follows a symlink when configured and only when its target
// stays inside the root.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (os.FileInfo, bool) {
	if !fd.followSymlinks {
		return nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return nil, false
	}
	root, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		return nil, false
	}
	if realPath != root && !strings.HasPrefix(realPath, root+string(filepath.Separator)) {
		return nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, false
	}
	return info, true
}
