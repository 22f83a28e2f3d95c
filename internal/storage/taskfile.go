package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/valter-silva-au/task-cli/pkg/models"
)

const defaultFileMode fs.FileMode = 0o644

// maxLineSize bounds a single record line.
const maxLineSize = 1024 * 1024

// ErrNewlineInText is returned when a record's text would break the
// one-record-per-line format.
var ErrNewlineInText = errors.New("task text must not contain a newline")

// MalformedRecordError reports a stored line whose leading token is not an
// integer priority.
type MalformedRecordError struct {
	Path    string
	Line    int
	Content string
	Err     error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s line %d: malformed record %q: priority must be an integer", filepath.Base(e.Path), e.Line, e.Content)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// TaskFile reads and writes a line-oriented task file where every non-blank
// line is "<priority> <text>".
type TaskFile struct {
	path string
}

// NewTaskFile creates a TaskFile for the given path. The file need not exist.
func NewTaskFile(path string) *TaskFile {
	return &TaskFile{path: path}
}

// Path returns the file's location on disk.
func (f *TaskFile) Path() string {
	return f.path
}

// Load reads every record in file order. A missing file is an empty list.
func (f *TaskFile) Load() ([]models.TaskRecord, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.TaskRecord{}, nil
		}
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(f.path), err)
	}
	defer func() { _ = file.Close() }()

	records := []models.TaskRecord{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, &MalformedRecordError{Path: f.path, Line: lineNo, Content: line, Err: err}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", filepath.Base(f.path), err)
	}
	return records, nil
}

// Save atomically replaces the file with the given records.
func (f *TaskFile) Save(records []models.TaskRecord) error {
	staged, err := f.Stage(records)
	if err != nil {
		return err
	}
	return staged.Commit()
}

// Stage writes records to a synced temporary file next to the target without
// touching the target. The caller must Commit or Discard the result.
func (f *TaskFile) Stage(records []models.TaskRecord) (*StagedWrite, error) {
	data, err := encodeRecords(records)
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", filepath.Base(f.path), err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("saving %s: creating directory: %w", filepath.Base(f.path), err)
	}

	mode := defaultFileMode
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("saving %s: creating temp file: %w", filepath.Base(f.path), err)
	}
	tmpPath := tmp.Name()

	fail := func(step string, err error) (*StagedWrite, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("saving %s: %s: %w", filepath.Base(f.path), step, err)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail("writing temp file", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fail("setting permissions", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return fail("closing temp file", err)
	}

	return &StagedWrite{tmpPath: tmpPath, target: f.path}, nil
}

// Append adds one record to the end of the file, creating it if needed. The
// returned rollback restores the file to its state before the append.
func (f *TaskFile) Append(record models.TaskRecord) (rollback func() error, err error) {
	if containsNewline(record.Text) {
		return nil, fmt.Errorf("appending to %s: %w", filepath.Base(f.path), ErrNewlineInText)
	}

	existed := true
	var prevSize int64
	info, err := os.Stat(f.path)
	switch {
	case err == nil:
		prevSize = info.Size()
	case os.IsNotExist(err):
		existed = false
	default:
		return nil, fmt.Errorf("appending to %s: %w", filepath.Base(f.path), err)
	}

	rollback = func() error {
		if !existed {
			if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("rolling back %s: %w", filepath.Base(f.path), err)
			}
			return nil
		}
		if err := os.Truncate(f.path, prevSize); err != nil {
			return fmt.Errorf("rolling back %s: %w", filepath.Base(f.path), err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return nil, fmt.Errorf("appending to %s: creating directory: %w", filepath.Base(f.path), err)
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("appending to %s: %w", filepath.Base(f.path), err)
	}

	line := []byte(record.String() + "\n")
	if _, err := file.Write(line); err != nil {
		_ = file.Close()
		_ = rollback()
		return nil, fmt.Errorf("appending to %s: %w", filepath.Base(f.path), err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = rollback()
		return nil, fmt.Errorf("appending to %s: syncing: %w", filepath.Base(f.path), err)
	}
	if err := file.Close(); err != nil {
		_ = rollback()
		return nil, fmt.Errorf("appending to %s: closing: %w", filepath.Base(f.path), err)
	}
	return rollback, nil
}

// StagedWrite is a fully written temporary file waiting to replace its target.
type StagedWrite struct {
	tmpPath string
	target  string
	done    bool
}

// Commit renames the temporary file over the target. An error means the
// target was left untouched.
func (s *StagedWrite) Commit() error {
	if s.done {
		return fmt.Errorf("committing %s: already finalized", filepath.Base(s.target))
	}
	if err := os.Rename(s.tmpPath, s.target); err != nil {
		_ = os.Remove(s.tmpPath)
		s.done = true
		return fmt.Errorf("committing %s: %w", filepath.Base(s.target), err)
	}
	s.done = true
	// Best effort: not every platform can fsync a directory.
	_ = syncDir(filepath.Dir(s.target))
	return nil
}

// Discard removes the temporary file. It is a no-op after Commit.
func (s *StagedWrite) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.Remove(s.tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("discarding staged %s: %w", filepath.Base(s.target), err)
	}
	return nil
}

// ParseRecord splits a line into its leading integer priority and the
// trimmed remainder.
func ParseRecord(line string) (models.TaskRecord, error) {
	trimmed := strings.TrimSpace(line)
	head, rest := trimmed, ""
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i >= 0 {
		head, rest = trimmed[:i], trimmed[i:]
	}
	priority, err := strconv.Atoi(head)
	if err != nil {
		return models.TaskRecord{}, fmt.Errorf("parsing priority %q: %w", head, err)
	}
	return models.TaskRecord{Priority: priority, Text: strings.TrimSpace(rest)}, nil
}

func encodeRecords(records []models.TaskRecord) ([]byte, error) {
	var buf bytes.Buffer
	for _, r := range records {
		if containsNewline(r.Text) {
			return nil, ErrNewlineInText
		}
		buf.WriteString(r.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func containsNewline(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("syncing directory: %w", err)
	}
	defer func() { _ = d.Close() }()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("syncing directory: %w", err)
	}
	return nil
}
