package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
)

const archiveStamp = "20060102-150405.000"

// RotateOptions bounds a FileWriter's active file and its archives.
type RotateOptions struct {
	MaxSizeMB int
	MaxFiles  int
	// MaxAge rolls the file over after it has been open this long. Zero disables it.
	MaxAge time.Duration
}

// FileWriter appends log lines to a single file and rolls it over into
// gzipped archives named <name>.<stamp>.gz, keeping the newest MaxFiles.
type FileWriter struct {
	mu     sync.Mutex
	path   string
	opts   RotateOptions
	file   *os.File
	size   int64
	opened time.Time
	now    func() time.Time
}

// NewFileWriter opens (or appends to) dir/name.
func NewFileWriter(dir, name string, opts RotateOptions) (*FileWriter, error) {
	if opts.MaxSizeMB <= 0 || opts.MaxFiles <= 0 {
		return nil, fmt.Errorf("log rotation needs a positive size and file count, got %dMB/%d", opts.MaxSizeMB, opts.MaxFiles)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	fw := &FileWriter{path: filepath.Join(dir, name), opts: opts, now: time.Now}
	if err := fw.open(); err != nil {
		return nil, err
	}
	return fw, nil
}

// Path returns the active log file.
func (fw *FileWriter) Path() string {
	return fw.path
}

func (fw *FileWriter) open() error {
	f, err := os.OpenFile(fw.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	fw.file, fw.size, fw.opened = f, info.Size(), fw.now()
	return nil
}

func (fw *FileWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.file == nil {
		return 0, os.ErrClosed
	}
	if fw.due(int64(len(p))) {
		if err := fw.roll(); err != nil {
			return 0, err
		}
	}
	n, err := fw.file.Write(p)
	fw.size += int64(n)
	return n, err
}

// due never rolls an empty file, so one oversized line still lands somewhere.
func (fw *FileWriter) due(next int64) bool {
	if fw.size == 0 {
		return false
	}
	if fw.size+next > int64(fw.opts.MaxSizeMB)<<20 {
		return true
	}
	return fw.opts.MaxAge > 0 && fw.now().Sub(fw.opened) >= fw.opts.MaxAge
}

func (fw *FileWriter) roll() error {
	if err := fw.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	fw.file = nil

	archive := fmt.Sprintf("%s.%s.gz", fw.path, fw.now().UTC().Format(archiveStamp))
	if err := gzipFile(fw.path, archive); err != nil {
		return err
	}
	if err := os.Remove(fw.path); err != nil {
		return fmt.Errorf("remove rolled log: %w", err)
	}
	if err := fw.prune(); err != nil {
		return err
	}
	return fw.open()
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open rolled log: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	zw := gzip.NewWriter(out)
	_, err = io.Copy(zw, in)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("compress %s: %w", src, err)
	}
	return nil
}

// Archives lists rolled files, oldest first.
func (fw *FileWriter) Archives() ([]string, error) {
	matches, err := filepath.Glob(fw.path + ".*.gz")
	if err != nil {
		return nil, err
	}
	// stamps sort lexically
	sort.Strings(matches)
	return matches, nil
}

func (fw *FileWriter) prune() error {
	archives, err := fw.Archives()
	if err != nil {
		return err
	}
	if extra := len(archives) - fw.opts.MaxFiles; extra > 0 {
		for _, old := range archives[:extra] {
			if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("prune %s: %w", old, err)
			}
		}
	}
	return nil
}

// Close closes the active file. Later writes fail with os.ErrClosed.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.file == nil {
		return nil
	}
	err := fw.file.Close()
	fw.file = nil
	return err
}
