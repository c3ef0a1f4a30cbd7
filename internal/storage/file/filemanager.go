package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// FileManager owns every open file handle for one database directory. All
// reads and writes go through it a block at a time; nothing above this
// layer touches os.File directly.
type FileManager struct {
	dbDirectory string
	blockSize   int
	isNew       bool
	openFiles   map[string]*os.File
	mu          sync.Mutex
	lockFile    *os.File // holds an advisory flock for the process lifetime
}

// NewFileManager opens (creating if necessary) the database directory,
// removes leftover temp files from a prior run, and takes an advisory
// exclusive lock on a LOCK file inside it so a second process can't open
// the same database concurrently and corrupt the log.
func NewFileManager(dbDirectory string, blockSize int) (*FileManager, error) {
	fm := &FileManager{
		dbDirectory: dbDirectory,
		blockSize:   blockSize,
		openFiles:   make(map[string]*os.File),
	}

	info, err := os.Stat(dbDirectory)
	if os.IsNotExist(err) {
		fm.isNew = true
		if err := os.MkdirAll(dbDirectory, 0755); err != nil {
			return nil, fmt.Errorf("cannot create directory: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dbDirectory)
	}

	if !fm.isNew {
		entries, err := os.ReadDir(dbDirectory)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory: %w", err)
		}
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), "temp") {
				path := filepath.Join(dbDirectory, entry.Name())
				if err := os.Remove(path); err != nil {
					return nil, fmt.Errorf("cannot remove temporary file %s: %w", path, err)
				}
			}
		}
	}

	lockFile, err := os.OpenFile(filepath.Join(dbDirectory, "LOCK"), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open lock file: %w", err)
	}
	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		lockFile.Close()
		return nil, fmt.Errorf("database directory %s is already locked by another process: %w", dbDirectory, err)
	}
	fm.lockFile = lockFile

	return fm, nil
}

// Read fills p with the contents of block blk. A short read (past the end
// of the file) zero-fills the rest of the page.
func (fm *FileManager) Read(blk BlockID, p *Page) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	f, err := fm.getFile(blk.FileName())
	if err != nil {
		return fmt.Errorf("cannot get file: %w", err)
	}

	offset := int64(blk.Number()) * int64(fm.blockSize)
	if _, err := f.Seek(offset, 0); err != nil {
		return fmt.Errorf("cannot seek to position: %w", err)
	}

	n, err := io.ReadFull(f, p.contents)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("cannot read block %v: %w", blk, err)
	}
	clear(p.contents[n:])
	return nil
}

// Write persists p to block blk and fsyncs the file, so every write is
// durable before Write returns — the WAL protocol depends on that.
func (fm *FileManager) Write(blk BlockID, p *Page) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	f, err := fm.getFile(blk.FileName())
	if err != nil {
		return fmt.Errorf("cannot get file: %w", err)
	}

	offset := int64(blk.Number()) * int64(fm.blockSize)
	if _, err := f.Seek(offset, 0); err != nil {
		return fmt.Errorf("cannot seek to position: %w", err)
	}

	n, err := f.Write(p.contents)
	if err != nil {
		return fmt.Errorf("cannot write block %v: %w", blk, err)
	}
	if n != fm.blockSize {
		return fmt.Errorf("partial write for block %v: wrote %d bytes, expected %d", blk, n, fm.blockSize)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("cannot sync file: %w", err)
	}
	return nil
}

// Append extends filename by one empty block and returns its BlockID.
func (fm *FileManager) Append(filename string) (BlockID, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	length, err := fm.length(filename)
	if err != nil {
		return BlockID{}, err
	}
	blk := BlockID{filename: filename, blockNumber: length}

	f, err := fm.getFile(filename)
	if err != nil {
		return BlockID{}, fmt.Errorf("cannot get file: %w", err)
	}

	offset := int64(blk.Number()) * int64(fm.blockSize)
	if _, err := f.Seek(offset, 0); err != nil {
		return BlockID{}, fmt.Errorf("cannot seek to position: %w", err)
	}

	n, err := f.Write(make([]byte, fm.blockSize))
	if err != nil {
		return BlockID{}, fmt.Errorf("cannot append block %v: %w", blk, err)
	}
	if n != fm.blockSize {
		return BlockID{}, fmt.Errorf("partial write for block %v: wrote %d bytes, expected %d", blk, n, fm.blockSize)
	}
	if err := f.Sync(); err != nil {
		return BlockID{}, fmt.Errorf("cannot sync file: %w", err)
	}
	return blk, nil
}

// Length returns the number of blocks currently in filename.
func (fm *FileManager) Length(filename string) (int, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.length(filename)
}

func (fm *FileManager) length(filename string) (int, error) {
	f, err := fm.getFile(filename)
	if err != nil {
		return 0, fmt.Errorf("cannot get file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("cannot stat file %s: %w", filename, err)
	}
	return int(info.Size()) / fm.blockSize, nil
}

// getFile returns the cached handle for filename, opening it if necessary.
// Callers must hold fm.mu.
func (fm *FileManager) getFile(filename string) (*os.File, error) {
	if f, ok := fm.openFiles[filename]; ok {
		return f, nil
	}

	path := filepath.Join(fm.dbDirectory, filename)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open file %s: %w", path, err)
	}

	fm.openFiles[filename] = f
	return f, nil
}

// Close closes every open file handle and releases the directory lock.
func (fm *FileManager) Close() error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	var lastErr error
	for name, f := range fm.openFiles {
		if err := f.Close(); err != nil {
			lastErr = fmt.Errorf("error closing %s: %w", name, err)
		}
		delete(fm.openFiles, name)
	}
	if fm.lockFile != nil {
		unix.Flock(int(fm.lockFile.Fd()), unix.LOCK_UN)
		fm.lockFile.Close()
		fm.lockFile = nil
	}
	return lastErr
}

func (fm *FileManager) IsNew() bool {
	return fm.isNew
}

func (fm *FileManager) BlockSize() int {
	return fm.blockSize
}
