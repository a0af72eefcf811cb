// internal/env/env.go
//
// env is the on-disk scaffold described by original_source/ytree.c's
// struct env / ytree_env_init: an 8-byte header, a schema area of
// MaxSchemas fixed-size slots, and a first allocated page. The header layout is
// grounded on that struct; the binary framing (fixed-size struct written
// with encoding/binary in one shot) is grounded on the teacher's
// PageHeader in internal/storage/page_storage.go, which lays out its own
// fixed-size page header the same way before writing it with
// binary.Write.
//
// Only the create-new-file path is implemented. Opening an existing
// file mirrors the source's own unimplemented branch (ytree_env_init's
// assert(0) on file_exist(dbname)) by returning ErrReadBackUnsupported:
// no disk format is inferred from existing bytes.
package env

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

const (
	// header is the fixed 8-byte magic written at offset 0, matching
	// the source's DBHEADER "YTREE01" null-padded to 8 bytes.
	header = "YTREE01\x00"

	// DefaultPageSize matches the source's DEFAULT_PAGE_SIZE.
	DefaultPageSize = 1024

	// MaxSchemas bounds the number of database slots a single
	// environment file can describe. The source derives its schema
	// area size from page_size/128; we fix it instead so the schema
	// area has a size independent of page size tuning.
	MaxSchemas = 16

	headerSize = 8 + 4 + 2 + 1 // header + schemaOffset + pageSize + flags
	schemaSize = 2 + 1 + 4 + 2 // id + type + root + order, matching struct schema
)

// OpenFlags mirrors the source's bitmap of tree options. FlagHash
// aliases the same bit the source gives INDEX_HASH/DB_FLAG_DUPLICATE;
// Open accepts it but never builds anything but a B+-tree-backed
// environment, since hash indexing has no implementation to select.
type OpenFlags uint8

const FlagHash OpenFlags = 0x01

// ErrReadBackUnsupported is returned by Open when path already exists.
// Reconstructing an environment from its on-disk bytes is not
// implemented.
var ErrReadBackUnsupported = errors.New("ytree/env: reading an existing environment file is not supported")

// fileHeader is the fixed-size structure written at the start of a new
// environment file, matching the source's struct env (storage-only:
// the page_size/flags fields here describe the file, not an in-memory
// tree).
type fileHeader struct {
	Magic        [8]byte
	SchemaOffset uint32
	PageSize     uint16
	Flags        uint8
}

// schemaSlot is the on-disk record describing one database within an
// environment, matching the source's struct schema.
type schemaSlot struct {
	ID    uint16
	Type  uint8
	Root  uint32
	Order uint16
}

// Env is a handle to an environment file.
type Env struct {
	f        *os.File
	path     string
	pageSize int
	flags    OpenFlags
	locker   fileLocker
}

// Open creates a new environment file at path, writing its header, an
// empty MaxSchemas-slot schema area, and a first allocated page. It
// returns ErrReadBackUnsupported if path already exists.
func Open(path string, flags OpenFlags) (*Env, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, ErrReadBackUnsupported
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("ytree/env: stat %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("ytree/env: create %s: %w", path, err)
	}

	e := &Env{f: f, path: path, pageSize: DefaultPageSize, flags: flags}

	locker, err := lockFile(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ytree/env: lock %s: %w", path, err)
	}
	e.locker = locker

	schemaOffset := uint32(headerSize)
	if err := e.writeHeader(schemaOffset); err != nil {
		e.Close()
		return nil, err
	}
	if err := e.writeSchema(schemaOffset); err != nil {
		e.Close()
		return nil, err
	}
	if err := e.allocPage(1); err != nil {
		e.Close()
		return nil, err
	}

	return e, nil
}

func (e *Env) writeHeader(schemaOffset uint32) error {
	var buf bytes.Buffer
	var magic [8]byte
	copy(magic[:], header)

	fh := fileHeader{
		Magic:        magic,
		SchemaOffset: schemaOffset,
		PageSize:     uint16(e.pageSize),
		Flags:        uint8(e.flags),
	}
	if err := binary.Write(&buf, binary.LittleEndian, fh); err != nil {
		return fmt.Errorf("ytree/env: encode header: %w", err)
	}
	if _, err := e.f.WriteAt(buf.Bytes(), 0); err != nil {
		return fmt.Errorf("ytree/env: write header: %w", err)
	}
	return e.f.Sync()
}

func (e *Env) writeSchema(offset uint32) error {
	var buf bytes.Buffer
	for i := 0; i < MaxSchemas; i++ {
		if err := binary.Write(&buf, binary.LittleEndian, schemaSlot{}); err != nil {
			return fmt.Errorf("ytree/env: encode schema slot %d: %w", i, err)
		}
	}
	if _, err := e.f.WriteAt(buf.Bytes(), int64(offset)); err != nil {
		return fmt.Errorf("ytree/env: write schema: %w", err)
	}
	return e.f.Sync()
}

// allocPage extends the file to hold n pages by writing a single
// sentinel byte at the last page's final offset, matching the source's
// env_alloc_page (seek to (n*page_size)-1, write one byte).
func (e *Env) allocPage(n int) error {
	offset := int64(n*e.pageSize) - 1
	if _, err := e.f.WriteAt([]byte{byte(n)}, offset); err != nil {
		return fmt.Errorf("ytree/env: alloc page %d: %w", n, err)
	}
	return e.f.Sync()
}

// PageSize returns the environment's page size in bytes.
func (e *Env) PageSize() int {
	return e.pageSize
}

// WritePage writes data (truncated or zero-padded to PageSize) to the
// n'th page, n >= 1 (page 0 is the header/schema area). This is the
// page-addressed write half of the scaffold internal/bench exercises
// for its on-disk hash-vs-scan comparison.
func (e *Env) WritePage(n int, data []byte) error {
	if n < 1 {
		return fmt.Errorf("ytree/env: page number %d must be >= 1", n)
	}
	buf := make([]byte, e.pageSize)
	copy(buf, data)
	if _, err := e.f.WriteAt(buf, int64(n)*int64(e.pageSize)); err != nil {
		return fmt.Errorf("ytree/env: write page %d: %w", n, err)
	}
	return nil
}

// ReadPage reads the n'th page's raw PageSize bytes.
func (e *Env) ReadPage(n int) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("ytree/env: page number %d must be >= 1", n)
	}
	buf := make([]byte, e.pageSize)
	if _, err := e.f.ReadAt(buf, int64(n)*int64(e.pageSize)); err != nil {
		return nil, fmt.Errorf("ytree/env: read page %d: %w", n, err)
	}
	return buf, nil
}

// Path returns the path the environment file was opened at.
func (e *Env) Path() string {
	return e.path
}

// Close flushes and releases the environment's file handle and, on
// platforms where advisory locking is implemented, its lock.
func (e *Env) Close() error {
	var errs []error
	if e.locker != nil {
		if err := e.locker.unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.f.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("ytree/env: close %s: %w", e.path, errs[0])
	}
	return nil
}
