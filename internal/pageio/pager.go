// Package pageio implements the paged-file abstraction that underlies the
// B+tree: a sparse in-memory cache of fixed-size page slots, backed by a
// single data file, materialised lazily and flushed on close.
package pageio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"pagedb/internal/dblog"
)

// PageSize is the fixed size of every page in a table's data file.
const PageSize = 1024

// MaxPages bounds how many pages a single table file may grow to. Exceeding
// it is a fatal condition: there is no reclamation strategy, so letting a
// table grow without bound would eventually corrupt the page-number space.
const MaxPages = 256

// PageNum identifies a page within a data file. Zero denotes "null": the
// metadata page is never a B+tree node, so node links never point at it.
type PageNum uint32

// Null is the zero PageNum, used for absent parent/child links.
const Null PageNum = 0

func (n PageNum) IsNull() bool { return n == Null }

// Page is one fixed-size, 8-byte aligned slot. The pager never moves a
// materialised Page once handed out, so callers may hold onto *Page across
// further pager calls without fear of invalidation.
type Page struct {
	buf [PageSize]byte
}

// Bytes exposes the raw page contents for the btree layer to interpret.
func (p *Page) Bytes() []byte { return p.buf[:] }

// Pager owns a table's data file and the in-memory page cache over it.
type Pager struct {
	file  *os.File
	pages []*Page // pages[n] is nil until GetPage(n) or AllocatePage materialises it
	onDisk int    // number of pages that existed on disk when the file was opened

	log logr.Logger
}

// Open maps path into a Pager. If the file is empty, the caller is
// responsible for initialising page 1 as the root leaf (see
// internal/btree.Open) — the pager itself only knows about page slots, not
// node layouts.
func Open(path string, log logr.Logger) (p *Pager, fresh bool, err error) {
	if log.GetSink() == nil {
		log = dblog.Discard
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, false, fmt.Errorf("pageio: open %s: %w", path, err)
	}
	if err := lockExclusive(f); err != nil {
		f.Close()
		return nil, false, fmt.Errorf("pageio: lock %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, false, fmt.Errorf("pageio: stat %s: %w", path, err)
	}
	numPages := int(info.Size() / PageSize)

	pager := &Pager{
		file:   f,
		pages:  make([]*Page, numPages),
		onDisk: numPages,
		log:    dblog.Named(log, "pageio"),
	}
	return pager, numPages == 0, nil
}

// GetPage returns the page at n, loading it from disk on first touch (if it
// existed on disk) or zero-initialising it. The returned pointer is stable
// for the pager's lifetime.
func (p *Pager) GetPage(n PageNum) (*Page, error) {
	idx := int(n)
	if idx >= len(p.pages) {
		p.pages = append(p.pages, make([]*Page, idx-len(p.pages)+1)...)
	}
	if p.pages[idx] != nil {
		return p.pages[idx], nil
	}

	page := &Page{}
	p.pages[idx] = page
	if idx >= p.onDisk {
		return page, nil
	}
	off := int64(idx) * PageSize
	if _, err := p.file.ReadAt(page.buf[:], off); err != nil && err != io.EOF {
		return nil, fmt.Errorf("pageio: read page %d: %w", n, err)
	}
	return page, nil
}

// AllocatePage returns the next unused page number and materialises it as
// zero bytes. Page numbers grow monotonically; there is no free list.
func (p *Pager) AllocatePage() (PageNum, error) {
	n := PageNum(len(p.pages))
	if int(n) >= MaxPages {
		return Null, fmt.Errorf("pageio: table exceeds MaxPages (%d)", MaxPages)
	}
	p.pages = append(p.pages, &Page{})
	p.log.V(dblog.LevelOp).Info("allocate_page", "page", n)
	return n, nil
}

// Flush writes every materialised page to disk at its offset and fsyncs.
// It resizes the file to cover the highest materialised page.
func (p *Pager) Flush() error {
	highest := -1
	for i, pg := range p.pages {
		if pg != nil {
			highest = i
		}
	}
	if highest < 0 {
		return nil
	}
	if size := int64(highest+1) * PageSize; size > 0 {
		if err := p.file.Truncate(size); err != nil {
			return fmt.Errorf("pageio: truncate: %w", err)
		}
	}
	for i := 0; i <= highest; i++ {
		pg := p.pages[i]
		if pg == nil {
			continue
		}
		off := int64(i) * PageSize
		if _, err := p.file.WriteAt(pg.buf[:], off); err != nil {
			return fmt.Errorf("pageio: write page %d: %w", i, err)
		}
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("pageio: fsync: %w", err)
	}
	p.log.V(dblog.LevelOp).Info("flush", "pages", highest+1)
	return nil
}

// Close flushes and releases the lock and file descriptor.
func (p *Pager) Close() error {
	err := p.Flush()
	if unlockErr := unlock(p.file); err == nil {
		err = unlockErr
	}
	if closeErr := p.file.Close(); err == nil {
		err = closeErr
	}
	return err
}
