// Package objectstore saves downloaded PTP object bytes to local disk,
// date-foldered and collision-safe, the way imgrec.Recorder saves frames:
// one file per object under Root/yyyy-mm-dd/, falling back to a counter
// suffix when the plain filename is already taken.
package objectstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/snksoft/crc"

	"github.com/usbptp/goptp/ptp"
)

// crc32Table is the IEEE/ISO-HDLC CRC-32 polynomial table used for Save's
// optional integrity check, grounded on nkt/telegram.go's crc.NewTable use.
var crc32Table = crc.NewTable(crc.CRC32)

// Downloader writes object payloads fetched via Session.GetObject/
// GetPartialObject to local disk.
type Downloader struct {
	// Root is the base directory files are written under.
	Root string

	// VerifyCRC, when set, checks data against Save's expectedCRC32 argument
	// (when that is non-zero) and returns an error on mismatch instead of
	// writing the file. PTP itself
	// carries no end-to-end checksum; this is an application-layer sanity
	// check the caller opts into.
	VerifyCRC bool
}

// NewDownloader returns a Downloader rooted at root. The directory is
// created lazily on first Save, mirroring imgrec.Recorder.mkDir.
func NewDownloader(root string) *Downloader {
	return &Downloader{Root: root}
}

func (d *Downloader) dayFolder(now time.Time) string {
	return filepath.Join(d.Root, now.Format("2006-01-02"))
}

func (d *Downloader) mkDir(folder string) error {
	return os.MkdirAll(folder, 0o755)
}

// Save writes data under Root/yyyy-mm-dd/<info.Filename>, using now to pick
// the day folder. If that path already exists, it retries with a
// "-2", "-3", ... suffix inserted before the extension until it finds a
// free name, mirroring imgrec's incrementing-counter collision handling.
// If expectedCRC32 is non-zero and d.VerifyCRC is set, data's CRC-32
// (IEEE polynomial) must match it or Save fails without writing anything.
func (d *Downloader) Save(info ptp.ObjectInfo, data []byte, now time.Time, expectedCRC32 uint32) (string, error) {
	if d.VerifyCRC && expectedCRC32 != 0 {
		digest := crc32Table.CalculateCRC(data)
		if uint32(digest) != expectedCRC32 {
			return "", fmt.Errorf("objectstore: CRC32 mismatch for %s: got 0x%08x, want 0x%08x", info.Filename, uint32(digest), expectedCRC32)
		}
	}

	folder := d.dayFolder(now)
	if err := d.mkDir(folder); err != nil {
		return "", fmt.Errorf("objectstore: create %s: %w", folder, err)
	}

	path, err := uniquePath(folder, info.Filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("objectstore: write %s: %w", path, err)
	}
	return path, nil
}

// uniquePath returns a path under folder for name that does not already
// exist, inserting a "-N" counter before the extension on collision.
func uniquePath(folder, name string) (string, error) {
	path := filepath.Join(folder, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; n < 10000; n++ {
		candidate := filepath.Join(folder, fmt.Sprintf("%s-%d%s", base, n, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("objectstore: could not find a free name for %s under %s", name, folder)
}

// HTTPWrapper gives read and write access to a Downloader's Root through the
// Root and SetRoot methods. It registers no HTTP handlers itself and has no
// prefix setting.
type HTTPWrapper struct {
	d *Downloader
}

// NewHTTPWrapper wraps d for HTTP configuration.
func NewHTTPWrapper(d *Downloader) *HTTPWrapper {
	return &HTTPWrapper{d: d}
}

// Root returns the current download root.
func (h *HTTPWrapper) Root() string {
	return h.d.Root
}

// SetRoot updates the download root for subsequent Save calls.
func (h *HTTPWrapper) SetRoot(root string) {
	h.d.Root = root
}
