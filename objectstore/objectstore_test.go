package objectstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/usbptp/goptp/ptp"
)

func TestSaveWritesUnderDayFolder(t *testing.T) {
	root := t.TempDir()
	d := NewDownloader(root)

	info := ptp.ObjectInfo{Filename: "IMG_0001.JPG"}
	now := time.Date(2026, 7, 29, 10, 0, 0, 0, time.UTC)

	path, err := d.Save(info, []byte("hello"), now, 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := filepath.Join(root, "2026-07-29", "IMG_0001.JPG")
	if path != want {
		t.Fatalf("got %q, want %q", path, want)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("contents = %q", got)
	}
}

func TestSaveCollisionAppendsCounter(t *testing.T) {
	root := t.TempDir()
	d := NewDownloader(root)
	now := time.Date(2026, 7, 29, 10, 0, 0, 0, time.UTC)
	info := ptp.ObjectInfo{Filename: "IMG_0001.JPG"}

	first, err := d.Save(info, []byte("one"), now, 0)
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second, err := d.Save(info, []byte("two"), now, 0)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct paths, both %q", first)
	}
	wantSecond := filepath.Join(root, "2026-07-29", "IMG_0001-2.JPG")
	if second != wantSecond {
		t.Fatalf("got %q, want %q", second, wantSecond)
	}

	gotFirst, _ := os.ReadFile(first)
	gotSecond, _ := os.ReadFile(second)
	if string(gotFirst) != "one" || string(gotSecond) != "two" {
		t.Fatalf("contents swapped or overwritten: %q, %q", gotFirst, gotSecond)
	}
}

func TestSaveCRCMismatchFailsWithoutWriting(t *testing.T) {
	root := t.TempDir()
	d := NewDownloader(root)
	d.VerifyCRC = true
	now := time.Date(2026, 7, 29, 10, 0, 0, 0, time.UTC)
	info := ptp.ObjectInfo{Filename: "IMG_0002.JPG"}

	_, err := d.Save(info, []byte("hello"), now, 0xDEADBEEF)
	if err == nil {
		t.Fatal("expected a CRC mismatch error")
	}
	if _, statErr := os.Stat(filepath.Join(root, "2026-07-29", "IMG_0002.JPG")); !os.IsNotExist(statErr) {
		t.Fatal("Save must not write the file when CRC verification fails")
	}
}

func TestSaveCRCMatchSucceeds(t *testing.T) {
	root := t.TempDir()
	d := NewDownloader(root)
	d.VerifyCRC = true
	now := time.Date(2026, 7, 29, 10, 0, 0, 0, time.UTC)
	info := ptp.ObjectInfo{Filename: "IMG_0003.JPG"}

	data := []byte("hello, world")
	want := uint32(crc32Table.CalculateCRC(data))

	path, err := d.Save(info, data, now, want)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("contents = %q", got)
	}
}

func TestHTTPWrapperRoot(t *testing.T) {
	d := NewDownloader("/tmp/original")
	w := NewHTTPWrapper(d)
	if w.Root() != "/tmp/original" {
		t.Fatalf("got %q", w.Root())
	}
	w.SetRoot("/tmp/updated")
	if d.Root != "/tmp/updated" {
		t.Fatalf("SetRoot did not update the underlying Downloader: %q", d.Root)
	}
}
