package uploads

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	store, err := NewDiskStorage(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	key, err := store.Save("receipt.png", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("key %q should keep the extension", key)
	}

	f, err := store.Open(key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("content = %q", data)
	}
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store, err := NewDiskStorage(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	if _, err := store.Save("malware.exe", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestSaveRejectsOversizedPayload(t *testing.T) {
	store, err := NewDiskStorage(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	big := bytes.NewReader(make([]byte, MaxSize+1))
	if _, err := store.Save("huge.mp4", big); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("error = %v, want ErrTooLarge", err)
	}
}
