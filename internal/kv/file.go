package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileSuffix = ".json"

// FileBackend stores each slot as <dir>/<slot>.json.
type FileBackend struct {
	dir    string
	opened bool
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) Open() error {
	if err := os.MkdirAll(b.dir, 0700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	b.opened = true
	return nil
}

func (b *FileBackend) Read(slot string) (string, bool, error) {
	if !b.opened {
		return "", false, ErrNotOpen
	}
	if err := checkSlot(slot); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(b.path(slot))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read slot %s: %w", slot, err)
	}
	return string(data), true, nil
}

// Write replaces the slot file atomically: the new content goes to a temp
// file in the same directory which is then renamed over the old one.
func (b *FileBackend) Write(slot, value string) error {
	if !b.opened {
		return ErrNotOpen
	}
	if err := checkSlot(slot); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, "."+slot+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync slot %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set permissions on slot %s: %w", slot, err)
	}
	if err := os.Rename(tmpName, b.path(slot)); err != nil {
		return fmt.Errorf("failed to replace slot %s: %w", slot, err)
	}
	return nil
}

func (b *FileBackend) Slots() ([]string, error) {
	if !b.opened {
		return nil, ErrNotOpen
	}
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	var slots []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		slot := strings.TrimSuffix(name, fileSuffix)
		if checkSlot(slot) == nil {
			slots = append(slots, slot)
		}
	}
	sort.Strings(slots)
	return slots, nil
}

func (b *FileBackend) Close() error {
	b.opened = false
	return nil
}

func (b *FileBackend) Location() string {
	return b.dir
}

func (b *FileBackend) path(slot string) string {
	return filepath.Join(b.dir, slot+fileSuffix)
}
