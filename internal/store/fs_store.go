package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/utils"
)

// FS persists the coordinator snapshot as snapshot.json plus meta.json.
type FS struct {
	dir          string
	snapshotPath string
	metaPath     string
	mu           sync.RWMutex
	hotData      []byte
}

type Store interface {
	// WriteSnapshot encodes v, writes it atomically and records meta.
	WriteSnapshot(ctx context.Context, v any, meta Meta) error

	// ReadSnapshot decodes the last snapshot into v. It returns
	// os.ErrNotExist when nothing was persisted yet.
	ReadSnapshot(ctx context.Context, v any) (Meta, error)

	ReadMeta(ctx context.Context) (Meta, error)
	WriteMeta(ctx context.Context, m Meta) error
}

func NewFS(dataDir string) (*FS, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dataDir, err)
	}
	s := &FS{
		dir:          dataDir,
		snapshotPath: filepath.Join(dataDir, "snapshot.json"),
		metaPath:     filepath.Join(dataDir, "meta.json"),
	}
	_ = s.loadHotFromDisk() // best-effort at boot
	return s, nil
}

func (s *FS) WriteSnapshot(ctx context.Context, v any, meta Meta) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	sum := sha256.Sum256(data)
	meta.SHA256 = hex.EncodeToString(sum[:])
	meta.SizeBytes = int64(len(data))

	logger.Debug("writing snapshot to %s (size=%s)", s.snapshotPath, utils.HumanSize(meta.SizeBytes))

	if err := utils.WriteFileAtomic(s.snapshotPath+".tmp", s.snapshotPath, bytes.NewReader(data), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := s.WriteMeta(ctx, meta); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}

	s.mu.Lock()
	s.hotData = data
	s.mu.Unlock()
	return nil
}

func (s *FS) ReadSnapshot(ctx context.Context, v any) (Meta, error) {
	s.mu.RLock()
	data := s.hotData
	s.mu.RUnlock()

	if data == nil {
		if err := s.loadHotFromDisk(); err != nil {
			return Meta{}, err
		}
		s.mu.RLock()
		data = s.hotData
		s.mu.RUnlock()
		if data == nil {
			return Meta{}, os.ErrNotExist
		}
	}

	m, err := s.ReadMeta(ctx)
	if err != nil {
		return Meta{}, err
	}
	if m.SHA256 != "" {
		sum := sha256.Sum256(data)
		if got := hex.EncodeToString(sum[:]); got != m.SHA256 {
			return Meta{}, fmt.Errorf("snapshot checksum mismatch: expected %s, got %s", m.SHA256, got)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return Meta{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return m, nil
}

// ReadMeta reads meta.json (if present).
func (s *FS) ReadMeta(ctx context.Context) (met Meta, err error) {
	f, err := os.Open(s.metaPath)
	if err != nil {
		return Meta{}, err
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close failed: %w", cerr)
		}
	}()

	var m Meta
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return Meta{}, err
	}
	return m, err
}

func (s *FS) WriteMeta(ctx context.Context, m Meta) error {
	return utils.WriteJSONAtomic(s.metaPath, m)
}

func (s *FS) loadHotFromDisk() error {
	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		// Not written yet is fine
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.hotData = data
	s.mu.Unlock()
	return nil
}
