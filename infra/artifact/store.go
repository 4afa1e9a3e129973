package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/kilianp07/routetime/core/model"
	"github.com/kilianp07/routetime/core/training"
)

// FileStore writes training results to a fixed artifact path.
type FileStore struct {
	Path string
}

// Save implements training.Store.
func (s FileStore) Save(res training.Result) (string, error) {
	path := s.Path
	if path == "" {
		path = DefaultPath
	}
	a := &Artifact{
		ID:         res.ModelID,
		Format:     FormatVersion,
		TrainedAt:  res.TrainedAt,
		Features:   append([]string(nil), model.FeatureNames...),
		Samples:    res.Samples,
		Fit:        res.Fit,
		Validation: res.Validation,
		Forest:     res.Forest,
	}
	if err := Save(path, a); err != nil {
		return "", err
	}
	return path, nil
}

// Save writes a to path, creating parent directories. The file is replaced
// atomically so a concurrent reader never sees a partial artifact.
func Save(path string, a *Artifact) error {
	if a == nil {
		return errors.New("nil artifact")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, a); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace artifact %s: %w", path, err)
	}
	return nil
}

func encode(f *os.File, a *Artifact) error {
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(zw).Encode(a); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// Load reads and checks the artifact at path.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	defer zr.Close()

	var a Artifact
	if err := json.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if err := a.Check(); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return &a, nil
}
