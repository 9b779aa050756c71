package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"Topup-Lunite/internal/logger"
	"Topup-Lunite/internal/models"
	"go.uber.org/zap"
)

// File names of the JSON collections, compatible with the shop's original data dir.
const (
	UsersFile        = "pengguna.json"
	ProductsFile     = "produk.json"
	TransactionsFile = "data_transaksi.json"
)

// FileStore keeps each collection as an indented JSON array in dir. Writes go to a
// temporary file first and are renamed into place.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{dir: dir}
	for _, name := range []string{UsersFile, ProductsFile, TransactionsFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := writeFileAtomic(path, []byte("[]")); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) LoadUsers(ctx context.Context) ([]*models.User, error) {
	return loadJSON[models.User](filepath.Join(s.dir, UsersFile))
}

func (s *FileStore) SaveUsers(ctx context.Context, users []*models.User) error {
	return saveJSON(filepath.Join(s.dir, UsersFile), users)
}

func (s *FileStore) LoadProducts(ctx context.Context) ([]*models.Product, error) {
	return loadJSON[models.Product](filepath.Join(s.dir, ProductsFile))
}

func (s *FileStore) SaveProducts(ctx context.Context, products []*models.Product) error {
	return saveJSON(filepath.Join(s.dir, ProductsFile), products)
}

func (s *FileStore) LoadTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return loadJSON[models.Transaction](filepath.Join(s.dir, TransactionsFile))
}

func (s *FileStore) SaveTransactions(ctx context.Context, transactions []*models.Transaction) error {
	return saveJSON(filepath.Join(s.dir, TransactionsFile), transactions)
}

// Backup copies the three files into dir/autobackup_<timestamp>/.
func (s *FileStore) Backup(ctx context.Context, dir string) (string, error) {
	target := filepath.Join(dir, "autobackup_"+time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}
	for _, name := range []string{UsersFile, ProductsFile, TransactionsFile} {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := copyFile(filepath.Join(s.dir, name), filepath.Join(target, name)); err != nil {
			return "", fmt.Errorf("backup %s: %w", name, err)
		}
	}
	return target, nil
}

func (s *FileStore) Close() error { return nil }

// loadJSON reads a collection. A missing file is an empty collection; so is a file
// that is not valid JSON, which is logged and will be overwritten by the next save.
func loadJSON[T any](path string) ([]*T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []*T{}, nil
	}
	if err != nil {
		return nil, err
	}
	var items []*T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("unreadable collection treated as empty", zap.String("path", path), zap.Error(err))
		return []*T{}, nil
	}
	out := make([]*T, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out, nil
}

func saveJSON[T any](path string, items []*T) error {
	if items == nil {
		items = []*T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
