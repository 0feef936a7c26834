package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// extract распаковывает архив в dir и возвращает пути извлеченных файлов
func extract(archive, dir string) ([]string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, f := range r.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return files, fmt.Errorf("%w: %s", ErrUnsafeArchive, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, err
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return files, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		files = append(files, target)
	}
	return files, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// placeArtifact кладет свежеизвлеченный артефакт по детерминированному пути.
// Файл по этому пути, не пришедший в архиве, перезаписывается.
func placeArtifact(files []string, want string) error {
	target, err := filepath.Abs(want)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f == target {
			return nil
		}
	}

	ext := filepath.Ext(target)
	var candidate string
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f), ext) {
			if candidate != "" {
				return fmt.Errorf("%w: several %s files, none named %s", ErrEmptyArchive, ext, filepath.Base(target))
			}
			candidate = f
		}
	}
	if candidate == "" {
		return fmt.Errorf("%w: expected %s", ErrEmptyArchive, filepath.Base(target))
	}
	return os.Rename(candidate, target)
}

// inside сообщает, лежит ли path строго внутри каталога root
func inside(root, path string) bool {
	root, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}
