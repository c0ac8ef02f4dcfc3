package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reshetovitsme/autopost/internal/modules/content/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/oops"
)

// FileStorage reads markdown sources from a directory on disk.
type FileStorage struct {
	basePath string
}

// NewFileStorage creates a file-based source repository rooted at basePath
func NewFileStorage(basePath string) (Repository, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to open source directory").Wrap(err)
	}
	if !info.IsDir() {
		return nil, oops.With("base_path", basePath).Errorf("source path is not a directory")
	}

	return &FileStorage{basePath: basePath}, nil
}

func (s *FileStorage) Fetch(ctx context.Context, id string) (*domain.SourceContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := id
	if filepath.Ext(name) == "" {
		name += ".md"
	}

	// ids are relative to the base path; anything escaping it is treated as missing
	path := filepath.Join(s.basePath, filepath.Clean("/"+name))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oops.With("source_id", id, "path", path).Wrap(apperrors.ErrNotFound)
		}
		return nil, oops.With("source_id", id, "context", "failed to read source file").Wrap(err)
	}

	markdown := strings.TrimSpace(string(data))

	return &domain.SourceContent{
		ID:        id,
		Kind:      domain.SourceKindFile,
		Title:     titleOf(markdown, strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))),
		Markdown:  markdown,
		FetchedAt: time.Now(),
	}, nil
}

// titleOf returns the first level-one heading, or fallback when there is none.
func titleOf(markdown, fallback string) string {
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}
