package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/riskibarqy/scouting-report/internal/usecase"
)

// fileWriter stores rendered documents under one directory.
type fileWriter struct {
	dir string
}

var _ usecase.DocumentWriter = (*fileWriter)(nil)

func newFileWriter(dir string) *fileWriter {
	if dir == "" {
		dir = "."
	}
	return &fileWriter{dir: dir}
}

func (w *fileWriter) Write(ctx context.Context, doc usecase.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(w.dir, filepath.Base(doc.FileName))
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
