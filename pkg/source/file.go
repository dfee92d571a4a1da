package source

import (
	"context"
	"io"
	"os"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

// File reads a dataset from the local filesystem.
type File struct {
	Path string
}

// Fetch reads the whole file.
func (f *File) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "read %s", f.Path)
	}
	return data, nil
}

func (f *File) String() string { return f.Path }

// Reader reads a dataset once from an io.Reader such as standard input.
type Reader struct {
	Name string
	R    io.Reader
}

// Fetch drains the reader.
func (r *Reader) Fetch(ctx context.Context) ([]byte, error) {
	data, err := io.ReadAll(r.R)
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "read %s", r.Name)
	}
	return data, nil
}

func (r *Reader) String() string { return r.Name }
