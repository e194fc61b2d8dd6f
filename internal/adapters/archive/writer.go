// Package archive writes and unpacks gzip-compressed tar package archives.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

// generatedMode is the permission of entries produced by the pipeline.
const generatedMode = 0o644

var _ ports.Archiver = (*Writer)(nil)

// Writer implements ports.Archiver.
type Writer struct {
	now func() time.Time
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{now: time.Now}
}

// Write streams entries into dst as a gzip-compressed tar stream.
// Every entry is nested under prefix and errors carry the entry path.
func (w *Writer) Write(
	dst io.Writer,
	filename, prefix string,
	entries []domain.ArchiveEntry,
	render ports.RenderFunc,
) (int64, error) {
	gz, err := gzip.NewWriterLevel(dst, gzip.BestCompression)
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	gz.Name = filename

	tw := tar.NewWriter(gz)

	var total int64
	for _, entry := range entries {
		name := path.Join(prefix, entry.RelPath)

		var n int64
		if entry.IsGenerated() {
			n, err = w.writeGenerated(tw, name, entry, render)
		} else {
			n, err = writeFile(tw, name, entry.Source)
		}
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", entry.RelPath)
		}
		total += n
	}

	if err := tw.Close(); err != nil {
		return 0, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	if err := gz.Close(); err != nil {
		return 0, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	return total, nil
}

func (w *Writer) writeGenerated(tw *tar.Writer, name string, entry domain.ArchiveEntry, render ports.RenderFunc) (int64, error) {
	content, err := render(entry)
	if err != nil {
		return 0, err
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     generatedMode,
		Size:     int64(len(content)),
		ModTime:  w.now().Truncate(time.Second),
		Format:   tar.FormatGNU,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return 0, err
	}
	if _, err := tw.Write(content); err != nil {
		return 0, err
	}
	return hdr.Size, nil
}

func writeFile(tw *tar.Writer, name, source string) (int64, error) {
	//nolint:gosec // Source paths come from the package file listing
	f, err := os.Open(source)
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
		ModTime:  info.ModTime().Truncate(time.Second),
		Format:   tar.FormatGNU,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return 0, err
	}
	n, err := io.Copy(tw, f)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Unpack extracts the archive read from src into dir.
// Entries escaping dir are rejected. Modification times are not restored.
func (w *Writer) Unpack(src io.Reader, dir string) error {
	gz, err := gzip.NewReader(src)
	if err != nil {
		return zerr.Wrap(err, domain.ErrArchiveUnpackFailed.Error())
	}
	defer gz.Close() //nolint:errcheck // reader only

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, domain.ErrArchiveUnpackFailed.Error())
		}

		if !filepath.IsLocal(hdr.Name) || strings.Contains(hdr.Name, `\`) {
			return zerr.With(domain.ErrArchiveUnpackFailed, "path", hdr.Name)
		}
		target := filepath.Join(dir, filepath.FromSlash(hdr.Name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrArchiveUnpackFailed.Error()), "path", hdr.Name)
			}
		case tar.TypeReg:
			if err := extractFile(tr, target, hdr.FileInfo().Mode().Perm()); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrArchiveUnpackFailed.Error()), "path", hdr.Name)
			}
		default:
			return zerr.With(zerr.With(domain.ErrArchiveUnpackFailed, "path", hdr.Name), "type", string(hdr.Typeflag))
		}
	}
}

func extractFile(r io.Reader, target string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}
	//nolint:gosec // target is checked to stay inside the destination
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
