// Package archive unpacks AppImages that are distributed inside an archive.
package archive

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/xi2/xz"          // For reading .xz compressed data

	"appimage-installer/internal/logger"
)

// BundleSuffix is the file suffix AppImages are recognised by.
const BundleSuffix = ".appimage"

var tarSuffixes = []string{".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz"}

// IsArchive reports whether path names an archive format Unpack understands.
func IsArchive(path string) bool {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".zip") || strings.HasSuffix(name, ".7z") {
		return true
	}
	for _, ext := range tarSuffixes {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Unpack extracts the archive at src into dest, routing on the file suffix.
func Unpack(src, dest string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	name := strings.ToLower(src)
	switch {
	case strings.HasSuffix(name, ".zip"):
		logger.Debug("[DEBUG] compression type is zip\n")
		return unpackZip(src, dest)
	case strings.HasSuffix(name, ".7z"):
		logger.Debug("[DEBUG] compression type is .7z\n")
		return unpack7z(src, dest)
	case IsArchive(name):
		logger.Debug("[DEBUG] compression type is .tar.*\n")
		return unpackTar(src, dest)
	default:
		return fmt.Errorf("unsupported archive format: %s", src)
	}
}

// FindBundle returns the single AppImage below dir.
func FindBundle(dir string) (string, error) {
	var bundles []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(strings.ToLower(d.Name()), BundleSuffix) {
			bundles = append(bundles, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	switch len(bundles) {
	case 0:
		return "", fmt.Errorf("no AppImage found in archive")
	case 1:
		return bundles[0], nil
	default:
		return "", fmt.Errorf("archive contains %d AppImages, expected one", len(bundles))
	}
}

// target resolves an archive member name below dest, rejecting names that
// would escape it.
func target(dest, name string) (string, error) {
	path := filepath.Join(dest, name)
	rel, err := filepath.Rel(dest, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal path in archive: %s", name)
	}
	return path, nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm()|0200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// unpackTar handles tar and compressed tar variants
func unpackTar(src, dest string) error {
	logger.Debug("[DEBUG] uncompressing %s to %s\n", src, dest)
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	name := strings.ToLower(src)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(name, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(name, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		path, err := target(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(path, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			logger.Debug("[DEBUG] skipping %s (type %c)\n", hdr.Name, hdr.Typeflag)
		}
	}
}

// unpackZip extracts a .zip archive
func unpackZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		path, err := target(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(path, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// unpack7z handles .7z extraction using the sevenzip library
func unpack7z(src, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		path, err := target(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(path, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
