// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc locates a pandoc binary and downloads one from the pandoc
// GitHub releases when none is installed. Lookup order: the configured
// binary, PATH, the versioned cache directory, then a download into the
// cache.
package pandoc

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pdiddy/mdrst/internal/httputil"
	"github.com/pdiddy/mdrst/pkg/types"
)

// ErrUnsupportedPlatform is returned when no release asset exists for the
// host operating system and architecture.
var ErrUnsupportedPlatform = errors.New("no pandoc release for platform")

// ErrBinaryNotInArchive is returned when a release archive has no pandoc
// executable.
var ErrBinaryNotInArchive = errors.New("pandoc binary not found in archive")

// Provisioner finds or installs pandoc.
type Provisioner struct {
	cfg      types.PandocConfig
	client   *http.Client
	lookPath func(string) (string, error)
	goos     string
	goarch   string
	w        io.Writer
}

// NewProvisioner returns a Provisioner for the host platform that reports
// progress to w.
func NewProvisioner(cfg types.PandocConfig, w io.Writer) *Provisioner {
	return &Provisioner{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
		w:        w,
	}
}

// Locate returns the path of an installed pandoc without touching the
// network. A configured binary without a path separator is looked up on
// PATH first. The boolean is false when none was found.
func (p *Provisioner) Locate() (string, bool) {
	if p.cfg.Binary != "" {
		if !strings.ContainsRune(p.cfg.Binary, os.PathSeparator) && !strings.Contains(p.cfg.Binary, "/") {
			if bin, err := p.lookPath(p.cfg.Binary); err == nil {
				return bin, true
			}
		}
		if isFile(p.cfg.Binary) {
			return p.cfg.Binary, true
		}
		return "", false
	}
	if bin, err := p.lookPath(p.binaryName()); err == nil {
		return bin, true
	}
	if cached := p.cachedPath(); isFile(cached) {
		return cached, true
	}
	return "", false
}

// Ensure returns a usable pandoc path, downloading the configured release
// into the cache directory when Locate finds nothing. An explicitly
// configured binary that does not exist is an error; it is never replaced
// by a download.
func (p *Provisioner) Ensure(ctx context.Context) (string, error) {
	if bin, ok := p.Locate(); ok {
		return bin, nil
	}
	if p.cfg.Binary != "" {
		return "", fmt.Errorf("configured pandoc binary %s does not exist", p.cfg.Binary)
	}
	return p.download(ctx)
}

func (p *Provisioner) download(ctx context.Context) (string, error) {
	asset, err := AssetName(p.cfg.Version, p.goos, p.goarch)
	if err != nil {
		return "", err
	}
	url := strings.TrimSuffix(p.cfg.ReleaseURL, "/") + "/" + p.cfg.Version + "/" + asset

	dest := p.cachedPath()
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating pandoc cache %s: %w", filepath.Dir(dest), err)
	}

	archive, err := os.CreateTemp(filepath.Dir(dest), "download-*")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	defer os.Remove(archive.Name())
	defer archive.Close()

	fmt.Fprintf(p.w, "downloading pandoc %s from %s\n", p.cfg.Version, url)
	n, err := httputil.Download(ctx, p.client, url, p.cfg.UserAgent, p.cfg.MaxRetries, archive)
	if err != nil {
		return "", err
	}

	if strings.HasSuffix(asset, ".zip") {
		err = extractZip(archive, n, p.binaryName(), dest)
	} else {
		if _, err = archive.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewinding %s: %w", archive.Name(), err)
		}
		err = extractTarGz(archive, p.binaryName(), dest)
	}
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", asset, err)
	}

	fmt.Fprintf(p.w, "installed pandoc %s to %s\n", p.cfg.Version, dest)
	return dest, nil
}

func (p *Provisioner) binaryName() string {
	if p.goos == "windows" {
		return "pandoc.exe"
	}
	return "pandoc"
}

func (p *Provisioner) cachedPath() string {
	return filepath.Join(p.cfg.CacheDir, p.cfg.Version, p.binaryName())
}

// AssetName returns the release archive name for version on goos/goarch,
// following the pandoc release naming.
func AssetName(version, goos, goarch string) (string, error) {
	switch goos {
	case "linux":
		if goarch == "amd64" || goarch == "arm64" {
			return fmt.Sprintf("pandoc-%s-linux-%s.tar.gz", version, goarch), nil
		}
	case "darwin":
		switch goarch {
		case "amd64":
			return fmt.Sprintf("pandoc-%s-x86_64-macOS.zip", version), nil
		case "arm64":
			return fmt.Sprintf("pandoc-%s-arm64-macOS.zip", version), nil
		}
	case "windows":
		if goarch == "amd64" {
			return fmt.Sprintf("pandoc-%s-windows-x86_64.zip", version), nil
		}
	}
	return "", fmt.Errorf("%w %s/%s", ErrUnsupportedPlatform, goos, goarch)
}

// extractTarGz copies the first regular file named binName out of a
// gzipped tarball into dest.
func extractTarGz(r io.Reader, binName, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return ErrBinaryNotInArchive
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg || path.Base(hdr.Name) != binName {
			continue
		}
		return writeExecutable(tr, dest)
	}
}

// extractZip copies the first file named binName out of a zip archive into
// dest.
func extractZip(ra io.ReaderAt, size int64, binName, dest string) error {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return err
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != binName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		return writeExecutable(rc, dest)
	}
	return ErrBinaryNotInArchive
}

// writeExecutable writes r to a temporary file next to dest, marks it
// executable and renames it into place.
func writeExecutable(r io.Reader, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
