package mig

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// copyRepo copies the selected files into dest/<repoName>, preserving
// relative paths and modification times. Returns bytes written.
func (e *Engine) copyRepo(ctx context.Context, repoName, repoPath string, files []fileEntry) int64 {
	dstRepo := filepath.Join(e.cfg.Dest, repoName)
	var bytesCopied int64

	for _, f := range files {
		if ctx.Err() != nil {
			e.wasInterrupted = true
			e.interruptedReason = ctx.Err().Error()
			break
		}

		srcFile := filepath.Join(repoPath, f.rel)
		dstFile := filepath.Join(dstRepo, f.rel)

		if err := os.MkdirAll(filepath.Dir(dstFile), 0o755); err != nil {
			e.errorf("  Warning: could not create directory for %s: %v", f.rel, err)
			continue
		}

		if _, err := os.Stat(dstFile); err == nil {
			if e.cfg.SkipExisting {
				e.filesSkippedExists++
				if e.cfg.Verbose {
					e.printf(0, "      %s %s", e.style("Skipped (exists):", color.FgHiBlack), f.rel)
				}
				continue
			}
			e.filesOverwritten++
			if !e.cfg.Force {
				e.printf(0, "      %s %s", e.style("Overwriting:", color.FgYellow), f.rel)
			}
		}

		if err := copyFile(srcFile, dstFile); err != nil {
			e.errorf("  Warning: could not copy %s: %v", f.rel, err)
			continue
		}
		bytesCopied += f.size

		if e.cfg.Verbose {
			e.printf(0, "      %s", f.rel)
		}
	}
	return bytesCopied
}

// zipRepo writes the selected files into dest/<repoName>.zip. Returns the
// archive size.
func (e *Engine) zipRepo(ctx context.Context, repoName, repoPath string, files []fileEntry) int64 {
	zipPath := filepath.Join(e.cfg.Dest, repoName+".zip")
	if err := os.MkdirAll(e.cfg.Dest, 0o755); err != nil {
		e.errorf("  Warning: could not create destination: %v", err)
		return 0
	}

	zf, err := os.Create(zipPath)
	if err != nil {
		e.errorf("  Warning: could not create zip for %s: %v", repoName, err)
		return 0
	}
	defer zf.Close()

	zw := zip.NewWriter(zf)
	for _, f := range files {
		if ctx.Err() != nil {
			e.wasInterrupted = true
			e.interruptedReason = ctx.Err().Error()
			break
		}

		// Guard against entries that would escape the archive root.
		normalized := filepath.Clean(f.rel)
		if strings.HasPrefix(normalized, "..") || filepath.IsAbs(normalized) {
			e.errorf("  Skipping unsafe path: %s", f.rel)
			continue
		}

		if err := addToZip(zw, filepath.Join(repoPath, f.rel), repoName+"/"+filepath.ToSlash(normalized)); err != nil {
			e.errorf("  Warning: could not archive %s: %v", f.rel, err)
			continue
		}
		if e.cfg.Verbose {
			e.printf(0, "      %s", f.rel)
		}
	}
	if err := zw.Close(); err != nil {
		e.errorf("  Warning: could not finish zip for %s: %v", repoName, err)
		return 0
	}

	info, err := os.Stat(zipPath)
	if err != nil {
		return 0
	}
	return info.Size()
}

func addToZip(zw *zip.Writer, srcPath, arcName string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := zw.Create(arcName)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

// copyFile duplicates src at dst, carrying over mode and mtime.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// ParseSize converts strings like "10M" or "500K" to bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil
	}
	multiplier := int64(1)
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1024
		s = s[:len(s)-1]
	case 'M':
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	case 'G':
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-1]
	case 'B':
		s = s[:len(s)-1]
	}
	var n int64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * multiplier, nil
}
