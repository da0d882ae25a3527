package dhus

import (
	"context"
	"crypto/md5" //nolint:gosec // the hub publishes MD5 digests
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/juju/retry"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
	"github.com/kailas-cloud/sentinelsearch/internal/metrics"
	"github.com/kailas-cloud/sentinelsearch/internal/progress"
)

const incompleteSuffix = ".incomplete"

// DownloadAll downloads every product of rs into dir. Products that cannot be
// fetched after all attempts are listed in the report's Failed slice; only
// context cancellation and local I/O failures abort the whole batch.
func (c *Client) DownloadAll(ctx context.Context, rs *product.ResultSet, dir string) (product.DownloadReport, error) {
	report := product.NewDownloadReport()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return report, fmt.Errorf("mkdir %s: %w", dir, err)
	}

	ids := rs.IDs()
	c.logger.Info("downloading products", zap.Int("count", len(ids)), zap.String("dir", dir))

	for i, id := range ids {
		p, _ := rs.Get(id)
		path, err := c.download(ctx, p, dir, i+1, len(ids))
		if err != nil {
			if ctx.Err() != nil {
				return report, fmt.Errorf("download %s: %w", id, ctx.Err())
			}
			report.Failed = append(report.Failed, id)
			metrics.DownloadsTotal.WithLabelValues("failed").Inc()
			c.logger.Warn("product download failed",
				zap.String("id", id),
				zap.String("title", p.Title),
				zap.Error(err),
			)
			continue
		}
		report.Succeeded[id] = path
	}
	return report, nil
}

func (c *Client) download(ctx context.Context, p product.Product, dir string, num, total int) (string, error) {
	info, err := c.Product(ctx, p.ID)
	if err != nil {
		return "", err
	}
	if info.Attributes["online"] == "false" {
		return "", fmt.Errorf("%w: product %s is offline", domain.ErrCatalog, p.ID)
	}

	path := filepath.Join(dir, archiveName(info))
	if ok, _ := verifyFile(path, info); ok {
		c.logger.Info("product already downloaded",
			zap.String("id", info.ID),
			zap.String("path", path),
		)
		metrics.DownloadsTotal.WithLabelValues("skipped").Inc()
		return path, nil
	}

	var lastErr error
	err = retry.Call(retry.CallArgs{
		Func: func() error {
			lastErr = c.fetch(ctx, info, path, num, total)
			return lastErr
		},
		IsFatalError: func(err error) bool {
			return ctx.Err() != nil || errors.Is(err, domain.ErrProductNotFound)
		},
		NotifyFunc: func(err error, attempt int) {
			c.logger.Warn("download attempt failed",
				zap.String("id", info.ID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		},
		Attempts: c.attempts,
		Delay:    c.retryDelay,
		Clock:    c.clock,
		Stop:     ctx.Done(),
	})
	if err != nil {
		if lastErr != nil {
			return "", lastErr
		}
		return "", fmt.Errorf("download %s: %w", info.ID, err)
	}
	metrics.DownloadsTotal.WithLabelValues("ok").Inc()
	return path, nil
}

// fetch downloads one attempt, resuming from a previous partial file via HTTP Range.
func (c *Client) fetch(ctx context.Context, info product.Product, path string, num, total int) (err error) {
	start := time.Now()
	defer func() { c.observe("download", start, err) }()

	tmpPath := path + incompleteSuffix
	var offset int64
	if st, serr := os.Stat(tmpPath); serr == nil {
		offset = st.Size()
	}

	header := http.Header{}
	if offset > 0 {
		header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
		c.logger.Info("resuming download",
			zap.String("title", info.Title),
			zap.String("from", humanize.IBytes(uint64(offset))),
		)
	}

	resp, err := c.get(ctx, c.downloads, info.Attributes["url"], header)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusRequestedRangeNotSatisfiable {
			_ = os.Remove(tmpPath)
		}
		return fmt.Errorf("download %s: %w", info.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	flags := os.O_WRONLY | os.O_CREATE
	if resp.StatusCode == http.StatusPartialContent {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		offset = 0
	}

	f, err := os.OpenFile(filepath.Clean(tmpPath), flags, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", tmpPath, err)
	}

	size := info.Size
	if size <= 0 && resp.ContentLength > 0 {
		size = resp.ContentLength + offset
	}
	bar := c.bars.New(float64(size), float64(offset))
	written, err := io.Copy(f, &progressReader{reader: resp.Body, bar: bar})
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	bar.Close()
	if err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}

	ok, err := verifyFile(tmpPath, info)
	if err != nil {
		return err
	}
	if !ok {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, info.Title)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	c.logger.Info("product downloaded",
		zap.Int("num", num),
		zap.Int("total", total),
		zap.String("title", info.Title),
		zap.String("size", humanize.IBytes(uint64(offset+written))),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// archiveName returns the local file name for a product archive.
func archiveName(p product.Product) string {
	name := filepath.Base(p.Title)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = p.ID
	}
	return name + ".zip"
}

// verifyFile reports whether path exists and matches the product size and checksum.
// Products without a published MD5 digest are checked by size only.
func verifyFile(path string, p product.Product) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return false, nil //nolint:nilerr // missing file is simply not verified
	}
	if p.Size > 0 && st.Size() != p.Size {
		return false, nil
	}
	if !strings.EqualFold(p.Checksum.Algorithm, "MD5") || p.Checksum.Value == "" {
		return true, nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var h hash.Hash = md5.New() //nolint:gosec // see import
	if _, err := io.Copy(h, f); err != nil {
		return false, fmt.Errorf("checksum %s: %w", path, err)
	}
	return strings.EqualFold(hex.EncodeToString(h.Sum(nil)), p.Checksum.Value), nil
}

// progressReader forwards download progress to a bar and the byte counter.
type progressReader struct {
	reader io.Reader
	bar    *progress.Bar
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.bar.Update(float64(n))
		metrics.DownloadBytesTotal.Add(float64(n))
	}
	return n, err //nolint:wrapcheck // io.Copy compares against io.EOF
}
