// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads a paper named by an arXiv ID, a DOI, or an
// http(s) URL so it can be analyzed like a local file.
package fetch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyzer/internal/httputil"
)

// Kind classifies an input identifier.
type Kind int

const (
	KindUnknown Kind = iota
	KindArxiv
	KindDOI
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindArxiv:
		return "arxiv"
	case KindDOI:
		return "doi"
	case KindURL:
		return "url"
	default:
		return "unknown"
	}
}

// Base URLs for identifier resolution, replaced by httptest servers in tests.
var (
	arxivPDFBase = "https://arxiv.org/pdf/"
	doiBase      = "https://doi.org/"
)

// DefaultUserAgent identifies downloads to publishers.
const DefaultUserAgent = "paper-analyzer/1.0"

// maxDownload bounds the size of a fetched document in bytes.
var maxDownload int64 = 100 << 20

// ErrTooLarge is returned when a document exceeds the download limit.
var ErrTooLarge = errors.New("document exceeds the download limit")

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// doiPattern matches a bare DOI or one prefixed with "doi:".
var doiPattern = regexp.MustCompile(`^(?i:doi:)?(10\.\d{4,9}/\S+)$`)

// Classify determines the identifier kind and returns its normalized form.
func Classify(identifier string) (Kind, string) {
	identifier = strings.TrimSpace(identifier)

	if m := arxivPattern.FindStringSubmatch(identifier); m != nil {
		return KindArxiv, m[1]
	}
	if m := doiPattern.FindStringSubmatch(identifier); m != nil {
		return KindDOI, m[1]
	}
	if u, err := url.Parse(identifier); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return KindURL, identifier
	}
	return KindUnknown, identifier
}

// Slug returns a filesystem-safe filename stem for the identifier.
func Slug(kind Kind, normalized string) string {
	switch kind {
	case KindArxiv:
		return normalized
	case KindDOI:
		return strings.NewReplacer("/", "-", ":", "-").Replace(normalized)
	case KindURL:
		u, err := url.Parse(normalized)
		if err != nil {
			return hashSlug(normalized)
		}
		base := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
		if base == "" || base == "." || base == "/" {
			return hashSlug(normalized)
		}
		return base
	default:
		return "unknown"
	}
}

// PDFURL returns the download URL for the identifier. DOIs go through the
// doi.org resolver; the client follows its redirects.
func PDFURL(kind Kind, normalized string) string {
	switch kind {
	case KindArxiv:
		return arxivPDFBase + normalized
	case KindDOI:
		return doiBase + normalized
	case KindURL:
		return normalized
	default:
		return ""
	}
}

func hashSlug(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("url-%x", h[:8])
}

// Fetcher downloads documents into Dir.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Dir       string
}

// New returns a Fetcher writing into dir with a 60 second client timeout.
func New(dir string) *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: 60 * time.Second},
		UserAgent: DefaultUserAgent,
		Dir:       dir,
	}
}

// Download fetches identifier and returns the local path. The file
// extension follows the response: .pdf for PDF bodies, .txt otherwise.
// An unrecognized identifier is an error.
func (f *Fetcher) Download(ctx context.Context, identifier string) (string, error) {
	kind, norm := Classify(identifier)
	if kind == KindUnknown {
		return "", fmt.Errorf("unrecognized identifier %q: use an arXiv ID, a DOI, or an http(s) URL", identifier)
	}
	src := PDFURL(kind, norm)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/pdf, text/plain;q=0.8")

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, 3)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, src)
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", f.Dir, err)
	}
	tmp, err := os.CreateTemp(f.Dir, ".fetch-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, copyErr := io.Copy(tmp, io.LimitReader(resp.Body, maxDownload+1))
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if n > maxDownload {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%s: %w of %d MiB", src, ErrTooLarge, maxDownload>>20)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	ext := ".txt"
	if isPDF(tmpPath, resp.Header.Get("Content-Type")) {
		ext = ".pdf"
	}
	dest := filepath.Join(f.Dir, Slug(kind, norm)+ext)
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}

	zap.L().Info("document fetched",
		zap.String("kind", kind.String()),
		zap.String("url", src),
		zap.Int64("bytes", n),
		zap.String("path", dest))
	return dest, nil
}

// isPDF trusts the %PDF- magic over the declared content type.
func isPDF(path, contentType string) bool {
	f, err := os.Open(path)
	if err != nil {
		return strings.HasPrefix(contentType, "application/pdf")
	}
	defer f.Close()

	magic := make([]byte, 5)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	return string(magic) == "%PDF-"
}
