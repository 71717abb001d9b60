// Package scanner scans single files for PII.
package scanner

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/praetorian-inc/piihunter/pkg/extract"
	"github.com/praetorian-inc/piihunter/pkg/matcher"
	"github.com/praetorian-inc/piihunter/pkg/pattern"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

// ErrFileTooLarge is reported for files above the configured size limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// Result is the outcome of scanning one file.
type Result struct {
	Path     string
	BlobID   types.BlobID
	Findings []types.Finding
	// Err explains why the file yielded no text. It is informational: a
	// file that fails is reported as having no findings.
	Err error
	// MatchErr collects pattern failures on individual blocks. Findings of
	// the other blocks and specs are kept.
	MatchErr error
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxFileSize skips files larger than n bytes. Zero means no limit.
func WithMaxFileSize(n int64) Option {
	return func(s *Scanner) {
		s.maxFileSize = n
	}
}

// Scanner extracts text from files and matches the configured specs
// against it. It is safe for concurrent use.
type Scanner struct {
	matcher     *matcher.Matcher
	logger      *zap.Logger
	maxFileSize int64
}

// New creates a Scanner for specs, which must be in report priority order.
func New(specs []*pattern.Spec, opts ...Option) *Scanner {
	s := &Scanner{
		matcher: matcher.New(specs),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Specs returns the specs the scanner matches, in priority order.
func (s *Scanner) Specs() []*pattern.Spec {
	return s.matcher.Specs()
}

// ScanFile reads and scans the file at path. It never fails; read and
// extraction errors leave the findings empty and are recorded in Result.Err.
func (s *Scanner) ScanFile(path string) Result {
	if s.maxFileSize > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > s.maxFileSize {
			s.logger.Debug("skipping large file",
				zap.String("path", path),
				zap.Int64("size", info.Size()),
				zap.Int64("max_size", s.maxFileSize))
			return Result{Path: path, Err: fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, path, info.Size())}
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		err = &extract.Error{Path: path, Format: extract.FormatFor(path), Kind: extract.KindOpen, Err: err}
		s.logger.Warn("failed to read file", zap.String("path", path), zap.Error(err))
		return Result{Path: path, Err: err}
	}

	return s.ScanContent(path, content)
}

// ScanContent scans in-memory content as if it had been read from path. The
// extension of path selects the format.
func (s *Scanner) ScanContent(path string, content []byte) Result {
	result := Result{
		Path:   path,
		BlobID: types.ComputeBlobID(content),
	}

	blocks, err := extract.ExtractText(path, content)
	if err != nil {
		s.logger.Warn("failed to extract text",
			zap.String("path", path),
			zap.Stringer("kind", extract.KindOf(err)),
			zap.Error(err))
		result.Err = err
		return result
	}

	var matchErrs []error
	for _, block := range blocks {
		findings, err := s.matcher.MatchBlock(block)
		if err != nil {
			s.logger.Warn("pattern matching failed", zap.String("path", path), zap.Error(err))
			matchErrs = append(matchErrs, err)
		}
		result.Findings = append(result.Findings, findings...)
	}
	result.MatchErr = errors.Join(matchErrs...)

	s.logger.Debug("scanned file",
		zap.String("path", path),
		zap.String("blob_id", result.BlobID.Hex()),
		zap.Int("blocks", len(blocks)),
		zap.Int("findings", len(result.Findings)))

	return result
}
