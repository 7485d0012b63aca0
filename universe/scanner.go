package universe

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ScannerOption configures a Scanner.
type ScannerOption func(s *Scanner) error

// WithScannerLogger sets the logger used to report skipped candidates.
func WithScannerLogger(logger *zap.Logger) ScannerOption {
	return func(s *Scanner) error {
		if logger == nil {
			return fmt.Errorf("scanner logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// Scanner enumerates loadable types from a snapshot of a Provider.
// It is not safe for concurrent use.
type Scanner struct {
	candidates []Candidate
	logger     *zap.Logger
	skipped    map[string]struct{}
}

// NewScanner snapshots the provider's candidates. An error here means the
// universe itself could not be read and is wrapped in ErrProviderUnavailable.
func NewScanner(p Provider, opts ...ScannerOption) (*Scanner, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: provider is nil", ErrProviderUnavailable)
	}
	s := &Scanner{logger: zap.NewNop(), skipped: make(map[string]struct{})}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	candidates, err := p.Candidates()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	s.candidates = candidates
	return s, nil
}

// ScanAll loads every candidate. Candidates that fail to load are dropped.
func (s *Scanner) ScanAll() []reflect.Type {
	return s.scan(func(Candidate) bool { return true })
}

// ScanPackage loads the candidates declared in prefix or any package below it.
func (s *Scanner) ScanPackage(prefix string) []reflect.Type {
	return s.scan(func(c Candidate) bool { return c.InPackage(prefix) })
}

// Resolve loads the candidate named "pkg/path.Name". Unlike the scans, a
// load failure is returned to the caller.
func (s *Scanner) Resolve(qualified string) (reflect.Type, error) {
	for _, c := range s.candidates {
		if c.QualifiedName() == qualified {
			return c.Load()
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, qualified)
}

// Len returns the number of candidates in the snapshot.
func (s *Scanner) Len() int { return len(s.candidates) }

// Skipped returns how many distinct candidates failed to load across all
// scans. A candidate that fails in several scans is counted once.
func (s *Scanner) Skipped() int { return len(s.skipped) }

func (s *Scanner) scan(match func(Candidate) bool) []reflect.Type {
	var types []reflect.Type
	for _, c := range s.candidates {
		if !match(c) {
			continue
		}
		t, err := c.Load()
		if err != nil {
			name := c.QualifiedName()
			if _, seen := s.skipped[name]; !seen {
				s.skipped[name] = struct{}{}
				s.logger.Debug("skipping candidate type",
					zap.String("type", name),
					zap.Error(err))
			}
			continue
		}
		types = append(types, t)
	}
	return types
}
