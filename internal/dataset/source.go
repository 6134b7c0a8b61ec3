package dataset

import (
	"sync"

	"go.uber.org/zap"
)

// Source loads the configured file once and hands out the same table afterwards.
type Source struct {
	path   string
	opt    Options
	logger *zap.Logger

	once  sync.Once
	table *Table
	err   error
}

// NewSource prepares a memoized loader for path.
func NewSource(path string, opt Options, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{path: path, opt: opt, logger: logger.With(zap.String("component", "dataset"))}
}

// Path returns the file the source reads.
func (s *Source) Path() string { return s.path }

// Table returns the loaded table, reading the file on first use only.
// A failed load is remembered; the source never retries.
func (s *Source) Table() (*Table, error) {
	s.once.Do(func() {
		s.table, s.err = Load(s.path, s.opt)
		if s.err != nil {
			s.logger.Error("dataset load failed", zap.String("path", s.path), zap.Error(s.err))
			return
		}
		rows, cols := s.table.Shape()
		s.logger.Info("dataset loaded", zap.String("path", s.path), zap.Int("rows", rows), zap.Int("columns", cols))
		for _, w := range s.table.Warnings {
			s.logger.Warn(w, zap.String("path", s.path))
		}
	})
	return s.table, s.err
}
