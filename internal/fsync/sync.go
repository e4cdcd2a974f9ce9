// SPDX-License-Identifier: MPL-2.0

package fsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/unrealclr/hotcompiler/internal/report"

	"github.com/spf13/afero"
)

type (
	// Request describes one folder mirror operation.
	Request struct {
		// Label names the operation in log output, e.g. "managed source".
		Label       string
		Source      string
		Destination string
		// RemoveDestination deletes the destination before copying.
		RemoveDestination bool
		// Overwrite replaces files that already exist at the destination.
		// When false they are kept and counted as skipped.
		Overwrite bool
	}

	// Report summarizes a completed sync.
	Report struct {
		Copied      int
		Skipped     int
		DirsCreated int
		// Failures holds one *DeleteError or *CopyError per entry that
		// could not be processed.
		Failures []error
		// DryRun is set when nothing was written.
		DryRun bool
	}

	// Syncer mirrors folders on an afero.Fs.
	Syncer struct {
		fs       afero.Fs
		reporter *report.Reporter
		dryRun   bool
	}

	// Option configures a Syncer.
	Option func(*Syncer)
)

// WithReporter sets where per-entry progress and warnings are emitted.
func WithReporter(r *report.Reporter) Option {
	return func(s *Syncer) {
		s.reporter = r
	}
}

// WithDryRun walks the source and fills the report without writing.
func WithDryRun(dryRun bool) Option {
	return func(s *Syncer) {
		s.dryRun = dryRun
	}
}

// New creates a Syncer over fs.
func New(fs afero.Fs, opts ...Option) *Syncer {
	s := &Syncer{fs: fs}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = report.New(nil)
	}
	return s
}

// Ok reports whether every entry was processed.
func (r Report) Ok() bool { return len(r.Failures) == 0 }

// Sync mirrors req.Source into req.Destination.
//
// The returned error is non-nil only when the source cannot be read or ctx
// is cancelled. Per-entry failures are collected in Report.Failures and
// emitted as warnings.
func (s *Syncer) Sync(ctx context.Context, req Request) (Report, error) {
	rep := Report{DryRun: s.dryRun}
	log := s.reporter

	info, err := s.fs.Stat(req.Source)
	if err != nil {
		return rep, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if !info.IsDir() {
		return rep, fmt.Errorf("%w: %s is not a directory", ErrSourceUnavailable, req.Source)
	}

	if req.RemoveDestination {
		s.removeDestination(req, &rep)
	}

	walkErr := afero.Walk(s.fs, req.Source, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == req.Source {
				return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
			}
			s.fail(&rep, &CopyError{Source: path, Destination: req.Destination, Err: err})
			return nil
		}

		rel, err := filepath.Rel(req.Source, path)
		if err != nil {
			s.fail(&rep, &CopyError{Source: path, Destination: req.Destination, Err: err})
			return nil
		}
		target := filepath.Join(req.Destination, rel)

		if info.IsDir() {
			s.mkdir(path, target, rel == ".", info.Mode().Perm(), &rep)
			return nil
		}

		if !req.Overwrite {
			if exists, _ := afero.Exists(s.fs, target); exists {
				rep.Skipped++
				log.Debug("kept existing file", "file", target)
				return nil
			}
		}

		if s.dryRun {
			rep.Copied++
			log.Debug("would copy file", "file", target)
			return nil
		}
		if err := s.copyFile(path, target, info.Mode().Perm()); err != nil {
			s.fail(&rep, &CopyError{Source: path, Destination: target, Err: err})
			return nil
		}
		rep.Copied++
		log.Debug("copied file", "file", target)
		return nil
	})
	if walkErr != nil {
		return rep, walkErr
	}
	return rep, nil
}

func (s *Syncer) removeDestination(req Request, rep *Report) {
	exists, err := afero.DirExists(s.fs, req.Destination)
	if err != nil || !exists {
		return
	}
	if s.dryRun {
		s.reporter.Debug("would remove previous folder", "folder", req.Destination)
		return
	}
	if err := s.fs.RemoveAll(req.Destination); err != nil {
		de := &DeleteError{Path: req.Destination, Err: err}
		rep.Failures = append(rep.Failures, de)
		s.reporter.Warn(fmt.Sprintf("Could not delete the previous %s folder", labelOr(req.Label)), "folder", req.Destination, "error", err)
		return
	}
	s.reporter.Debug("removed previous folder", "folder", req.Destination)
}

func (s *Syncer) mkdir(source, target string, root bool, perm os.FileMode, rep *Report) {
	if s.dryRun {
		if !root {
			rep.DirsCreated++
		}
		return
	}
	if err := s.fs.MkdirAll(target, perm|0o700); err != nil {
		s.fail(rep, &CopyError{Source: source, Destination: target, Err: err})
		return
	}
	if !root {
		rep.DirsCreated++
	}
}

func (s *Syncer) copyFile(source, target string, perm os.FileMode) (err error) {
	in, err := s.fs.Open(source)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := s.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0o600)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

func (s *Syncer) fail(rep *Report, err error) {
	rep.Failures = append(rep.Failures, err)
	var ce *CopyError
	if errors.As(err, &ce) {
		s.reporter.Warn("Could not copy "+ce.Source, "destination", ce.Destination, "error", ce.Err)
		return
	}
	s.reporter.Warn(err.Error())
}

func labelOr(label string) string {
	if label == "" {
		return "destination"
	}
	return label
}
