// Package session owns a planning session: the append-only registry of
// accepted insertion records, the per-procedure program composer, and the
// combined drilling sequencer. One Session is driven by one logical
// caller; calls run to completion or abort, and the registry survives for
// the life of the process.
package session

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"stereotax-go/pkg/config"
	"stereotax-go/pkg/errors"
	"stereotax-go/pkg/log"
	"stereotax-go/pkg/trajectory"
)

// Config holds the rig settings shared by every program the session
// produces.
type Config struct {
	// TravelHeight is the safe Z height for lateral travel above the
	// skull.
	TravelHeight float64

	// TravelFeed is the default feed rate for travel moves.
	TravelFeed float64

	// OutputDir is where program artifacts are created.
	OutputDir string

	// Extension is the artifact filename extension, without the dot.
	Extension string
}

// DefaultConfig returns the rig defaults.
func DefaultConfig() Config {
	return Config{
		TravelHeight: 10,
		TravelFeed:   100,
		OutputDir:    ".",
		Extension:    "gcode",
	}
}

// ConfigFromRig reads the [rig] section of a configuration file, falling
// back to defaults for anything unset. A missing [rig] section yields the
// defaults.
func ConfigFromRig(cfg *config.Config) (Config, error) {
	out := DefaultConfig()
	sec := cfg.GetSectionOptional("rig")
	if sec == nil {
		return out, nil
	}

	zero := 0.0
	var err error
	if out.TravelHeight, err = sec.GetFloatWithBounds("travel_height", config.FloatBounds{Above: &zero}, out.TravelHeight); err != nil {
		return out, err
	}
	if out.TravelFeed, err = sec.GetFloatWithBounds("travel_feed", config.FloatBounds{Above: &zero}, out.TravelFeed); err != nil {
		return out, err
	}
	if out.Extension, err = sec.Get("extension", out.Extension); err != nil {
		return out, err
	}
	return out, nil
}

// Observer receives every record accepted into the registry. This is the
// surface an atlas overlay renderer consumes: it gets data and returns
// nothing.
type Observer interface {
	RecordPlanned(trajectory.InsertionRecord)
}

// Session is the explicit session object. Its registry is append-only;
// Drill reorders it in place but never mutates record contents. Procedure
// calls are driven by one caller, but the registry is read concurrently
// by the overlay feed, so access goes through mu.
type Session struct {
	cfg    Config
	logger *log.Logger

	mu       sync.Mutex
	records  []trajectory.InsertionRecord
	observer Observer

	// openArtifact creates the named output artifact. Injectable for
	// tests; defaults to file creation in OutputDir.
	openArtifact func(name string) (io.WriteCloser, error)
}

// New creates a session with the given rig configuration.
func New(cfg Config) *Session {
	s := &Session{
		cfg:    cfg,
		logger: log.GetLogger("session"),
	}
	s.openArtifact = func(name string) (io.WriteCloser, error) {
		return os.Create(filepath.Join(s.cfg.OutputDir, name))
	}
	return s
}

// SetObserver registers the consumer notified per accepted record.
func (s *Session) SetObserver(o Observer) {
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

// SetArtifactOpener overrides how output artifacts are created.
func (s *Session) SetArtifactOpener(open func(name string) (io.WriteCloser, error)) {
	s.openArtifact = open
}

// Records returns a snapshot of the registry. Safe to call from other
// goroutines while procedures run.
func (s *Session) Records() []trajectory.InsertionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]trajectory.InsertionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// accept appends a solved record to the registry and notifies the
// observer. Acceptance happens after geometry but before output, so a
// later I/O failure can leave an orphaned record; that is harmless, the
// hole is still drillable. The observer is notified outside the lock so
// it may call back into Records.
func (s *Session) accept(rec trajectory.InsertionRecord) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	obs := s.observer
	s.mu.Unlock()

	if obs != nil {
		obs.RecordPlanned(rec)
	}
}

// writeArtifact opens the named artifact, runs compose against a motion
// writer bound to it, and closes. All failures surface as IO_FAILURE.
func (s *Session) writeArtifact(name string, compose func(io.Writer) error) error {
	w, err := s.openArtifact(name)
	if err != nil {
		return errors.IOFailureError(name, err)
	}
	if err := compose(w); err != nil {
		w.Close()
		return errors.IOFailureError(name, err)
	}
	if err := w.Close(); err != nil {
		return errors.IOFailureError(name, err)
	}
	return nil
}
