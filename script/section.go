package script

import (
	"log/slog"
	"sync"

	"github.com/ardnew/bakery/command"
	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/ui"
)

// Section is a named part of a document. Its body is loaded and converted
// lazily; every transition is guarded by the section's own lock, so a
// section may be shared across goroutines.
type Section struct {
	doc  *Document
	name string
	typ  SectionType
	line int
	// fixed sections have no backing file and are never unloaded.
	fixed bool

	mu    sync.Mutex
	state State
	lines []string
	dict  *Dict
	conv  Conversion
	code  []command.Command
	ctrls []*ui.Control
	diags diag.Buffer
}

// Name returns the section name as written in its header.
func (s *Section) Name() string { return s.name }

// Type returns the section type.
func (s *Section) Type() SectionType {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.typ
}

// Shape returns the body layout implied by the section type.
func (s *Section) Shape() Shape { return s.Type().Shape() }

// Line returns the 1-based line number of the section header.
func (s *Section) Line() int { return s.line }

// Document returns the document owning s.
func (s *Section) Document() *Document { return s.doc }

// State returns the load state of the body.
func (s *Section) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Converted returns the tag of the cached derived form.
func (s *Section) Converted() Conversion {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conv
}

// Diagnostics returns the diagnostics accumulated by conversions of s.
// Reading them does not clear them.
func (s *Section) Diagnostics() []diag.Entry { return s.diags.Entries() }

// Lines returns the body lines, reading them from disk if needed. The
// returned slice must not be modified.
//
// Bodies of [TypeAttachEncode] sections are read on every call and never
// kept, so the section stays unloaded.
func (s *Section) Lines() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked()
}

func (s *Section) loadLocked() ([]string, error) {
	if s.state != StateUnloaded {
		return s.lines, nil
	}

	lines, err := readSection(s.doc.path, s.name)
	if err != nil {
		return nil, err
	}

	if !s.typ.buffered() {
		log.Trace("read unbuffered section",
			slog.String("section", s.name), slog.Int("lines", len(lines)))

		return lines, nil
	}

	s.lines = lines
	s.state = StateLoaded

	log.Debug("loaded section",
		slog.String("path", s.doc.rel),
		slog.String("section", s.name),
		slog.Int("lines", len(lines)))

	return lines, nil
}

// Dict returns the body of a key/value section. It fails with [ErrShape]
// for line-list sections.
func (s *Section) Dict() (*Dict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typ.Shape() != ShapeKeyValue {
		return nil, s.shapeErr(ShapeKeyValue)
	}

	if s.dict != nil && s.state != StateUnloaded {
		return s.dict, nil
	}

	lines, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	s.dict = ParseDict(lines)

	return s.dict, nil
}

// Code returns the commands of a code section, parsing them with the
// document's parser on first use. Parse failures are recorded in the
// section diagnostics.
func (s *Section) Code() ([]command.Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typ != TypeCode {
		return nil, s.typeErr(TypeCode)
	}

	if s.conv == ConvertedCode {
		return s.code, nil
	}

	lines, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	addr := command.Address{Path: s.doc.path, Section: s.name}
	s.code = s.doc.parser.ParseRawLines(lines, addr, &s.diags)
	s.conv = ConvertedCode
	s.state = StateConverted

	log.Debug("converted section",
		slog.String("section", s.name),
		slog.String("to", s.conv.String()),
		slog.Int("commands", len(s.code)))

	return s.code, nil
}

// Controls returns the controls of an interface section, parsing them on
// first use. Rejected lines are recorded in the section diagnostics.
func (s *Section) Controls() ([]*ui.Control, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typ != TypeInterface {
		return nil, s.typeErr(TypeInterface)
	}

	if s.conv == ConvertedInterface {
		return s.ctrls, nil
	}

	lines, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	s.ctrls = ui.Parse(lines, s.name, s.line+1, &s.diags)
	s.conv = ConvertedInterface
	s.state = StateConverted

	log.Debug("converted section",
		slog.String("section", s.name),
		slog.String("to", s.conv.String()),
		slog.Int("controls", len(s.ctrls)))

	return s.ctrls, nil
}

// Unload drops the body and any converted form. The next access reads the
// file again.
func (s *Section) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fixed || s.state == StateUnloaded {
		return
	}

	s.state = StateUnloaded
	s.lines, s.dict = nil, nil
	s.conv, s.code, s.ctrls = ConvertedNone, nil, nil

	log.Debug("unloaded section", slog.String("section", s.name))
}

func (s *Section) shapeErr(want Shape) error {
	err := ErrShape.With(
		slog.String("section", s.name),
		slog.String("shape", s.typ.Shape().String()),
		slog.String("want", want.String()))

	log.Error("section accessed in wrong shape", slog.Any("error", err))

	return err
}

func (s *Section) typeErr(want SectionType) error {
	err := ErrShape.With(
		slog.String("section", s.name),
		slog.String("type", s.typ.String()),
		slog.String("want", want.String()))

	log.Error("section accessed as wrong type", slog.Any("error", err))

	return err
}
