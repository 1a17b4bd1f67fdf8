package vars

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/script"
	"github.com/ardnew/bakery/token"
	"github.com/ardnew/bakery/ui"
)

// EngineVersion is the value of the fixed Version variable.
const EngineVersion = "082"

// Names of the built-in variables.
const (
	NameBaseDir      = "BaseDir"
	NameTools        = "Tools"
	NameVersion      = "Version"
	NameProjectDir   = "ProjectDir"
	NameTargetDir    = "TargetDir"
	NameProjectTitle = "ProjectTitle"
	NameScriptFile   = "ScriptFile"
	NameScriptDir    = "ScriptDir"
	NameScriptTitle  = "ScriptTitle"
	NamePluginFile   = "PluginFile"
)

// LoadProject sets the fixed project variables and imports the main
// script's Variables section into the global tier.
//
// An empty baseDir defaults to the directory holding the project's parent,
// following the BaseDir/Projects/Name layout.
func (s *Store) LoadProject(p *script.Project, baseDir string, d *diag.Buffer) error {
	root := p.Root()
	if baseDir == "" {
		baseDir = filepath.Dir(filepath.Dir(root))
	}

	fixed := []struct{ name, value string }{
		{NameBaseDir, baseDir},
		{NameTools, filepath.Join(baseDir, "Projects", "Tools")},
		{NameVersion, EngineVersion},
		{NameProjectDir, root},
		{NameTargetDir, filepath.Join(baseDir, "Target", filepath.Base(root))},
		{NameProjectTitle, p.Title()},
	}

	for _, f := range fixed {
		if err := s.SetFixedValue(f.name, f.value); err != nil {
			return err
		}
	}

	if !p.Main().HasSection(script.NameVariables) {
		return nil
	}

	sec, err := p.Main().Section(script.NameVariables)
	if err != nil {
		return err
	}

	_, err = s.AddVariables(TierGlobal, sec, d)

	return err
}

// LoadDocument replaces the local tier with the variables of doc: its
// script paths and title, its Variables section and the values of its
// interface controls. The Variables section of the main script goes to the
// global tier instead.
func (s *Store) LoadDocument(doc *script.Document, isMain bool, d *diag.Buffer) error {
	doc = doc.Resolve()

	s.Reset(TierLocal)

	for name, value := range map[string]string{
		NameScriptFile:  doc.Path(),
		NameScriptDir:   filepath.Dir(doc.Path()),
		NameScriptTitle: doc.Title(),
	} {
		if err := s.SetFixedValue(name, value); err != nil {
			return err
		}
	}

	if err := s.SetValue(TierLocal, NamePluginFile, doc.Path()); err != nil {
		d.Err(0, NamePluginFile, err)
	}

	if doc.HasSection(script.NameVariables) {
		sec, err := doc.Section(script.NameVariables)
		if err != nil {
			return err
		}

		tier := TierLocal
		if isMain {
			tier = TierGlobal
		}

		if _, err := s.AddVariables(tier, sec, d); err != nil {
			return err
		}
	}

	if name := doc.InterfaceName(); name != "" && doc.HasSection(name) {
		sec, err := doc.Section(name)
		if err != nil {
			return err
		}

		ctrls, err := sec.Controls()
		if err != nil {
			return err
		}

		s.LoadControls(ctrls, d)
	}

	log.Debug("loaded script variables",
		slog.String("script", doc.RelPath()),
		slog.Int("local", len(s.Vars(TierLocal))))

	return nil
}

// AddVariables imports the "%Name%=Value" entries of sec into tier and
// returns how many were stored. Rejected entries are recorded in d against
// their document line.
func (s *Store) AddVariables(tier Tier, sec *script.Section, d *diag.Buffer) (int, error) {
	lines, err := sec.Lines()
	if err != nil {
		return 0, err
	}

	return s.AddLines(tier, lines, sec.Line()+1, d), nil
}

// AddLines imports "%Name%=Value" lines into tier. firstLine is the line
// number of lines[0]. Entries without a '%'-wrapped key are ignored; a
// value that names its own key is rejected without stopping the batch.
func (s *Store) AddLines(tier Tier, lines []string, firstLine int, d *diag.Buffer) int {
	n := 0

	for i, line := range lines {
		if token.IsEmpty(line) {
			continue
		}

		key, value, ok := token.SplitKeyValue(line)
		if !ok || len(key) < 3 || key[0] != '%' || key[len(key)-1] != '%' {
			continue
		}

		lineNo := firstLine + i
		name := TrimPercent(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)

		if strings.Contains(fold(value), fold(key)) {
			d.Error(lineNo, line, "variable %s refers to itself", key)

			continue
		}

		var err error
		if tier == TierFixed {
			err = s.SetFixedValue(name, value)
		} else {
			err = s.SetValue(tier, name, value)
		}

		if err != nil {
			d.Err(lineNo, line, err)

			continue
		}

		n++
	}

	return n
}

// LoadControls exports the value of every valued control to the local
// tier, keyed by the control key.
func (s *Store) LoadControls(ctrls []*ui.Control, d *diag.Buffer) {
	for _, c := range ctrls {
		v, ok := c.Value()
		if !ok {
			continue
		}

		if err := s.SetValue(TierLocal, c.Key, v); err != nil {
			d.Err(c.Line, c.Raw, err)
		}
	}
}
