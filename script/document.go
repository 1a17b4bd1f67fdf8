package script

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ardnew/bakery/cache"
	"github.com/ardnew/bakery/command"
	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/token"
)

// Info holds the descriptive entries of a document's Main section.
type Info struct {
	Title       string `json:"title"                 yaml:"title"`
	Author      string `json:"author,omitempty"      yaml:"author,omitempty"`
	Description string `json:"description"           yaml:"description"`
	Version     string `json:"version,omitempty"     yaml:"version,omitempty"`
	// VersionNumber is the leading integer of Version, or 0.
	VersionNumber int      `json:"versionNumber" yaml:"versionNumber"`
	Level         int      `json:"level"         yaml:"level"`
	Selected      Selected `json:"selected"      yaml:"selected"`
	Mandatory     bool     `json:"mandatory"     yaml:"mandatory"`
}

// Link is the target of a link document.
type Link struct {
	// Raw is the target path as written in the Main section.
	Raw string

	mu     sync.Mutex
	target *Document
	err    error
}

// Target returns the resolved target, or nil.
func (l *Link) Target() *Document {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.target
}

// Err returns the error that prevented resolution, if any.
func (l *Link) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.err
}

func (l *Link) set(target *Document, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.target, l.err = target, err
}

// Document is a parsed script, link, or directory entry.
type Document struct {
	path     string
	rel      string
	kind     Kind
	encoding Encoding
	info     Info
	link     *Link
	parser   command.Parser

	sections   []*Section
	index      map[string]*Section
	iface      string
	interfaces []string

	diags diag.Buffer
}

// Load reads the script or link document at path. A directory path yields
// a directory document.
func Load(ctx context.Context, path string, opts ...Option) (*Document, error) {
	o := makeOptions(opts...)

	return load(ctx, path, &o, nil)
}

func load(ctx context.Context, path string, o *options, batch *cache.Batch) (*Document, error) {
	abs, err := filepath.Abs(nativePath(path))
	if err != nil {
		return nil, ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return nil, ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	rel := relPath(o.root, abs)

	if fi.IsDir() {
		return NewDirectory(abs, rel, o.level), nil
	}

	rev := revision{path: abs, modTime: fi.ModTime().UnixNano(), size: fi.Size()}

	snap, err := readSnapshot(ctx, rev, rel, o, batch)
	if err != nil {
		return nil, err
	}

	d := newDocument(abs, rel, kindOf(abs), snap, o.parser)
	if err := d.readMain(o.level); err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "loaded document",
		slog.String("path", rel),
		slog.String("kind", d.kind.String()),
		slog.String("encoding", d.encoding.String()),
		slog.Int("sections", len(d.sections)))

	return d, nil
}

// readSnapshot consults the persistent cache, then the process memo, and
// finally the file. Cache failures only cost a reparse.
func readSnapshot(
	ctx context.Context,
	rev revision,
	rel string,
	o *options,
	batch *cache.Batch,
) (*Snapshot, error) {
	if o.cache == nil {
		return memoSnapshot(ctx, rev)
	}

	key := cache.NewKey(rel, time.Unix(0, rev.modTime), rev.size)

	data, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "cache read failed", slog.Any("error", err))
	}

	if ok {
		var snap Snapshot
		if err := snap.UnmarshalBinary(data); err == nil {
			storeMemo(rev, &snap)

			return &snap, nil
		}

		log.TraceContext(ctx, "discarding cached snapshot", slog.Any("key", key))
	}

	snap, err := memoSnapshot(ctx, rev)
	if err != nil {
		return nil, err
	}

	data, err = snap.MarshalBinary()
	if err == nil {
		if batch != nil {
			err = batch.Put(ctx, key, data)
		} else {
			err = o.cache.Put(ctx, key, data)
		}
	}

	if err != nil {
		log.WarnContext(ctx, "cache write failed", slog.Any("error", err))
	}

	return snap, nil
}

func newDocument(path, rel string, kind Kind, snap *Snapshot, parser command.Parser) *Document {
	d := &Document{
		path:     path,
		rel:      rel,
		kind:     kind,
		encoding: snap.Encoding,
		parser:   parser,
		index:    make(map[string]*Section, len(snap.Sections)),
	}

	for _, ss := range snap.Sections {
		key := strings.ToLower(ss.Name)
		if _, dup := d.index[key]; dup {
			d.diags.Warn(ss.Line, "["+ss.Name+"]", "duplicate section [%s] ignored", ss.Name)

			continue
		}

		s := &Section{doc: d, name: ss.Name, typ: classify(ss.Name), line: ss.Line}
		if ss.Buffered {
			s.lines, s.state = ss.Lines, StateLoaded
		}

		d.index[key] = s
		d.sections = append(d.sections, s)
	}

	return d
}

// NewDirectory returns the document standing for a directory of a project
// tree. Its Main section is synthesized from the directory name.
func NewDirectory(path, rel string, level int) *Document {
	name := filepath.Base(path)

	d := &Document{
		path:  path,
		rel:   rel,
		kind:  KindDirectory,
		index: make(map[string]*Section, 1),
		info: Info{
			Title:       name,
			Description: "[Directory] " + name,
			Level:       level,
		},
		iface: NameInterface,
	}

	main := &Section{
		doc:   d,
		name:  NameMain,
		typ:   TypeMain,
		line:  1,
		fixed: true,
		state: StateLoaded,
		lines: []string{
			"Title=" + d.info.Title,
			"Description=" + d.info.Description,
			"Level=" + strconv.Itoa(level),
		},
	}

	d.sections = []*Section{main}
	d.index[strings.ToLower(NameMain)] = main

	return d
}

// readMain validates the Main section, reads the descriptive entries, and
// classifies the sections left uninspected by name.
func (d *Document) readMain(defaultLevel int) error {
	s, ok := d.index[strings.ToLower(NameMain)]
	if !ok {
		return ErrMainSection.With(slog.String("path", d.path), slog.String("missing", NameMain))
	}

	main, err := s.Dict()
	if err != nil {
		return err
	}

	d.info.Selected = parseSelected(main.Lookup("Selected", ""))

	switch d.kind {
	case KindLink:
		target, ok := main.Get("Link")
		if !ok {
			return ErrMainSection.With(slog.String("path", d.path), slog.String("missing", "Link"))
		}

		d.link = &Link{Raw: target}

		return nil

	case KindStandard:
		for _, key := range []string{"Title", "Description"} {
			if !main.Has(key) {
				return ErrMainSection.With(slog.String("path", d.path), slog.String("missing", key))
			}
		}

	default:
		return ErrInvalidEnum.With(slog.String("kind", d.kind.String()))
	}

	d.info.Title = main.Lookup("Title", "")
	d.info.Description = main.Lookup("Description", "")
	d.info.Author = main.Lookup("Author", "")
	d.info.Version = main.Lookup("Version", "")
	d.info.VersionNumber = parseVersion(d.info.Version)
	d.info.Mandatory = equalFold(main.Lookup("Mandatory", ""), "True")

	d.info.Level = defaultLevel
	if v, ok := main.Get("Level"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			d.info.Level = n
		}
	}

	d.iface = main.Lookup(NameInterface, NameInterface)

	if raw, ok := main.Get("InterfaceList"); ok {
		d.readInterfaceList(raw, s.line)
	}

	if !containsFold(d.interfaces, d.iface) {
		d.interfaces = append(d.interfaces, d.iface)
	}

	d.inspect()

	return nil
}

func (d *Document) readInterfaceList(raw string, line int) {
	names, err := token.Split(raw)
	if err != nil {
		d.diags.Err(line, "InterfaceList="+raw, err)

		return
	}

	for _, name := range names {
		switch {
		case !d.HasSection(name):
			d.diags.Error(line, "InterfaceList="+raw, "section [%s] does not exist", name)
		case !containsFold(d.interfaces, name):
			d.interfaces = append(d.interfaces, name)
		}
	}
}

// inspect settles the type of every uninspected section: sections named
// by the EncodedFolders manifest hold attachments, interface sections hold
// controls, and the rest hold code.
func (d *Document) inspect() {
	var folders []string

	if s, ok := d.index[strings.ToLower(NameEncodedFolders)]; ok {
		if lines, err := s.Lines(); err == nil {
			for _, line := range lines {
				if !token.IsEmpty(line) {
					folders = append(folders, line)
				}
			}
		}
	}

	for _, s := range d.sections {
		if s.typ != TypeUninspected {
			continue
		}

		switch {
		case containsFold(folders, s.name):
			s.typ = TypeAttachFileList
		case containsFold(d.interfaces, s.name):
			s.typ = TypeInterface
		default:
			s.typ = TypeCode
		}

		log.Trace("inspected section",
			slog.String("section", s.name), slog.String("type", s.typ.String()))
	}
}

// Resolve returns the target of a resolved link, or d itself.
func (d *Document) Resolve() *Document {
	if d.kind == KindLink && d.link != nil {
		if t := d.link.Target(); t != nil {
			return t
		}
	}

	return d
}

// Path returns the absolute path of the document file.
func (d *Document) Path() string { return d.path }

// RelPath returns the path relative to the project root.
func (d *Document) RelPath() string { return d.rel }

// Kind returns the document kind. Links report [KindLink] even when
// resolved.
func (d *Document) Kind() Kind { return d.kind }

// Link returns the link of a link document, or nil.
func (d *Document) Link() *Link { return d.link }

// Encoding returns the detected text encoding.
func (d *Document) Encoding() Encoding { return d.Resolve().encoding }

// Info returns the descriptive entries. Links report their target's.
func (d *Document) Info() Info {
	r := d.Resolve()
	if r == d {
		return d.info
	}

	info := r.info
	if d.info.Selected != SelectedNone {
		info.Selected = d.info.Selected
	}

	return info
}

// Title is shorthand for Info().Title.
func (d *Document) Title() string { return d.Info().Title }

// InterfaceName returns the name of the primary interface section.
func (d *Document) InterfaceName() string { return d.Resolve().iface }

// Interfaces returns every interface section name, primary last.
func (d *Document) Interfaces() []string {
	return append([]string(nil), d.Resolve().interfaces...)
}

// Sections returns the sections in file order.
func (d *Document) Sections() []*Section {
	return append([]*Section(nil), d.Resolve().sections...)
}

// HasSection reports whether the named section exists.
func (d *Document) HasSection(name string) bool {
	_, ok := d.Resolve().index[strings.ToLower(name)]

	return ok
}

// Section returns the named section, ignoring case.
func (d *Document) Section(name string) (*Section, error) {
	r := d.Resolve()

	s, ok := r.index[strings.ToLower(name)]
	if !ok {
		return nil, ErrNoSection.With(slog.String("path", r.rel), slog.String("section", name))
	}

	return s, nil
}

// MainDict returns the Main section entries.
func (d *Document) MainDict() (*Dict, error) {
	s, err := d.Section(NameMain)
	if err != nil {
		return nil, err
	}

	return s.Dict()
}

// Unload drops the bodies of every section.
func (d *Document) Unload() {
	for _, s := range d.sections {
		s.Unload()
	}
}

// Diagnostics returns the document-level diagnostics followed by those of
// each section.
func (d *Document) Diagnostics() []diag.Entry {
	entries := d.diags.Entries()

	for _, s := range d.Resolve().sections {
		entries = append(entries, s.Diagnostics()...)
	}

	return entries
}

func (d *Document) String() string { return d.rel }

func kindOf(path string) Kind {
	if strings.EqualFold(filepath.Ext(path), ".link") {
		return KindLink
	}

	return KindStandard
}

func parseSelected(s string) Selected {
	switch {
	case equalFold(s, "True"):
		return SelectedTrue
	case equalFold(s, "False"):
		return SelectedFalse
	default:
		return SelectedNone
	}
}

// parseVersion returns the leading decimal integer of s.
func parseVersion(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, _ := strconv.Atoi(s[:end])

	return n
}

// nativePath converts a script path, which may use backslashes, to the
// host convention.
func nativePath(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}

func relPath(root, abs string) string {
	if root == "" {
		return filepath.ToSlash(abs)
	}

	if a, err := filepath.Abs(root); err == nil {
		root = a
	}

	r, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(r, "..") {
		return filepath.ToSlash(abs)
	}

	return filepath.ToSlash(r)
}
