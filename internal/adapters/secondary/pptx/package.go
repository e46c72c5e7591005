// Package pptx reads and writes PresentationML packages: the zip of XML
// parts behind a .pptx file. It implements the small document model the
// slide materializer needs: slide enumeration, shape inspection, slide
// creation from a layout, text boxes, and slide removal.
package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

const (
	contentTypesPart = "[Content_Types].xml"
	packageRelsPart  = "_rels/.rels"
)

// Package holds every part of an OPC package in memory.
type Package struct {
	parts map[string][]byte
	order []string
}

// OpenPackage reads a package from raw zip bytes.
func OpenPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	pkg := &Package{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		pkg.Put(f.Name, content)
	}

	if !pkg.Has(contentTypesPart) {
		return nil, errors.New("not an OPC package: missing [Content_Types].xml")
	}

	return pkg, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// Has reports whether the part exists.
func (p *Package) Has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// Part returns the content of a part.
func (p *Package) Part(name string) ([]byte, bool) {
	data, ok := p.parts[name]
	return data, ok
}

// Put stores a part, appending it to the archive order when new.
func (p *Package) Put(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.order = append(p.order, name)
	}
	p.parts[name] = data
}

// Delete removes a part.
func (p *Package) Delete(name string) {
	if _, ok := p.parts[name]; !ok {
		return
	}
	delete(p.parts, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Names returns the part names in archive order.
func (p *Package) Names() []string {
	return append([]string(nil), p.order...)
}

// NextPartName returns the first unused name of the form dir/base<N>.xml,
// numbering after the highest existing N.
func (p *Package) NextPartName(dir, base string) string {
	highest := 0
	prefix := dir + "/" + base
	for name := range p.parts {
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".xml") {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(name, prefix), "%d.xml", &n); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%d.xml", prefix, highest+1)
}

// WriteTo writes the package as a zip archive. Only parts reachable from
// the package relationships are written, so parts whose last relationship
// was dropped disappear from the output.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	reachable, err := p.reachable()
	if err != nil {
		return 0, err
	}

	types, err := p.contentTypes()
	if err != nil {
		return 0, err
	}
	types.Retain(reachable)
	typesXML, err := types.Marshal()
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	if err := writeZipPart(zw, contentTypesPart, typesXML); err != nil {
		return cw.n, err
	}
	for _, name := range p.order {
		if name == contentTypesPart || !reachable[name] {
			continue
		}
		if err := writeZipPart(zw, name, p.parts[name]); err != nil {
			return cw.n, err
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("closing archive: %w", err)
	}
	return cw.n, nil
}

func writeZipPart(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// SaveFile writes the package to path.
func (p *Package) SaveFile(path string) error {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}

// reachable walks internal relationships from the package root and returns
// every reachable part together with the relationship parts walked.
func (p *Package) reachable() (map[string]bool, error) {
	seen := map[string]bool{}
	queue := []string{""}

	for len(queue) > 0 {
		source := queue[0]
		queue = queue[1:]

		relsName := RelsPartName(source)
		if !p.Has(relsName) {
			continue
		}
		seen[relsName] = true

		rels, err := p.Rels(source)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels.Items {
			if rel.External() {
				continue
			}
			target := ResolveTarget(source, rel.Target)
			if seen[target] || !p.Has(target) {
				continue
			}
			seen[target] = true
			queue = append(queue, target)
		}
	}

	return seen, nil
}

// Rels returns the relationships of a source part ("" for the package).
func (p *Package) Rels(source string) (*Relationships, error) {
	data, ok := p.Part(RelsPartName(source))
	if !ok {
		return &Relationships{}, nil
	}
	return ParseRelationships(data)
}

// PutRels stores the relationships of a source part.
func (p *Package) PutRels(source string, rels *Relationships) error {
	data, err := rels.Marshal()
	if err != nil {
		return fmt.Errorf("encoding relationships of %s: %w", source, err)
	}
	p.Put(RelsPartName(source), data)
	return nil
}

func (p *Package) contentTypes() (*ContentTypes, error) {
	data, ok := p.Part(contentTypesPart)
	if !ok {
		return nil, errors.New("missing [Content_Types].xml")
	}
	return ParseContentTypes(data)
}

// AddOverride registers an explicit content type for a part.
func (p *Package) AddOverride(part, contentType string) error {
	types, err := p.contentTypes()
	if err != nil {
		return err
	}
	types.SetOverride(part, contentType)
	data, err := types.Marshal()
	if err != nil {
		return err
	}
	p.Put(contentTypesPart, data)
	return nil
}

// RelsPartName returns the relationships part of source.
func RelsPartName(source string) string {
	if source == "" {
		return packageRelsPart
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// ResolveTarget resolves a relationship target against its source part.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(source), target), "/")
}

// RelativeTarget returns the target of a relationship from source to part.
func RelativeTarget(source, part string) string {
	from := strings.Split(path.Dir(source), "/")
	to := strings.Split(part, "/")

	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}

	var segs []string
	for i := common; i < len(from); i++ {
		if from[i] != "" && from[i] != "." {
			segs = append(segs, "..")
		}
	}
	segs = append(segs, to[common:]...)
	return strings.Join(segs, "/")
}
