package tbgen

import (
	"fmt"
	"strings"

	"github.com/roach88/tbgen/internal/dut"
	"github.com/roach88/tbgen/internal/protocol"
	"github.com/roach88/tbgen/internal/writer"
)

// DefaultExtension is the extension of generated files.
const DefaultExtension = ".vhd"

// MergeExtension marks files meant to be merged by hand into an existing
// testbench.
const MergeExtension = ".mrg"

// Options control rendering.
type Options struct {
	// Extension of every generated file, DefaultExtension when empty.
	Extension string

	// Indent is one indentation level, writer.DefaultIndent when empty.
	Indent string

	Copyright Copyright

	// TBLibrary holds the generated packages when the source carries no
	// tblib tag.
	TBLibrary string
}

// FileExtension returns the extension with its leading dot.
func (o Options) FileExtension() string {
	switch {
	case o.Extension == "":
		return DefaultExtension
	case strings.HasPrefix(o.Extension, "."):
		return o.Extension
	}
	return "." + o.Extension
}

// FileNames returns the names Render produces for tb, in order: the top
// file, and for multi-case testbenches the shared package and one package
// per case.
func FileNames(tb *dut.Testbench, ext string) []string {
	names := []string{tb.Name + ext}
	if tb.MultiCase {
		names = append(names, tb.PackageName()+ext)
		for _, c := range tb.Cases {
			names = append(names, tb.CaseName(c)+ext)
		}
	}
	return names
}

// Render produces the complete file set of tb in memory. The protocol plan
// is validated before any text is produced; nothing is returned on error.
func Render(tb *dut.Testbench, opts Options) ([]writer.File, error) {
	plan, err := protocol.Build(tb)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	r := &renderer{tb: tb, src: tb.Source, plan: plan, opts: opts}
	names := FileNames(tb, opts.FileExtension())

	top, err := r.top()
	if err != nil {
		return nil, err
	}
	files := []writer.File{{Name: names[0], Data: top.Bytes()}}
	if !tb.MultiCase {
		return files, nil
	}

	files = append(files, writer.File{Name: names[1], Data: r.sharedPackage().Bytes()})
	for i, c := range tb.Cases {
		files = append(files, writer.File{Name: names[2+i], Data: r.casePackage(c).Bytes()})
	}
	return files, nil
}

// Generate parses source text and renders its testbench.
func Generate(name, text string, opts Options) ([]writer.File, error) {
	src, err := dut.Read(name, text)
	if err != nil {
		return nil, err
	}
	tb, err := dut.NewTestbench(src)
	if err != nil {
		return nil, err
	}
	return Render(tb, opts)
}

// Write puts files into dir. See writer.WriteAll.
func Write(dir string, files []writer.File, overwrite bool) ([]string, error) {
	paths, err := writer.WriteAll(dir, files, overwrite)
	if err != nil {
		return nil, fmt.Errorf("writing testbench: %w", err)
	}
	return paths, nil
}

type renderer struct {
	tb   *dut.Testbench
	src  *dut.Source
	plan *protocol.Plan
	opts Options
}

func (r *renderer) buffer() *writer.Buffer {
	b := writer.NewBuffer(r.opts.Indent)
	copyright(b, r.opts.Copyright)
	return b
}

func (r *renderer) tbLibrary() string {
	if r.opts.TBLibrary != "" && !r.src.FileTags.Has(dut.TagTBLib) {
		return r.opts.TBLibrary
	}
	return r.src.TBLibrary()
}
