package report

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Directory tree glyphs used in simulation output.
const (
	TreeIndentMid = " │   "
	TreeIndentEnd = "     "
	TreeEntryMid  = " ├── "
	TreeEntryEnd  = " └── "
	treeSnip      = " ·-- "
)

// StatusWidth is the reserved width of the OPERATION STATUS column header.
const StatusWidth = 20

// Padder tracks the maximum observed string lengths during parsing and
// turns them into aligned columns for the simulation and write listings.
// When alignment is disabled every separator collapses to its minimal form.
type Padder struct {
	maxSourceFilename int
	maxSourcePath     int
	maxTargetPath     int
	extraSourceChars  int
	multipleSources   bool
	align             bool
}

// NewPadder creates a Padder. multipleSources selects whether sources are
// shown as full paths or bare file names, which changes the column widths.
func NewPadder(multipleSources, align bool) *Padder {
	return &Padder{multipleSources: multipleSources, align: align}
}

// SetMaxSourceFilename records a source filename length candidate.
func (p *Padder) SetMaxSourceFilename(n int) {
	if n > p.maxSourceFilename {
		p.maxSourceFilename = n
	}
}

// SetMaxSourceFilenameFromStr records the length of one source filename.
func (p *Padder) SetMaxSourceFilenameFromStr(s string) {
	p.SetMaxSourceFilename(utf8.RuneCountInString(s))
}

// SetMaxSourcePath records a source path length candidate.
func (p *Padder) SetMaxSourcePath(n int) {
	if n > p.maxSourcePath {
		p.maxSourcePath = n
	}
}

// SetMaxTargetPath records the maximum target directory path length,
// computed over the consolidated tree.
func (p *Padder) SetMaxTargetPath(n int) {
	if n > p.maxTargetPath {
		p.maxTargetPath = n
	}
}

// AddExtraSourceChars widens the first simulation column to make room for
// tree indent glyphs.
func (p *Padder) AddExtraSourceChars(s string) {
	p.extraSourceChars += utf8.RuneCountInString(s)
}

// target-file column width in simulation output
func (p *Padder) simLeftWidth() int {
	return p.maxSourceFilename + p.extraSourceChars
}

// source column width in simulation output
func (p *Padder) simRightWidth() int {
	if p.multipleSources {
		return p.maxSourcePath
	}
	return p.maxSourceFilename
}

// source column width in write output
func (p *Padder) writeLeftWidth() int {
	if p.multipleSources {
		return p.maxSourcePath
	}
	return p.maxSourceFilename
}

// target column width in write output: date/device path plus the filename
func (p *Padder) writeRightWidth() int {
	return p.maxTargetPath + 1 + p.maxSourceFilename
}

// FormatSimHeader renders the column header line for simulation output.
func (p *Padder) FormatSimHeader() string {
	if !p.align {
		return "TARGET FILE <--- SOURCE PATH ... OPERATION STATUS"
	}
	return padRight("TARGET FILE", p.simLeftWidth()+6) +
		padRight("SOURCE PATH", p.simRightWidth()+5) +
		"OPERATION STATUS"
}

// FormatWriteHeader renders the column header line for write output.
func (p *Padder) FormatWriteHeader() string {
	if !p.align {
		return "SOURCE PATH ───> TARGET FILE ... OPERATION STATUS"
	}
	return padRight("SOURCE PATH", p.writeLeftWidth()+6) +
		padRight("TARGET FILE", p.writeRightWidth()+5) +
		"OPERATION STATUS"
}

// FormatHeaderSeparator renders the horizontal rule sized to the header.
func (p *Padder) FormatHeaderSeparator(header string) string {
	return strings.Repeat("─", utf8.RuneCountInString(header)+StatusWidth)
}

// FormatSimDateDir pads a date directory headline with dots up to the
// status column, e.g.
// "[2019.01.28] (2 devices, 5 files, 3.34 MB) ....... [new folder will be created]".
func (p *Padder) FormatSimDateDir(headline string) string {
	if !p.align {
		return headline + " "
	}
	target := p.simLeftWidth() + 6 + p.simRightWidth()
	return headline + " " + dots(target-utf8.RuneCountInString(headline)) + " "
}

// FormatSimDeviceDir renders an indented, dotted device directory line.
func (p *Padder) FormatSimDeviceDir(name string, isLast bool) string {
	entry := TreeEntryMid
	if isLast {
		entry = TreeEntryEnd
	}
	line := entry + "[" + name + "]"
	if !p.align {
		return line + " "
	}
	target := p.simLeftWidth() + 6 + p.simRightWidth()
	return line + " " + dots(target-utf8.RuneCountInString(line)) + " "
}

// FormatSimFileSeparator renders the dashed right-to-left arrow between a
// target filename and its source, padded so source paths align.
func (p *Padder) FormatSimFileSeparator(left string) string {
	if !p.align {
		return " <--- "
	}
	pad := p.simLeftWidth() - utf8.RuneCountInString(left)
	if pad < 0 {
		pad = 0
	}
	return " <" + strings.Repeat("-", pad+3) + " "
}

// FormatSimStatusSeparator renders the dotted run between a source path
// and its status in simulation output.
func (p *Padder) FormatSimStatusSeparator(right string) string {
	if !p.align {
		return " ... "
	}
	pad := p.simRightWidth() - utf8.RuneCountInString(right)
	if pad < 0 {
		pad = 0
	}
	return " " + dots(pad+3) + " "
}

// FormatWriteFileSeparator renders the solid left-to-right arrow between a
// source path and its target in write output.
func (p *Padder) FormatWriteFileSeparator(left string) string {
	if !p.align {
		return " ───> "
	}
	pad := p.writeLeftWidth() - utf8.RuneCountInString(left)
	if pad < 0 {
		pad = 0
	}
	return " " + strings.Repeat("─", pad+3) + "> "
}

// FormatWriteStatusSeparator renders the dotted run before the status in
// write output.
func (p *Padder) FormatWriteStatusSeparator(right string) string {
	if !p.align {
		return " ... "
	}
	pad := p.writeRightWidth() - utf8.RuneCountInString(right)
	if pad < 0 {
		pad = 0
	}
	return " " + dots(pad+3) + " "
}

// FormatSnipped renders the summary line replacing a run of suppressed
// identical statuses in compacted simulation output.
func (p *Padder) FormatSnipped(count int, indentLevel int, isLastDir bool) string {
	indent := ""
	if indentLevel > 0 {
		if isLastDir {
			indent = TreeIndentEnd
		} else {
			indent = TreeIndentMid
		}
	}
	return fmt.Sprintf("%s%s(snipped output for %d files with same status)", indent, treeSnip, count)
}

// IndentFileName prefixes a file name with the tree glyphs matching its
// position in the listing.
func IndentFileName(indentLevel int, name string, isLastDir, isLastElement bool) string {
	var b strings.Builder
	if indentLevel > 0 {
		if isLastDir {
			b.WriteString(TreeIndentEnd)
		} else {
			b.WriteString(TreeIndentMid)
		}
	}
	if isLastElement {
		b.WriteString(TreeEntryEnd)
	} else {
		b.WriteString(TreeEntryMid)
	}
	b.WriteString(name)
	return b.String()
}

func padRight(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

func dots(n int) string {
	if n < 1 {
		n = 1
	}
	return strings.Repeat(".", n)
}

// PadLeft left-pads s with spaces to the given width.
func PadLeft(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}

// Digits returns the character count of an integer, sign included.
func Digits(n int) int {
	return len(fmt.Sprintf("%d", n))
}
