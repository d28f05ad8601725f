// Package markdown renders lesson bodies as plain terminal text.
package markdown

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultWidth is the wrap column used by ToText.
const DefaultWidth = 72

const bullet = "• "

var parser = goldmark.New().Parser()

// ToText renders md wrapped at DefaultWidth.
func ToText(md []byte) string {
	return Render(md, DefaultWidth)
}

// Render converts markdown into wrapped plain text. Headings become
// upper-case lines, list items get a bullet or their number, emphasis
// keeps only its text and code is kept verbatim. A width of zero or less
// disables wrapping.
func Render(md []byte, width int) string {
	doc := parser.Parse(text.NewReader(md))
	r := &renderer{src: md, width: width}
	return strings.Join(r.blocks(doc, 0), "\n")
}

type renderer struct {
	src   []byte
	width int
}

// blocks renders the block children of n, separated by blank lines.
func (r *renderer) blocks(n ast.Node, indent int) []string {
	var out []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		lines := r.block(c, indent)
		if len(lines) == 0 {
			continue
		}
		if len(out) > 0 && !tightItem(c) {
			out = append(out, "")
		}
		out = append(out, lines...)
	}
	return out
}

// tightItem reports whether c continues a tight list item and should not
// be preceded by a blank line.
func tightItem(c ast.Node) bool {
	if _, ok := c.(*ast.TextBlock); ok {
		return true
	}
	if p, ok := c.Parent().(*ast.ListItem); ok {
		if l, ok := p.Parent().(*ast.List); ok {
			return l.IsTight
		}
	}
	return false
}

func (r *renderer) block(n ast.Node, indent int) []string {
	switch n := n.(type) {
	case *ast.Heading:
		return []string{strings.ToUpper(r.inline(n))}
	case *ast.Paragraph, *ast.TextBlock:
		return wrap(r.inline(n), r.width-indent)
	case *ast.List:
		return r.list(n, indent)
	case *ast.Blockquote:
		return prefix(r.blocks(n, indent+2), "│ ", "│ ")
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return prefix(r.code(n), "    ", "    ")
	case *ast.ThematicBreak:
		return []string{strings.Repeat("─", min(max(r.width-indent, 3), 40))}
	case *ast.HTMLBlock:
		return nil
	default:
		return r.blocks(n, indent)
	}
}

func (r *renderer) list(l *ast.List, indent int) []string {
	var out []string
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := bullet
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		pad := strings.Repeat(" ", utf8.RuneCountInString(marker))
		lines := r.blocks(item, indent+len(pad))
		if len(lines) == 0 {
			lines = []string{""}
		}
		if len(out) > 0 && !l.IsTight {
			out = append(out, "")
		}
		out = append(out, prefix(lines, marker, pad)...)
	}
	return out
}

func (r *renderer) code(n ast.Node) []string {
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(r.src)), "\n"))
	}
	return out
}

// inline flattens the inline children of n into one string. Hard line
// breaks are kept as newlines.
func (r *renderer) inline(n ast.Node) string {
	var b strings.Builder
	r.writeInline(&b, n)
	return strings.TrimSpace(b.String())
}

func (r *renderer) writeInline(b *strings.Builder, n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(r.src))
			switch {
			case c.HardLineBreak():
				b.WriteByte('\n')
			case c.SoftLineBreak():
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.CodeSpan:
			for t := c.FirstChild(); t != nil; t = t.NextSibling() {
				switch t := t.(type) {
				case *ast.Text:
					b.Write(t.Segment.Value(r.src))
				case *ast.String:
					b.Write(t.Value)
				}
			}
		case *ast.AutoLink:
			b.Write(c.URL(r.src))
		case *ast.Link:
			var label strings.Builder
			r.writeInline(&label, c)
			b.WriteString(label.String())
			if dest := string(c.Destination); dest != "" && dest != label.String() {
				fmt.Fprintf(b, " (%s)", dest)
			}
		case *ast.RawHTML:
		default:
			r.writeInline(b, c)
		}
	}
}

// wrap breaks s into lines of at most width runes. Words longer than width
// get a line of their own.
func wrap(s string, width int) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		if width <= 0 {
			out = append(out, strings.Join(words, " "))
			continue
		}
		line := words[0]
		n := utf8.RuneCountInString(line)
		for _, w := range words[1:] {
			wn := utf8.RuneCountInString(w)
			if n+1+wn > width {
				out = append(out, line)
				line, n = w, wn
				continue
			}
			line += " " + w
			n += 1 + wn
		}
		out = append(out, line)
	}
	return out
}

func prefix(lines []string, first, rest string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		if l == "" {
			out[i] = strings.TrimRight(p, " ")
			continue
		}
		out[i] = p + l
	}
	return out
}
