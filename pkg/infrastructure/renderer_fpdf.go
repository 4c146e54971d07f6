package infrastructure

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	fpdfMarginMM  = 18
	fpdfPageWidth = 210
	fpdfFont      = "dejavu"
	bulletIndent  = 5
	bullet        = "•"
)

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularTTF []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldTTF []byte
)

var (
	// ErrMalformedDocument is returned when the HTML has no element carrying a
	// data-variant attribute, i.e. it was not produced by the document templates.
	ErrMalformedDocument = errors.New("malformed document: no data-variant root")
	// ErrUnsupportedText is returned for characters the embedded font has no
	// glyph for. They are never replaced silently.
	ErrUnsupportedText = errors.New("text not covered by document font")
)

type fontFaces struct {
	regular, bold *sfnt.Font
}

var loadFaces = sync.OnceValues(func() (fontFaces, error) {
	regular, err := sfnt.Parse(regularTTF)
	if err != nil {
		return fontFaces{}, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := sfnt.Parse(boldTTF)
	if err != nil {
		return fontFaces{}, fmt.Errorf("parse bold font: %w", err)
	}
	return fontFaces{regular: regular, bold: bold}, nil
})

type block struct {
	tag  atom.Atom
	text string
}

// FpdfRenderer lays the headings, paragraphs and list items of a rendered
// document onto A4 pages without a browser. Styling is not reproduced.
type FpdfRenderer struct{}

func NewFpdfRenderer() *FpdfRenderer { return &FpdfRenderer{} }

func (r *FpdfRenderer) RenderHTMLToPDF(ctx context.Context, doc string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}
	root := findVariantRoot(tree)
	if root == nil {
		return nil, ErrMalformedDocument
	}
	var blocks []block
	collectBlocks(root, &blocks)
	if err := checkCoverage(blocks); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fpdfFont, "", regularTTF)
	pdf.AddUTF8FontFromBytes(fpdfFont, "B", boldTTF)
	pdf.SetMargins(fpdfMarginMM, fpdfMarginMM, fpdfMarginMM)
	pdf.SetAutoPageBreak(true, fpdfMarginMM)
	if len(blocks) > 0 && blocks[0].tag == atom.H1 {
		pdf.SetTitle(blocks[0].text, true)
	}
	pdf.AddPage()

	width := float64(fpdfPageWidth - 2*fpdfMarginMM)
	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := b.text
		switch b.tag {
		case atom.H1:
			pdf.SetFont(fpdfFont, "B", 18)
			pdf.MultiCell(width, 8, text, "", "L", false)
		case atom.H2:
			pdf.Ln(3)
			pdf.SetFont(fpdfFont, "B", 12)
			pdf.MultiCell(width, 6, text, "", "L", false)
			y := pdf.GetY()
			pdf.Line(fpdfMarginMM, y, fpdfMarginMM+width, y)
			pdf.Ln(1.5)
		case atom.H3:
			pdf.Ln(1)
			pdf.SetFont(fpdfFont, "B", 10.5)
			pdf.MultiCell(width, 5, text, "", "L", false)
		case atom.Li:
			pdf.SetFont(fpdfFont, "", 10)
			pdf.CellFormat(bulletIndent, 5, bullet, "", 0, "L", false, 0, "")
			pdf.MultiCell(width-bulletIndent, 5, text, "", "L", false)
		default:
			pdf.SetFont(fpdfFont, "", 10)
			pdf.MultiCell(width, 5, text, "", "L", false)
		}
	}

	var buf bytes.Buffer
	// Output reports errors recorded by earlier calls, e.g. a bad font
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// checkCoverage fails on the first rune the font used for its block cannot draw.
func checkCoverage(blocks []block) error {
	faces, err := loadFaces()
	if err != nil {
		return err
	}
	var buf sfnt.Buffer
	for _, b := range blocks {
		face := faces.regular
		if isHeading(b.tag) {
			face = faces.bold
		}
		text := b.text
		if b.tag == atom.Li {
			text = bullet + text
		}
		for _, r := range text {
			if unicode.IsSpace(r) {
				continue
			}
			gi, err := face.GlyphIndex(&buf, r)
			if err != nil {
				return err
			}
			if gi == 0 {
				return fmt.Errorf("%w: %q (U+%04X)", ErrUnsupportedText, r, r)
			}
		}
	}
	return nil
}

func isHeading(a atom.Atom) bool {
	return a == atom.H1 || a == atom.H2 || a == atom.H3
}

func findVariantRoot(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "data-variant" {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findVariantRoot(c); found != nil {
			return found
		}
	}
	return nil
}

func collectBlocks(n *html.Node, out *[]block) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Style, atom.Script:
			continue
		case atom.H1, atom.H2, atom.H3, atom.P, atom.Li:
			if text := textOf(c); text != "" {
				*out = append(*out, block{tag: c.DataAtom, text: text})
			}
		default:
			collectBlocks(c, out)
		}
	}
}

// textOf returns the text below n with runs of whitespace collapsed.
func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
