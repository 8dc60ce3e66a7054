/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package extractor turns a page's content stream into an ordered sequence
// of text spans: §4.H's buffering, merge, dedup, and reading-order rules on
// top of the state machine contentstream drives.
package extractor

import (
	"math"
	"strings"
	"unicode"

	"github.com/docsurface/pdftext/contentstream"
	"github.com/docsurface/pdftext/core"
	"github.com/docsurface/pdftext/model"
)

// TextSpan is one run of text sharing an origin, font, and color: either a
// buffered run of Tj/TJ-shown characters or a synthetic word-boundary space.
type TextSpan struct {
	Text     string
	X, Y     float64
	Width    float64
	FontSize float64
	FontName string
	Weight   string
	Color    model.RGB
	MCID     *int

	// Seq is the order this span (or, for a word-boundary space, this
	// synthetic span) was emitted in, starting at 0 for each ExtractPage
	// call. The reading-order sort uses it as an explicit tie-breaker so
	// spans that land on the same baseline and column keep a stable,
	// reproducible order.
	Seq int
}

// TextChar is the character-mode compatibility shim: one entry per glyph,
// alongside the span-mode output span mode makes primary.
type TextChar struct {
	Text     string
	X, Y     float64
	FontSize float64
	FontName string
}

// Extractor drives a page's content stream through contentstream.Processor,
// buffering shown text into TextSpans per §4.H.
type Extractor struct {
	doc *core.Document
	cfg Config

	resourcesStack []*model.Resources
	visited        map[core.Reference]bool

	proc *contentstream.Processor

	spans []TextSpan
	chars []TextChar
	seq   int

	bufActive    bool
	buf          strings.Builder
	bufStartX    float64
	bufStartY    float64
	bufFontSize  float64
	bufFontName  string
	bufWeight    string
	bufColor     model.RGB
	bufMCID      *int
	bufWidth     float64
	bufLastRune  rune
	bufHasLetter bool
}

// NewExtractor returns an Extractor reading resources through doc, applying
// cfg's thresholds.
func NewExtractor(doc *core.Document, cfg Config) *Extractor {
	return &Extractor{doc: doc, cfg: cfg, visited: map[core.Reference]bool{}}
}

// ExtractPage runs page's content stream and returns its text spans in
// reading order, after the merge, dedup, and column-aware sort passes.
func (e *Extractor) ExtractPage(page *model.Page) ([]TextSpan, error) {
	data, err := page.ContentBytes()
	if err != nil {
		return nil, err
	}
	ops, _ := contentstream.NewParser(data).Parse()

	e.spans = nil
	e.chars = nil
	e.seq = 0
	e.bufActive = false
	e.visited = map[core.Reference]bool{}

	e.resourcesStack = []*model.Resources{page.Resources}
	e.proc = contentstream.NewProcessor(page.Resources, e)
	if err := e.proc.Execute(ops); err != nil {
		return nil, err
	}
	e.flushBuffer(e.proc.Current())

	pageWidth := 612.0
	if page.MediaBox != nil {
		pageWidth = page.MediaBox.Width()
	}

	spans := dedupSpans(e.spans, e.cfg)
	spans = mergeSpans(spans, e.cfg)
	spans = sortReadingOrder(spans, pageWidth, e.cfg)
	return spans, nil
}

// Chars returns the character-mode shim output from the most recent
// ExtractPage call.
func (e *Extractor) Chars() []TextChar { return e.chars }

func (e *Extractor) currentResources() *model.Resources {
	return e.resourcesStack[len(e.resourcesStack)-1]
}

func (e *Extractor) fontFor(gs *contentstream.GraphicsState) *model.Font {
	if f, ok := e.currentResources().Font(gs.FontName); ok {
		return f
	}
	return model.UnknownFont()
}

// Flush implements contentstream.Handler.
func (e *Extractor) Flush(gs *contentstream.GraphicsState) error {
	e.flushBuffer(gs)
	return nil
}

// ShowText implements contentstream.Handler for Tj, ', and ".
func (e *Extractor) ShowText(s string, gs *contentstream.GraphicsState) error {
	e.showString(s, gs)
	return nil
}

// ShowTextArray implements contentstream.Handler for TJ.
func (e *Extractor) ShowTextArray(elems []core.Object, gs *contentstream.GraphicsState) error {
	for _, raw := range elems {
		switch t := core.Direct(raw).(type) {
		case *core.String:
			s := t.Str()
			if isWhitespaceOnly(s) && e.bufHasLetter && unicode.IsLower(e.bufLastRune) {
				continue
			}
			e.showString(s, gs)
		case *core.Integer, *core.Real:
			delta, _ := core.ToFloat(t)
			e.applyTJDelta(delta, gs)
		}
	}
	return nil
}

// Do implements contentstream.Handler for XObjects: recurses into Form
// XObjects (scoped by an implicit q/Q and deduplicated by a visited set),
// produces nothing for Images.
func (e *Extractor) Do(name string, gs *contentstream.GraphicsState) error {
	res := e.currentResources()
	stream, subtype, ok := res.XObject(name)
	if !ok || subtype != "Form" {
		return nil
	}
	key := core.Reference{ObjectNumber: stream.ObjectNumber, GenerationNumber: stream.GenerationNumber}
	if e.visited[key] {
		return nil
	}
	e.visited[key] = true

	data, err := core.DecodeStream(stream)
	if err != nil {
		return nil
	}
	ops, _ := contentstream.NewParser(data).Parse()

	formRes := res
	if dict, ok := resolveDict(e.doc, stream.Get("Resources")); ok {
		formRes = model.NewResources(e.doc, dict)
	}
	e.resourcesStack = append(e.resourcesStack, formRes)
	e.proc.Stack().Save()

	err = e.proc.Execute(ops)

	e.proc.Stack().Restore()
	e.resourcesStack = e.resourcesStack[:len(e.resourcesStack)-1]
	return err
}

// InlineImage implements contentstream.Handler: inline images never produce
// text.
func (e *Extractor) InlineImage(img *contentstream.InlineImage, gs *contentstream.GraphicsState) error {
	return nil
}

func resolveDict(doc *core.Document, obj core.Object) (*core.Dictionary, bool) {
	if obj == nil {
		return nil, false
	}
	if ref, ok := obj.(*core.Reference); ok {
		loaded, err := doc.Load(ref)
		if err != nil {
			return nil, false
		}
		return core.GetDict(loaded)
	}
	return core.GetDict(obj)
}

func (e *Extractor) showString(s string, gs *contentstream.GraphicsState) {
	font := e.fontFor(gs)
	for _, code := range decodeCodes([]byte(s), font.CodeLength()) {
		e.emitCode(code, font, gs)
	}
}

func (e *Extractor) emitCode(code uint32, font *model.Font, gs *contentstream.GraphicsState) {
	if !e.bufActive {
		e.startBuffer(gs, font)
	}

	text := filterControl(font.CodeToUnicode(code))

	originX, originY := gs.TextMatrix.E, gs.TextMatrix.F
	effectiveSize := gs.FontSize * math.Abs(gs.TextMatrix.D)
	e.chars = append(e.chars, TextChar{Text: text, X: originX, Y: originY, FontSize: effectiveSize, FontName: gs.FontName})

	if text != "" {
		e.buf.WriteString(text)
		for _, r := range text {
			e.bufLastRune = r
			e.bufHasLetter = true
		}
	}

	glyphWidth := font.Width(code)
	tw := 0.0
	if code == 0x20 {
		tw = gs.WordSpace
	}
	advance := (glyphWidth/1000*gs.FontSize + gs.CharSpace + tw) * (gs.HorizontalScaling / 100)
	e.bufWidth += advance
	gs.TextMatrix = gs.TextMatrix.Multiply(contentstream.TranslationMatrix(advance, 0))
}

func (e *Extractor) applyTJDelta(delta float64, gs *contentstream.GraphicsState) {
	if delta < e.cfg.TJWordBoundaryThreshold {
		e.flushWithSpace(gs)
	}
	advance := -delta / 1000 * gs.FontSize * (gs.HorizontalScaling / 100)
	e.bufWidth += advance
	gs.TextMatrix = gs.TextMatrix.Multiply(contentstream.TranslationMatrix(advance, 0))
}

func (e *Extractor) startBuffer(gs *contentstream.GraphicsState, font *model.Font) {
	e.bufActive = true
	e.buf.Reset()
	e.bufStartX = gs.TextMatrix.E
	e.bufStartY = gs.TextMatrix.F
	e.bufFontSize = gs.FontSize * math.Abs(gs.TextMatrix.D)
	e.bufFontName = gs.FontName
	e.bufWeight = font.Weight
	e.bufColor = gs.FillColor
	e.bufMCID = copyMCID(gs.MarkedContentID)
	e.bufWidth = 0
	e.bufHasLetter = false
}

func (e *Extractor) flushBuffer(gs *contentstream.GraphicsState) {
	if !e.bufActive {
		return
	}
	e.bufActive = false
	if e.buf.Len() == 0 {
		return
	}
	e.spans = append(e.spans, TextSpan{
		Text: e.buf.String(), X: e.bufStartX, Y: e.bufStartY, Width: e.bufWidth,
		FontSize: e.bufFontSize, FontName: e.bufFontName, Weight: e.bufWeight,
		Color: e.bufColor, MCID: e.bufMCID, Seq: e.nextSeq(),
	})
}

// flushWithSpace ends the current run and emits a synthetic space span at
// the current text position, per the TJ large-negative-adjustment rule.
func (e *Extractor) flushWithSpace(gs *contentstream.GraphicsState) {
	e.flushBuffer(gs)
	width := (250.0/1000*gs.FontSize + gs.WordSpace) * (gs.HorizontalScaling / 100)
	e.spans = append(e.spans, TextSpan{
		Text: " ", X: gs.TextMatrix.E, Y: gs.TextMatrix.F, Width: width,
		FontSize: gs.FontSize * math.Abs(gs.TextMatrix.D), FontName: gs.FontName,
		Weight: e.fontFor(gs).Weight, Color: gs.FillColor, MCID: copyMCID(gs.MarkedContentID),
		Seq: e.nextSeq(),
	})
}

func (e *Extractor) nextSeq() int {
	s := e.seq
	e.seq++
	return s
}

func copyMCID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// decodeCodes splits a shown string into character codes of width n (1 for
// simple fonts, 2 for composite fonts), per the resolution this core gives
// every composite font (Identity-style, uniform two-byte codespace).
func decodeCodes(b []byte, n int) []uint32 {
	if n < 1 {
		n = 1
	}
	var codes []uint32
	for i := 0; i+n <= len(b); i += n {
		var v uint32
		for j := 0; j < n; j++ {
			v = v<<8 | uint32(b[i+j])
		}
		codes = append(codes, v)
	}
	return codes
}

// filterControl drops NUL and other control characters except tab/CR/LF, per
// the font-resolution failure semantics in §4.E.
func filterControl(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\t' || r == '\r' || r == '\n' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWhitespaceOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
