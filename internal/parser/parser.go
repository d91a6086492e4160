package parser

import (
	"bytes"
	"fmt"

	"github.com/dejo1307/objc2swift/internal/diag"

	tree_sitter_objc "github.com/tree-sitter-grammars/tree-sitter-objc/bindings/go"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ByteRange is a half-open [Start, End) span of source bytes.
type ByteRange struct {
	Start int
	End   int
}

// Contains reports whether the byte offset falls inside the range.
func (r ByteRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Result is the parsed form of one source: the CST, the raw bytes it indexes
// into, and the assume-nonnull regions found in the file.
type Result struct {
	Source        Source
	Content       []byte
	Tree          *sitter.Tree
	NonnullRanges []ByteRange
}

// Close releases the CST.
func (r *Result) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}

// Root returns the CST root node.
func (r *Result) Root() *sitter.Node {
	return r.Tree.RootNode()
}

// InNonnullRegion reports whether a byte offset lies inside an
// NS_ASSUME_NONNULL region.
func (r *Result) InNonnullRegion(offset int) bool {
	for _, rng := range r.NonnullRanges {
		if rng.Contains(offset) {
			return true
		}
	}
	return false
}

// Parser wraps a tree-sitter parser configured with the Objective-C grammar.
// A Parser is not safe for concurrent use; the engine creates one per
// worker.
type Parser struct {
	ts *sitter.Parser
}

// New creates a parser for Objective-C sources.
func New() (*Parser, error) {
	ts := sitter.NewParser()
	lang := sitter.NewLanguage(tree_sitter_objc.Language())
	if err := ts.SetLanguage(lang); err != nil {
		ts.Close()
		return nil, fmt.Errorf("loading objc grammar: %w", err)
	}
	return &Parser{ts: ts}, nil
}

// Close releases the underlying parser.
func (p *Parser) Close() {
	p.ts.Close()
}

// Parse produces a CST for one source. Syntax errors become diagnostics in
// the bag; the partial tree is still returned so translation can proceed
// with unknown nodes.
func (p *Parser) Parse(src Source, bag *diag.Bag) (*Result, error) {
	content, err := src.Text()
	if err != nil {
		return nil, err
	}

	tree := p.ts.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s: parser returned no tree", src.Name())
	}

	result := &Result{
		Source:        src,
		Content:       content,
		Tree:          tree,
		NonnullRanges: findNonnullRanges(content),
	}

	reportErrors(tree.RootNode(), content, src.Name(), bag)
	return result, nil
}

const (
	macroNonnullBegin = "NS_ASSUME_NONNULL_BEGIN"
	macroNonnullEnd   = "NS_ASSUME_NONNULL_END"
)

// findNonnullRanges locates the byte spans bracketed by
// NS_ASSUME_NONNULL_BEGIN/END. An unmatched BEGIN extends to the end of the
// file.
func findNonnullRanges(content []byte) []ByteRange {
	var ranges []ByteRange
	offset := 0
	openStart := -1
	for {
		rest := content[offset:]
		beginIdx := bytes.Index(rest, []byte(macroNonnullBegin))
		endIdx := bytes.Index(rest, []byte(macroNonnullEnd))

		// The two macro names share a prefix but never match at the same
		// offset; handle whichever occurs first.
		switch {
		case beginIdx < 0 && endIdx < 0:
			if openStart >= 0 {
				ranges = append(ranges, ByteRange{Start: openStart, End: len(content)})
			}
			return ranges
		case endIdx < 0 || (beginIdx >= 0 && beginIdx < endIdx):
			if openStart < 0 {
				openStart = offset + beginIdx + len(macroNonnullBegin)
			}
			offset += beginIdx + len(macroNonnullBegin)
		default:
			if openStart >= 0 {
				ranges = append(ranges, ByteRange{Start: openStart, End: offset + endIdx})
				openStart = -1
			}
			offset += endIdx + len(macroNonnullEnd)
		}
	}
}

// reportErrors walks the CST for error nodes and records each as a
// diagnostic.
func reportErrors(node *sitter.Node, content []byte, name string, bag *diag.Bag) {
	if bag == nil || !node.HasError() {
		return
	}
	if node.IsError() || node.IsMissing() {
		pos := node.StartPosition()
		text := NodeText(node, content)
		if len(text) > 40 {
			text = text[:40] + "..."
		}
		bag.Errorf(name, int(pos.Row)+1, int(pos.Column)+1, "syntax error near %q", text)
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		reportErrors(node.Child(i), content, name, bag)
	}
}

// NodeText returns the source text of a CST node.
func NodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return string(content[node.StartByte():node.EndByte()])
}

// FindChildByKind returns the first direct child with the given kind.
func FindChildByKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// ChildrenByKind returns all direct children with the given kind.
func ChildrenByKind(node *sitter.Node, kind string) []*sitter.Node {
	var result []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			result = append(result, child)
		}
	}
	return result
}
