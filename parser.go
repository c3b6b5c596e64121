package pcfg

import (
	"time"
)

// DefaultMaxLength is the longest sentence parsed by default. Longer ones are
// ignored instead of paying for the cubic chart
const DefaultMaxLength = 25

// IgnoreSentinel is the output for a sentence longer than the length limit
const IgnoreSentinel = "*IGNORE*"

// Outcome classifies the result of parsing one sentence
type Outcome int

const (
	// Parsed means a tree rooted at the root label was found
	Parsed Outcome = iota

	// NoParse means the grammar can not derive the sentence from the root
	NoParse

	// Ignored means the sentence exceeded the length limit
	Ignored

	// Rejected means the sentence was structurally invalid, see Result.Err
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case NoParse:
		return "no_parse"
	case Ignored:
		return "ignored"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Result is the outcome of parsing one sentence. None of the outcomes is a
// failure of the batch: String() gives the line to print for each
type Result struct {
	Tree    string
	Outcome Outcome
	Err     error

	// Run identifies the batch the sentence was parsed in, empty for Parse
	Run string

	tree *Tree
}

func (r Result) String() string {
	switch r.Outcome {
	case Parsed:
		return r.Tree
	case Ignored:
		return IgnoreSentinel
	}
	return ""
}

// Pretty returns the tree in the indented multi-line form, or String() when
// there is no tree
func (r Result) Pretty() string {
	if r.Outcome == Parsed && r.tree != nil {
		return r.tree.String()
	}
	return r.String()
}

// Observer is notified once per parsed sentence. It is called from the
// worker goroutines and must be safe for concurrent use
type Observer interface {
	ObserveParse(tokens int, result Result, elapsed time.Duration)
}

// Parser is the struct for PCFG parsing
type Parser struct {
	grammar   *Grammar
	root      Label
	maxLength int
	style     RenderStyle
	observer  Observer

	debinarize bool
}

// Option configures a Parser
type Option func(*Parser)

// WithRoot sets the start symbol, TOP by default
func WithRoot(root Label) Option {
	return func(p *Parser) {
		p.root = root
	}
}

// WithMaxLength sets the longest sentence that is parsed
func WithMaxLength(n int) Option {
	return func(p *Parser) {
		p.maxLength = n
	}
}

// WithRenderStyle sets how unary chains are rendered
func WithRenderStyle(style RenderStyle) Option {
	return func(p *Parser) {
		p.style = style
	}
}

// WithDebinarize splices the "_" labels of a binarized grammar out of the
// output trees, see Tree.Debinarize
func WithDebinarize(on bool) Option {
	return func(p *Parser) {
		p.debinarize = on
	}
}

// WithObserver registers an observer for parse results
func WithObserver(o Observer) Option {
	return func(p *Parser) {
		p.observer = o
	}
}

// NewParser creates a new instance of PCFG parser over a normalized grammar.
// It panics if the grammar has not been normalized
func NewParser(grammar *Grammar, opts ...Option) *Parser {
	grammar.mustBeNormalized()
	p := &Parser{
		grammar:   grammar,
		root:      RootLabel,
		maxLength: DefaultMaxLength,
		style:     CollapseUnary,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Grammar returns the grammar used by the parser
func (p *Parser) Grammar() *Grammar {
	return p.grammar
}

// Root returns the start symbol
func (p *Parser) Root() Label {
	return p.root
}

// Parse parses tokens and returns the best tree as a bracketed string. A
// sentence the grammar can not derive gives an empty tree, never an error
func (p *Parser) Parse(tokens []Label) Result {
	start := time.Now()
	result := p.parse(tokens)
	if p.observer != nil {
		p.observer.ObserveParse(len(tokens), result, time.Since(start))
	}
	return result
}

func (p *Parser) parse(tokens []Label) Result {
	if len(tokens) > p.maxLength {
		return Result{Outcome: Ignored}
	}

	chart, err := Fill(p.grammar, tokens)
	if err != nil {
		return Result{Outcome: Rejected, Err: err}
	}

	tree := p.extract(chart)
	if tree == nil {
		return Result{Outcome: NoParse}
	}
	return Result{Tree: tree.Bracketed(), Outcome: Parsed, tree: tree}
}

// ParseTree parses tokens and returns the tree itself, nil when there is no
// parse. Unlike Parse it does not apply the length limit
func (p *Parser) ParseTree(tokens []Label) (*Tree, error) {
	chart, err := Fill(p.grammar, tokens)
	if err != nil {
		return nil, err
	}
	return p.extract(chart), nil
}

func (p *Parser) extract(chart *Chart) *Tree {
	tree := Extract(chart, p.root, p.style)
	if p.debinarize {
		tree.Debinarize()
	}
	return tree
}

// Tokens converts words to labels
func Tokens(words []string) []Label {
	labels := make([]Label, len(words))
	for i, w := range words {
		labels[i] = Label(w)
	}
	return labels
}
