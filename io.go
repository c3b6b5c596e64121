package pcfg

import (
	"bufio"
	"encoding/gob"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Encoding of rule and sentence files
type Encoding string

const (
	Latin1 Encoding = "latin1"
	UTF8   Encoding = "utf8"
)

// ParseEncoding converts a configuration value to an Encoding
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "latin1", "iso-8859-1", "iso8859-1":
		return Latin1, nil
	case "utf8", "utf-8":
		return UTF8, nil
	}
	return "", errors.Errorf("unknown encoding %q", s)
}

// NewDecoder wraps in so that it yields UTF-8
func NewDecoder(in io.Reader, enc Encoding) io.Reader {
	if enc == Latin1 {
		return charmap.ISO8859_1.NewDecoder().Reader(in)
	}
	return in
}

// NewEncoder wraps out so that UTF-8 written to it is stored in enc
func NewEncoder(out io.Writer, enc Encoding) io.Writer {
	if enc == Latin1 {
		return charmap.ISO8859_1.NewEncoder().Writer(out)
	}
	return out
}

// LoadPolicy decides what ReadRules does with bad training lines
type LoadPolicy struct {
	// SkipMalformed logs and skips malformed lines instead of failing
	SkipMalformed bool

	// MergeDuplicates adds the counts of repeated rules instead of failing
	MergeDuplicates bool
}

// ReadRules reads rule-count lines from in into g and returns the number of
// rules read. Blank lines are ignored. The grammar is not normalized
func ReadRules(in io.Reader, g *Grammar, policy LoadPolicy) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo, added, skipped := 0, 0, 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		err := addRecord(g, line, policy)
		if err == nil {
			added++
			continue
		}

		var malformedErr *MalformedRuleError
		if !errors.As(err, &malformedErr) {
			return added, errors.Wrapf(err, "line %d", lineNo)
		}
		malformedErr.Line = lineNo
		if !policy.SkipMalformed {
			return added, malformedErr
		}
		glog.Warningf("skipping %v", malformedErr)
		skipped++
	}
	if err := scanner.Err(); err != nil {
		return added, errors.Wrap(err, "reading rules")
	}
	if skipped > 0 {
		glog.Warningf("skipped %d malformed rule lines", skipped)
	}
	return added, nil
}

func addRecord(g *Grammar, line string, policy LoadPolicy) error {
	record, err := ParseRuleRecord(line)
	if err != nil {
		return err
	}
	if policy.MergeDuplicates {
		return g.Observe(record.Rule())
	}
	return g.AddRule(record.Rule())
}

// LoadGrammar reads and normalizes the rule-count file at path
func LoadGrammar(path string, enc Encoding, policy LoadPolicy) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening rules")
	}
	defer f.Close()

	g := NewGrammar()
	n, err := ReadRules(NewDecoder(f, enc), g, policy)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	if err := g.Normalize(); err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	stats := g.Stats()
	glog.Infof("loaded %d rules (%d unary, %d binary) for %d parents from %s",
		n, stats.Unary, stats.Binary, stats.Parents, path)
	return g, nil
}

// ReadSentences reads one whitespace tokenized sentence per line. Blank lines
// are kept as empty sentences so results stay aligned with the input lines
func ReadSentences(in io.Reader) ([][]Label, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	sentences := [][]Label{}
	for scanner.Scan() {
		sentences = append(sentences, Tokens(strings.Fields(scanner.Text())))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading sentences")
	}
	return sentences, nil
}

// LoadSentences reads the sentence file at path
func LoadSentences(path string, enc Encoding) ([][]Label, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening sentences")
	}
	defer f.Close()

	sentences, err := ReadSentences(NewDecoder(f, enc))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return sentences, nil
}

// grammarSnapshot is the gob form of a normalized grammar
type grammarSnapshot struct {
	Rules []Rule
}

// WriteGrammar serializes a normalized grammar with gob
func WriteGrammar(out io.Writer, g *Grammar) error {
	if !g.Normalized() {
		return ErrUnnormalized
	}
	snapshot := grammarSnapshot{Rules: make([]Rule, len(g.rules))}
	for i, rule := range g.rules {
		snapshot.Rules[i] = *rule
	}
	return errors.Wrap(gob.NewEncoder(out).Encode(snapshot), "encoding grammar")
}

// ReadGrammar deserializes a grammar written by WriteGrammar. The rules keep
// their probabilities and the indices are rebuilt in insertion order
func ReadGrammar(in io.Reader) (*Grammar, error) {
	var snapshot grammarSnapshot
	if err := gob.NewDecoder(in).Decode(&snapshot); err != nil {
		return nil, errors.Wrap(err, "decoding grammar")
	}

	g := NewGrammar()
	for _, rule := range snapshot.Rules {
		if _, ok := g.keys[rule.key()]; ok {
			return nil, malformed(rule.fields(), "duplicate rule in snapshot")
		}
		g.insert(rule)
	}
	g.normalized = true
	return g, nil
}

// ReadGrammarFile reads a grammar snapshot from path
func ReadGrammarFile(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening grammar")
	}
	defer f.Close()
	g, err := ReadGrammar(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return g, nil
}

// WriteGrammarFile writes a grammar snapshot to path
func WriteGrammarFile(path string, g *Grammar) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating grammar")
	}
	if err := WriteGrammar(f, g); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing grammar")
}
