// Package entity scans extracted document text for candidate knowledge-graph
// entities using deterministic token heuristics.
package entity

import (
	"regexp"
	"strings"

	"graphdesk/internal/model"
)

// Candidate is one potential entity occurrence. The same name may be emitted
// multiple times per document; dedup and counting happen in the graph builder.
type Candidate struct {
	Name       string
	Type       string
	Confidence float64
	Context    string
}

const (
	capitalizedConfidence = 0.7
	technicalConfidence   = 0.6

	capitalizedWindow = 3 // tokens on each side
	technicalWindow   = 2
)

var (
	capitalizedToken = regexp.MustCompile(`^[A-Z][a-z]{2,}`)
	dottedTerm       = regexp.MustCompile(`^[a-z]+\.[A-Za-z]+`)
	hyphenatedTerm   = regexp.MustCompile(`^[a-z]+-[a-z]+`)
	isoDate          = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const namePunct = ".,;:!?\"'()[]{}"

// Recognize tokenizes text on whitespace and yields candidates in scan order.
//
// Capitalized tokens are skipped when they are the first token after a
// sentence boundary, so ordinary sentence-initial capitals are not flagged.
// The boundary flag resets whenever a token ends in '.', '!' or '?'.
// Technical-term detection runs on every token regardless of the flag, so a
// single token can yield up to two candidates.
func Recognize(text string) []Candidate {
	tokens := strings.Fields(text)
	var out []Candidate

	inSentence := false
	for i, tok := range tokens {
		if inSentence && capitalizedToken.MatchString(tok) {
			name := strings.Trim(tok, namePunct)
			ctx := window(tokens, i, capitalizedWindow)
			out = append(out, Candidate{
				Name:       name,
				Type:       guessEntityType(name, ctx),
				Confidence: capitalizedConfidence,
				Context:    ctx,
			})
		}

		if dottedTerm.MatchString(tok) || hyphenatedTerm.MatchString(tok) {
			out = append(out, Candidate{
				Name:       strings.Trim(tok, namePunct),
				Type:       model.NodeTypeTechnicalTerm,
				Confidence: technicalConfidence,
				Context:    window(tokens, i, technicalWindow),
			})
		}

		inSentence = !endsSentence(tok)
	}
	return out
}

func endsSentence(tok string) bool {
	if tok == "" {
		return false
	}
	switch tok[len(tok)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// window returns the tokens within radius of center, clipped at the bounds,
// joined by single spaces.
func window(tokens []string, center, radius int) string {
	lo := center - radius
	if lo < 0 {
		lo = 0
	}
	hi := center + radius + 1
	if hi > len(tokens) {
		hi = len(tokens)
	}
	return strings.Join(tokens[lo:hi], " ")
}

var honorifics = []string{"Mr.", "Mrs.", "Ms.", "Dr.", "Prof.", "Mr", "Mrs", "Ms", "Dr", "Prof"}

var orgSuffixes = []string{"Inc", "Corp", "LLC", "Ltd"}

// guessEntityType classifies a candidate from its surface form and the token
// window it was found in.
func guessEntityType(name, context string) string {
	if isoDate.MatchString(name) {
		return model.NodeTypeDate
	}
	for _, h := range honorifics {
		if strings.Contains(context, h+" "+name) {
			return model.NodeTypePerson
		}
	}
	for _, suffix := range orgSuffixes {
		if name == suffix || strings.Contains(context, name+" "+suffix) {
			return model.NodeTypeOrganization
		}
	}
	return model.NodeTypeConcept
}
