package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdesk/internal/model"
)

func namesOf(cands []Candidate) []string {
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name
	}
	return names
}

func TestRecognizeSkipsSentenceInitialCapitals(t *testing.T) {
	cands := Recognize("Hello World. Acme Corp signed the deal.")

	// "Hello" and "Acme" open their sentences; "World" and "Corp" do not.
	assert.Equal(t, []string{"World", "Corp"}, namesOf(cands))
}

func TestRecognizeCapitalizedCandidateFields(t *testing.T) {
	cands := Recognize("Hello World. Acme Corp signed the deal.")
	require.Len(t, cands, 2)

	world := cands[0]
	assert.Equal(t, "World", world.Name)
	assert.Equal(t, model.NodeTypeConcept, world.Type)
	assert.Equal(t, 0.7, world.Confidence)
	assert.Equal(t, "Hello World. Acme Corp signed", world.Context)

	corp := cands[1]
	assert.Equal(t, "Corp", corp.Name)
	assert.Equal(t, model.NodeTypeOrganization, corp.Type)
}

func TestRecognizeTechnicalTerms(t *testing.T) {
	cands := Recognize("we use context.Context and red-black trees")

	require.Len(t, cands, 2)
	assert.Equal(t, "context.Context", cands[0].Name)
	assert.Equal(t, model.NodeTypeTechnicalTerm, cands[0].Type)
	assert.Equal(t, 0.6, cands[0].Confidence)
	assert.Equal(t, "we use context.Context and red-black", cands[0].Context)

	assert.Equal(t, "red-black", cands[1].Name)
	assert.Equal(t, model.NodeTypeTechnicalTerm, cands[1].Type)
	assert.Equal(t, "context.Context and red-black trees", cands[1].Context)
}

func TestRecognizeEmitsDuplicateOccurrences(t *testing.T) {
	cands := Recognize("so Alice met Alice again")

	assert.Equal(t, []string{"Alice", "Alice"}, namesOf(cands))
}

func TestRecognizeBoundaryResetsOnExclamationAndQuestion(t *testing.T) {
	cands := Recognize("wow! Really? Sure thing happened to Bob")

	// "Really" and "Sure" open sentences; "Bob" is mid-sentence.
	assert.Equal(t, []string{"Bob"}, namesOf(cands))
}

func TestRecognizeEmptyAndLowercaseText(t *testing.T) {
	assert.Empty(t, Recognize(""))
	assert.Empty(t, Recognize("all lowercase words here"))
}

func TestGuessEntityType(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    string
	}{
		{"2024-01-15", "released on 2024-01-15 worldwide", model.NodeTypeDate},
		{"Smith", "meeting with Dr. Smith tomorrow", model.NodeTypePerson},
		{"Jones", "report by Mrs. Jones today", model.NodeTypePerson},
		{"Acme", "the Acme Inc factory", model.NodeTypeOrganization},
		{"Corp", "Acme Corp signed it", model.NodeTypeOrganization},
		{"Gravity", "the Gravity of it", model.NodeTypeConcept},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, guessEntityType(tt.name, tt.context), tt.name)
	}
}

func TestWindowClipsAtBounds(t *testing.T) {
	tokens := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, "a b c", window(tokens, 0, 2))
	assert.Equal(t, "a b c d e", window(tokens, 2, 2))
	assert.Equal(t, "c d e", window(tokens, 4, 2))
}
