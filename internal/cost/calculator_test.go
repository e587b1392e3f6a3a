package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"haiku":  {Input: 0.80, Output: 4.00},
			"sonnet": {Input: 3.00, Output: 15.00},
		},
		Jina: JinaRate{PerMTok: 0.02},
	}
}

func TestClaude(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	tests := []struct {
		name   string
		model  string
		input  int
		output int
		want   float64
	}{
		{name: "haiku", model: "haiku", input: 1000000, output: 100000, want: 0.80 + 0.40},
		{name: "sonnet", model: "sonnet", input: 1000000, output: 100000, want: 3.00 + 1.50},
		{name: "unknown model is free", model: "mystery", input: 1000000, output: 1000000, want: 0},
		{name: "zero tokens", model: "haiku", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calc.Claude(tt.model, tt.input, tt.output), 1e-9)
		})
	}
}

func TestJina(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())
	assert.InDelta(t, 0.02, calc.Jina(1000000), 1e-9)
}

func TestEstimateDraft(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	// 4000 chars ~ 1000 input tokens, plus the full 1500-token output cap.
	want := calc.Claude("haiku", 1000, 1500)
	assert.InDelta(t, want, calc.EstimateDraft("haiku", 4000, 1500), 1e-9)
	assert.Positive(t, want)
}

func TestDefaultRates(t *testing.T) {
	t.Parallel()
	rates := DefaultRates()
	assert.NotEmpty(t, rates.Anthropic)
	assert.Positive(t, rates.Jina.PerMTok)
}
