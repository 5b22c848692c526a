package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const bandSchemaURL = "lingua://schemas/band-evaluation.json"

const bandSchemaDocument = `{
  "type": "object",
  "required": ["band", "feedback"],
  "properties": {
    "band": {"type": "number", "minimum": 0, "maximum": 9},
    "feedback": {"type": "string", "minLength": 1},
    "criteria": {
      "type": "object",
      "additionalProperties": {"type": "number", "minimum": 0, "maximum": 9}
    }
  }
}`

var (
	bandSchemaOnce sync.Once
	bandSchema     *jsonschema.Schema
	bandSchemaErr  error
)

func compiledBandSchema() (*jsonschema.Schema, error) {
	bandSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(bandSchemaURL, strings.NewReader(bandSchemaDocument)); err != nil {
			bandSchemaErr = err
			return
		}
		bandSchema, bandSchemaErr = compiler.Compile(bandSchemaURL)
	})
	return bandSchema, bandSchemaErr
}

// ParseEvaluationResponse validates a provider answer against the band schema
// and converts it into an EvaluationResult with the band rounded to half steps.
func ParseEvaluationResponse(content string) (EvaluationResult, error) {
	content = stripCodeFence(content)

	decoder := json.NewDecoder(bytes.NewReader([]byte(content)))
	decoder.UseNumber()
	var document interface{}
	if err := decoder.Decode(&document); err != nil {
		return EvaluationResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	schema, err := compiledBandSchema()
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("compile band schema: %w", err)
	}
	if err := schema.Validate(document); err != nil {
		return EvaluationResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var data struct {
		Band     float64            `json:"band"`
		Feedback string             `json:"feedback"`
		Criteria map[string]float64 `json:"criteria"`
	}
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return EvaluationResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	criteria := make(map[string]float64, len(data.Criteria))
	for name, score := range data.Criteria {
		criteria[name] = RoundBand(score)
	}

	return EvaluationResult{
		Band:     RoundBand(data.Band),
		Feedback: strings.TrimSpace(data.Feedback),
		Criteria: criteria,
	}, nil
}

// RoundBand rounds to the nearest half band within [0, 9].
func RoundBand(value float64) float64 {
	rounded := math.Round(value*2) / 2
	return math.Max(0, math.Min(9, rounded))
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if newline := strings.IndexByte(content, '\n'); newline >= 0 {
		content = content[newline+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(content), "```"))
}
