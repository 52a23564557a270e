package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// extractionSchema is the JSON schema the model's output must satisfy. It
// mirrors the extraction result shape so a validated response unmarshals
// directly.
const extractionSchema = `{
  "type": "object",
  "properties": {
    "patient_info": {
      "type": "object",
      "properties": {
        "nombre": {"type": "string"},
        "tipo_documento": {"type": "string"},
        "documento": {"type": "string"}
      }
    },
    "policy_info": {
      "type": "object",
      "properties": {
        "numero_liquidacion": {"type": "string"},
        "poliza": {"type": "string"},
        "numero_reclamacion": {"type": "string"},
        "aseguradora": {"type": "string"},
        "fecha_siniestro": {"type": "string"},
        "fecha_ingreso": {"type": "string"},
        "fecha_egreso": {"type": "string"},
        "fecha_liquidacion": {"type": "string"}
      }
    },
    "procedures": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "codigo": {"type": "string"},
          "descripcion": {"type": "string"},
          "cantidad": {"type": "integer"},
          "valor_unitario": {"type": "number"},
          "valor_total": {"type": "number"},
          "valor_pagado": {"type": "number"},
          "valor_objetado": {"type": "number"},
          "observacion": {"type": "string"}
        },
        "required": ["codigo", "valor_total"]
      }
    },
    "diagnostics": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "codigo": {"type": "string"},
          "tipo": {"type": "string"},
          "descripcion": {"type": "string"}
        },
        "required": ["codigo"]
      }
    },
    "ips_info": {
      "type": "object",
      "properties": {
        "nombre": {"type": "string"},
        "nit": {"type": "string"},
        "factura": {"type": "string"}
      }
    },
    "financial_summary": {
      "type": "object",
      "properties": {
        "total_reclamado": {"type": "number"},
        "total_objetado": {"type": "number"},
        "total_pagado": {"type": "number"},
        "total_aceptado": {"type": "number"}
      }
    }
  },
  "required": ["patient_info", "procedures"]
}`

var compiledExtractionSchema = mustCompileSchema(extractionSchema)

func mustCompileSchema(raw string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader([]byte(raw))); err != nil {
		panic(fmt.Sprintf("llm: load extraction schema: %v", err))
	}
	return compiler.MustCompile("extraction.json")
}

// ParseStructured recovers a JSON document from model output, tolerating
// markdown code fences and surrounding prose, and validates it against the
// extraction schema.
func ParseStructured(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty model output")
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	var lastErr error
	for _, candidate := range candidates {
		var doc any
		if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
			lastErr = err
			continue
		}
		if err := compiledExtractionSchema.Validate(doc); err != nil {
			lastErr = fmt.Errorf("output does not match extraction schema: %w", err)
			continue
		}
		normalized, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("normalize model output: %w", err)
		}
		return normalized, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no JSON found in model output")
	}
	return nil, lastErr
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}
