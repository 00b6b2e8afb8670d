package openai

import (
	"fmt"

	"github.com/finsight/advisor/ai"
)

const stageResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "findings": {
      "type": "array",
      "items": {"type": "string"}
    },
    "recommendations": {
      "type": "array",
      "items": {"type": "string"}
    },
    "policy_references": {
      "type": "array",
      "items": {"type": "string"}
    },
    "summary": {
      "type": "string"
    }
  },
  "required": ["findings", "recommendations", "policy_references", "summary"],
  "additionalProperties": false
}`

const stagePromptTemplate = `You are %s, a senior banking domain expert.

%s

Ground every finding in the customer facts and policy evidence provided. Cite
the source document name of any policy you rely on in "policy_references".
Earlier agents' conclusions appear in the context; you may reference them
verbatim.

Output ONLY valid JSON which complies with the schema given below. Do not
include any preamble, explanation, greeting, or acknowledgment. Start your
response directly with the opening brace { and end with the closing brace }.
Your output must exactly follow this schema:

%s

Rules:
- Findings and recommendations are complete sentences, most important first.
- "summary" is 2-3 sentences the next analyst can build on.
- If the evidence does not support a conclusion, omit it. Do not hallucinate.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// buildStagePrompt creates the system prompt for one reasoning stage.
func buildStagePrompt(req ai.StageRequest) string {
	return fmt.Sprintf(stagePromptTemplate, req.Agent, req.Instructions, stageResponseSchema)
}
