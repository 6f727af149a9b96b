package importer

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// tradeBatchSchema validates the structural shape of an import payload. Field
// aliases are resolved after validation, so the schema only pins types and
// requires that each item carries some spelling of the mandatory fields.
const tradeBatchSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "trade_time":    {"type": "string"},
      "datetime":      {"type": "string"},
      "time":          {"type": "string"},
      "currency_pair": {"type": "string"},
      "pair":          {"type": "string"},
      "symbol":        {"type": "string"},
      "trade_type":    {"type": "string"},
      "action":        {"type": "string"},
      "side":          {"type": "string"},
      "entry_price":   {"type": "number"},
      "price":         {"type": "number"},
      "exit_price":    {"type": ["number", "null"]},
      "amount":        {"type": "number"},
      "volume":        {"type": "number"},
      "lots":          {"type": "number"},
      "profit_loss":   {"type": ["number", "null"]},
      "pnl":           {"type": ["number", "null"]}
    },
    "allOf": [
      {"anyOf": [{"required": ["trade_time"]}, {"required": ["datetime"]}, {"required": ["time"]}]},
      {"anyOf": [{"required": ["currency_pair"]}, {"required": ["pair"]}, {"required": ["symbol"]}]},
      {"anyOf": [{"required": ["trade_type"]}, {"required": ["action"]}, {"required": ["side"]}]},
      {"anyOf": [{"required": ["entry_price"]}, {"required": ["price"]}]},
      {"anyOf": [{"required": ["amount"]}, {"required": ["volume"]}, {"required": ["lots"]}]}
    ]
  }
}`

func compileBatchSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("trade_batch.json", strings.NewReader(tradeBatchSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("trade_batch.json")
}
