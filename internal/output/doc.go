// Package output renders doxir results as YAML or JSON.
//
// # Output Types
//
//   - ParseOutput: extracted header IR (doxir parse)
//   - CheckOutput: per-file validation results plus a summary (doxir check)
//   - RulesOutput: the numbered rule table (doxir rules)
//
// # Format Types
//
//   - YAML (default): human-readable, keys match the IR field names
//   - JSON: same structure as YAML, for tooling and agents
//
// Both formats share the struct tags on the extract IR, so a header
// rendered in either format carries the same keys in the same order.
package output
