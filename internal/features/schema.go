// Package features derives the fixed-order feature vectors shared by the
// learned predictors. The schema version and feature order are a contract:
// any persisted model carries the version it was trained against, and a
// mismatch at load time invalidates the model.
package features

// SchemaVersion identifies the current feature vector layout. Bump it
// whenever Names changes in content or order.
const SchemaVersion = "v1"

// Names lists the feature names in extraction order. Index 0 is the
// formula baseline total; the rest are home-minus-away differentials.
var Names = []string{
	"formula_total",
	"tempo_diff",
	"oe_diff",
	"de_diff",
	"efg_diff",
	"tov_diff",
	"oreb_diff",
	"dreb_diff",
}

// Count returns the feature vector width for the current schema
func Count() int {
	return len(Names)
}

// NamesCopy returns a defensive copy of the ordered feature names
func NamesCopy() []string {
	out := make([]string, len(Names))
	copy(out, Names)
	return out
}
