// Package route contains the route table provider and the translation of
// stored route records into route definitions.
package route

import (
	"net/url"
	"strings"

	gkErr "github.com/unbasical/gatekeeper/pkg/errors"
	"github.com/unbasical/gatekeeper/pkg/route"
)

// PredicatePath is the clause name under which path predicates are matched.
const PredicatePath = "Path"

// Translate converts a stored route record into the routing engine's native
// definition shape. It is pure and total over any record satisfying the data
// model invariants; a malformed target URI yields a gkErr.RouteTranslation.
func Translate(record route.Record) (route.Definition, error) {
	target, err := url.Parse(strings.TrimSpace(record.URI))
	if err != nil {
		return route.Definition{}, gkErr.RouteTranslation{RouteID: record.RouteID, Msg: "malformed target uri " + record.URI, Cause: err}
	}
	if !target.IsAbs() {
		return route.Definition{}, gkErr.RouteTranslation{RouteID: record.RouteID, Msg: "target uri " + record.URI + " is not absolute"}
	}

	definition := route.Definition{
		ID:  record.RouteID,
		URI: *target,
	}

	// The entire trimmed predicate spec becomes the sole path clause.
	// Comma separated multi-clause specs are deliberately NOT split.
	definition.Predicates = append(definition.Predicates, route.Clause{
		Name: PredicatePath,
		Args: []string{strings.TrimSpace(record.Predicates)},
	})

	// Same single-clause policy for the optional filter spec.
	if record.Filters != nil {
		definition.Filters = append(definition.Filters, route.ParseClause(strings.TrimSpace(*record.Filters)))
	}

	return definition, nil
}
