package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gkErr "github.com/unbasical/gatekeeper/pkg/errors"
	"github.com/unbasical/gatekeeper/pkg/route"
)

func TestTranslateFullRecord(t *testing.T) {
	filters := "StripPrefix=2"
	record := route.Record{
		ID:         1,
		RouteID:    "member-service",
		URI:        "http://member-service:8080",
		Predicates: "/api/v1/member/**",
		Filters:    &filters,
		Enabled:    true,
	}

	definition, err := Translate(record)
	assert.NoError(t, err)
	assert.Equal(t, "member-service", definition.ID)
	assert.Equal(t, "http://member-service:8080", definition.URI.String())
	assert.Equal(t, []route.Clause{{Name: PredicatePath, Args: []string{"/api/v1/member/**"}}}, definition.Predicates)
	assert.Equal(t, []route.Clause{{Name: "StripPrefix", Args: []string{"2"}}}, definition.Filters)
}

func TestTranslateWithoutFilters(t *testing.T) {
	record := route.Record{
		RouteID:    "plain",
		URI:        "https://upstream.internal",
		Predicates: "/plain",
	}

	definition, err := Translate(record)
	assert.NoError(t, err)
	assert.Empty(t, definition.Filters)
}

func TestTranslateTrimsSpecs(t *testing.T) {
	record := route.Record{
		RouteID:    "padded",
		URI:        "  http://upstream:9000  ",
		Predicates: "  /api/padded/**  ",
	}

	definition, err := Translate(record)
	assert.NoError(t, err)
	assert.Equal(t, "http://upstream:9000", definition.URI.String())
	assert.Equal(t, "/api/padded/**", definition.Predicates[0].Args[0])
}

func TestTranslateKeepsCommaSpecAsSingleClause(t *testing.T) {
	// A comma separated predicate spec stays one clause. Splitting it here
	// would invent routes the route table never contained.
	record := route.Record{
		RouteID:    "multi",
		URI:        "http://upstream:9000",
		Predicates: "/api/a/**, /api/b/**",
	}

	definition, err := Translate(record)
	assert.NoError(t, err)
	assert.Len(t, definition.Predicates, 1)
	assert.Equal(t, []string{"/api/a/**, /api/b/**"}, definition.Predicates[0].Args)
}

func TestTranslateRelativeURIFails(t *testing.T) {
	record := route.Record{
		RouteID:    "broken",
		URI:        "upstream-host/path",
		Predicates: "/api/broken/**",
	}

	_, err := Translate(record)
	assert.Error(t, err)
	assert.IsType(t, gkErr.RouteTranslation{}, err)
}

func TestTranslateMalformedURIFails(t *testing.T) {
	record := route.Record{
		RouteID:    "broken",
		URI:        "://missing-scheme",
		Predicates: "/api/broken/**",
	}

	_, err := Translate(record)
	assert.Error(t, err)
	assert.IsType(t, gkErr.RouteTranslation{}, err)
}

func TestTranslateIsDeterministic(t *testing.T) {
	filters := "StripPrefix=1"
	record := route.Record{
		RouteID:    "stable",
		URI:        "http://upstream:9000",
		Predicates: "/api/stable/**",
		Filters:    &filters,
	}

	first, err := Translate(record)
	assert.NoError(t, err)
	second, err := Translate(record)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
