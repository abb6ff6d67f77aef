// Package route contains the contract between the persistent route store, the
// route table provider and the forwarding engine consuming the route table.
package route

import (
	"context"
	"net/url"
	"strings"

	"github.com/unbasical/gatekeeper/configs"
)

// Record is one persisted route row as stored in the route store.
//
// RouteID is unique across all records (enforced by the store). Filters is
// optional and therefore nullable. Records are read-only for gatekeeper -
// they are created and maintained through an external administrative path.
type Record struct {
	ID         int64
	RouteID    string
	URI        string
	Predicates string
	Filters    *string
	Enabled    bool
}

// Clause is a single predicate or filter expression of the form "Name=arg1,arg2".
type Clause struct {
	Name string
	Args []string
}

// ParseClause splits a raw clause text into its name and arguments.
// The text before the first '=' is the clause name, the remainder is split on
// commas. A text without '=' yields a clause without arguments.
func ParseClause(text string) Clause {
	name, rawArgs, found := strings.Cut(text, "=")
	clause := Clause{Name: strings.TrimSpace(name)}
	if !found {
		return clause
	}
	for _, arg := range strings.Split(rawArgs, ",") {
		clause.Args = append(clause.Args, strings.TrimSpace(arg))
	}
	return clause
}

// Copy returns a deep copy of the clause.
func (c Clause) Copy() Clause {
	result := Clause{Name: c.Name}
	result.Args = append(result.Args, c.Args...)
	return result
}

// Definition is the routing engine's native shape of one route. It is rebuilt
// in full on every refresh cycle and has no identity beyond the cycle that
// produced it.
type Definition struct {
	ID         string
	URI        url.URL
	Predicates []Clause
	Filters    []Clause
}

// Copy returns a deep copy of the definition, so callers can hand out
// definitions without sharing mutable state.
func (d Definition) Copy() Definition {
	result := Definition{ID: d.ID, URI: d.URI}
	for _, p := range d.Predicates {
		result.Predicates = append(result.Predicates, p.Copy())
	}
	for _, f := range d.Filters {
		result.Filters = append(result.Filters, f.Copy())
	}
	return result
}

// Store is the interface that reads enabled route records from persistent storage.
//
// ListEnabled returns only records with Enabled set, in store-defined order.
// Downstream consumers must not rely on any ordering - route resolution is
// disambiguated solely by predicate specificity inside the forwarding engine.
// If the backing store cannot be reached, an errors.StorageUnavailable is
// returned; the Store does not retry internally.
type Store interface {

	// Configure has to be called once before the component can be used
	// (otherwise ListEnabled will return an error).
	Configure(appConf *configs.AppConfig, alias string) error

	// ListEnabled reads all enabled route records.
	ListEnabled(ctx context.Context) ([]Record, error)
}

// DefinitionProvider is the authoritative in-memory source of truth which the
// forwarding engine queries to resolve inbound requests to routes.
//
// ListDefinitions recomputes the full table on every call and never returns a
// partially constructed table: if the store read or any translation fails,
// the call fails entirely and the engine is expected to keep serving its
// previously cached table until the next successful refresh.
//
// Save and Delete exist to satisfy the forwarding engine's expected
// capability surface; administrative route mutation is not supported through
// this path, so both are contractual no-ops which always succeed immediately.
type DefinitionProvider interface {

	// Configure has to be called once before the component can be used
	// (otherwise ListDefinitions will return an error).
	Configure(appConf *configs.AppConfig, alias string) error

	ListDefinitions(ctx context.Context) ([]Definition, error)
	Save(ctx context.Context, definition Definition) error
	Delete(ctx context.Context, routeID string) error
}
