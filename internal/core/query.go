// AngelaMos | 2026
// query.go

package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Conditions accumulates AND-ed SQL predicates with positional arguments.
// Each "?" in a clause is rewritten to the next $n placeholder.
type Conditions struct {
	clauses []string
	args    []any
}

func NewConditions(base ...string) *Conditions {
	return &Conditions{clauses: append([]string(nil), base...)}
}

func (c *Conditions) Add(clause string, args ...any) *Conditions {
	var b strings.Builder
	next := 0
	for _, ch := range clause {
		if ch == '?' && next < len(args) {
			c.args = append(c.args, args[next])
			next++
			fmt.Fprintf(&b, "$%d", len(c.args))
			continue
		}
		b.WriteRune(ch)
	}
	c.clauses = append(c.clauses, b.String())
	return c
}

// Arg appends a value and returns its placeholder, for use outside WHERE.
func (c *Conditions) Arg(v any) string {
	c.args = append(c.args, v)
	return fmt.Sprintf("$%d", len(c.args))
}

func (c *Conditions) Where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.clauses, " AND ")
}

func (c *Conditions) Args() []any {
	return c.args
}

// SortDirection maps a request's sortOrder to SQL. Anything other than
// "asc" sorts descending.
func SortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

// URLParamID reads a UUID path parameter. On a malformed value it writes a
// validation error and returns false.
func URLParamID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		JSONError(w, ValidationError([]FieldError{{
			Field:   name,
			Message: "must be a valid id",
		}}))
		return "", false
	}
	return id.String(), true
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
