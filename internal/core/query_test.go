// AngelaMos | 2026
// query_test.go

package core

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestConditions(t *testing.T) {
	c := NewConditions("b.is_active")
	c.Add("b.genre = ?", "Fiction").
		Add("(b.title ILIKE ? OR b.author ILIKE ?)", "%dune%", "%dune%")
	limit := c.Arg(12)

	assert.Equal(t,
		"WHERE b.is_active AND b.genre = $1 AND (b.title ILIKE $2 OR b.author ILIKE $3)",
		c.Where(),
	)
	assert.Equal(t, "$4", limit)
	assert.Equal(t, []any{"Fiction", "%dune%", "%dune%", 12}, c.Args())
}

func TestConditions_Empty(t *testing.T) {
	assert.Empty(t, NewConditions().Where())
}

func TestSortDirection(t *testing.T) {
	assert.Equal(t, "ASC", SortDirection("asc"))
	assert.Equal(t, "ASC", SortDirection("ASC"))
	assert.Equal(t, "DESC", SortDirection("desc"))
	assert.Equal(t, "DESC", SortDirection(""))
	assert.Equal(t, "DESC", SortDirection("sideways"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, EscapeLike(`c:\dir`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestURLParamID(t *testing.T) {
	const valid = "8a6e0804-2bd0-4672-b79d-d97027f9071a"

	r := chi.NewRouter()
	r.Get("/books/{bookID}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamID(w, r, "bookID")
		if !ok {
			return
		}
		OK(w, id)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/"+valid, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), valid)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	p = NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}

func TestPageParams_Normalize(t *testing.T) {
	p := PageParams{Page: 0, PageSize: 0}.Normalize(12, 100)
	assert.Equal(t, PageParams{Page: 1, PageSize: 12}, p)
	assert.Equal(t, 0, p.Offset())

	p = PageParams{Page: 3, PageSize: 500}.Normalize(12, 100)
	assert.Equal(t, PageParams{Page: 3, PageSize: 100}, p)
	assert.Equal(t, 200, p.Offset())
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books?page=2&year=abc&minRating=3.5", nil)

	assert.Equal(t, 2, QueryInt(r, "page", 1))
	assert.Equal(t, 7, QueryInt(r, "missing", 7))
	assert.Nil(t, QueryIntPtr(r, "year"))
	if f := QueryFloatPtr(r, "minRating"); assert.NotNil(t, f) {
		assert.InDelta(t, 3.5, *f, 1e-9)
	}
}
