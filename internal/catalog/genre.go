// AngelaMos | 2026
// genre.go

package catalog

var Genres = []string{
	"Fiction",
	"Non-Fiction",
	"Mystery",
	"Thriller",
	"Romance",
	"Science Fiction",
	"Fantasy",
	"Horror",
	"Biography",
	"History",
	"Self-Help",
	"Business",
	"Poetry",
	"Drama",
	"Adventure",
	"Young Adult",
	"Children",
	"Philosophy",
	"Science",
	"Other",
}
