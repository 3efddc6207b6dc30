// AngelaMos | 2026
// data.go

package seed

import "github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"

type demoUser struct {
	Name  string
	Email string
}

type demoBook struct {
	owner string
	req   catalog.CreateBookRequest
}

type demoReview struct {
	author string
	book   int
	rating int
	text   string
}

var demoUsers = []demoUser{
	{Name: "Ada Reader", Email: "ada@example.com"},
	{Name: "Ben Critic", Email: "ben@example.com"},
	{Name: "Cleo Shelf", Email: "cleo@example.com"},
}

func pages(n int) *int { return &n }

var demoBooks = []demoBook{
	{owner: "ada@example.com", req: catalog.CreateBookRequest{
		Title:         "The Left Hand of Darkness",
		Author:        "Ursula K. Le Guin",
		Description:   "An envoy visits a planet whose people have no fixed sex.",
		Genre:         "Science Fiction",
		PublishedYear: 1969,
		Pages:         pages(304),
		Tags:          []string{"classic", "anthropology"},
	}},
	{owner: "ada@example.com", req: catalog.CreateBookRequest{
		Title:         "A Wizard of Earthsea",
		Author:        "Ursula K. Le Guin",
		Description:   "A young mage unleashes a shadow and must hunt it down.",
		Genre:         "Fantasy",
		PublishedYear: 1968,
		Pages:         pages(183),
		Tags:          []string{"classic", "magic"},
	}},
	{owner: "ben@example.com", req: catalog.CreateBookRequest{
		Title:         "The Name of the Rose",
		Author:        "Umberto Eco",
		Description:   "A friar investigates a string of deaths in a medieval abbey.",
		Genre:         "Mystery",
		PublishedYear: 1980,
		Pages:         pages(512),
		Tags:          []string{"historical", "monastery"},
	}},
	{owner: "ben@example.com", req: catalog.CreateBookRequest{
		Title:         "Sapiens",
		Author:        "Yuval Noah Harari",
		Description:   "A brief history of humankind from foragers to the present.",
		Genre:         "History",
		PublishedYear: 2011,
		Pages:         pages(443),
	}},
	{owner: "cleo@example.com", req: catalog.CreateBookRequest{
		Title:         "The Haunting of Hill House",
		Author:        "Shirley Jackson",
		Description:   "Four strangers spend a summer in a house that wants them.",
		Genre:         "Horror",
		PublishedYear: 1959,
		Pages:         pages(246),
		Tags:          []string{"classic", "haunted-house"},
	}},
}

var demoReviews = []demoReview{
	{author: "ben@example.com", book: 0, rating: 5, text: "A quiet, patient book that rewires how you think about people."},
	{author: "cleo@example.com", book: 0, rating: 4, text: "Slow start, but the crossing of the ice is unforgettable."},
	{author: "cleo@example.com", book: 1, rating: 5, text: "Spare prose and a coming of age story with real weight."},
	{author: "ada@example.com", book: 2, rating: 4, text: "Dense and digressive, and the mystery holds up to the end."},
	{author: "ada@example.com", book: 3, rating: 3, text: "Sweeping and readable, though it overreaches in places."},
	{author: "cleo@example.com", book: 3, rating: 4, text: "Gave me a lot to argue about with friends over dinner."},
	{author: "ada@example.com", book: 4, rating: 5, text: "The opening paragraph alone is worth the price of the book."},
}
