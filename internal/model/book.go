package model

// BookStatus is the availability of a physical copy.
type BookStatus string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusBorrowed    BookStatus = "borrowed"
	BookStatusMaintenance BookStatus = "maintenance"
	BookStatusLost        BookStatus = "lost"
)

func (s BookStatus) Valid() bool {
	switch s {
	case BookStatusAvailable, BookStatusBorrowed, BookStatusMaintenance, BookStatusLost:
		return true
	}
	return false
}

type Book struct {
	ID          int32      `json:"id"`
	ISBN        string     `json:"isbn"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Publisher   string     `json:"publisher"`
	PublishDate string     `json:"publish_date,omitempty"`
	Category    string     `json:"category"`
	Status      BookStatus `json:"status"`
	CoverURL    string     `json:"cover_url,omitempty"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
}

type FindBook struct {
	ID       *int32      `json:"id"`
	Status   *BookStatus `json:"status"`
	Category *string     `json:"category"`
	// Keyword matches title or author, case insensitive.
	Keyword *string `json:"keyword"`
}

type BookCreateRequest struct {
	ISBN        string     `json:"isbn"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Publisher   string     `json:"publisher"`
	PublishDate string     `json:"publish_date"`
	Category    string     `json:"category"`
	Status      BookStatus `json:"status"`
	CoverURL    string     `json:"cover_url"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
}
