package models

// BlogPost is the named projection of a blog feed row:
// [0]=slug, [1]=title, [2]=date, [3]=category, [4]=summary, [5]=image, [6]=body.
type BlogPost struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Image    string `json:"image"`
	Body     string `json:"body"`
}
