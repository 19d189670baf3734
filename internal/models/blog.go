package models

// BlogPost статья блога.
type BlogPost struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Excerpt  string `json:"excerpt" yaml:"excerpt"`
	Content  string `json:"content,omitempty" yaml:"content"`
	ImageURL string `json:"image_url" yaml:"image_url"`
	Date     string `json:"date" yaml:"date"`
	Author   string `json:"author" yaml:"author"`
}
