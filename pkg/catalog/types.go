package catalog

// volumesResponse mirrors the Google Books volumes list payload. Only the
// fields the mapper consumes are declared.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	Id         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	MaturityRating      string               `json:"maturityRating"`
	Language            string               `json:"language"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}
