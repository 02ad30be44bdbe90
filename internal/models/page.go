package models

// Page is the backend's paginated list envelope. Next and Previous are the
// server's page links; nil means there is no such page.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether the server advertised a following page.
func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// HasPrevious reports whether the server advertised a preceding page.
func (p Page[T]) HasPrevious() bool {
	return p.Previous != nil && *p.Previous != ""
}
