package domain

// Settled state of the most recent nearby search.
type SearchState struct {
	IsLoading bool
	Error     string
	Results   []Place
}
