package tui

// SearchMsg represents messages that the search component handles
type SearchMsg interface {
	isSearchMsg()
}

// Search message implementations
type StartSearchMsg struct{}

func (StartSearchMsg) isSearchMsg() {}

type UpdateSearchInputMsg struct {
	Input string
}

func (UpdateSearchInputMsg) isSearchMsg() {}

type ExecuteSearchMsg struct{}

func (ExecuteSearchMsg) isSearchMsg() {}

type CancelSearchMsg struct{}

func (CancelSearchMsg) isSearchMsg() {}

type ClearSearchMsg struct{}

func (ClearSearchMsg) isSearchMsg() {}

// SearchModel holds the history filter. Input is what is being typed,
// Query the filter currently applied to the list.
type SearchModel struct {
	Active bool
	Input  string
	Query  string
}

// NewSearchModel creates a new search model with default values
func NewSearchModel() SearchModel {
	return SearchModel{}
}

// Update applies a search message
func (s *SearchModel) Update(msg SearchMsg) {
	switch m := msg.(type) {
	case StartSearchMsg:
		s.Active = true
		s.Input = s.Query
	case UpdateSearchInputMsg:
		s.Input = m.Input
	case ExecuteSearchMsg:
		s.Active = false
		s.Query = s.Input
	case CancelSearchMsg:
		s.Active = false
		s.Input = s.Query
	case ClearSearchMsg:
		s.Active = false
		s.Input = ""
		s.Query = ""
	}
}

// Filter returns the query the list should be filtered with. While typing
// the list follows the input.
func (s SearchModel) Filter() string {
	if s.Active {
		return s.Input
	}
	return s.Query
}
