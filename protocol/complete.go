package protocol

// MaxCompletionValues is the cap MCP places on a single completion response.
const MaxCompletionValues = 100

// ReferenceType defines the type of reference being completed.
type ReferenceType string

const (
	// RefTypePrompt indicates a reference to a prompt.
	RefTypePrompt ReferenceType = "ref/prompt"
	// RefTypeResource indicates a reference to a resource.
	RefTypeResource ReferenceType = "ref/resource"
)

// CompletionReference is a union type for prompt or resource references.
// Use Type to determine which field (Name or URI) is relevant.
type CompletionReference struct {
	Type ReferenceType `json:"type"`
	Name string        `json:"name,omitempty"` // Used for RefTypePrompt
	URI  string        `json:"uri,omitempty"`  // Used for RefTypeResource
}

// Key returns the name or uri the reference points at.
func (r CompletionReference) Key() string {
	if r.Type == RefTypeResource {
		return r.URI
	}
	return r.Name
}

// CompletionArgument holds the name and current value of the argument being completed.
type CompletionArgument struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CompleteRequest defines the parameters for a completion/complete request.
type CompleteRequest struct {
	Ref      CompletionReference `json:"ref"`
	Argument CompletionArgument  `json:"argument"`
}

// Completion holds the results of an argument completion request.
type Completion struct {
	Values  []string `json:"values"`            // At most MaxCompletionValues suggestions.
	Total   *int     `json:"total,omitempty"`   // Total number of available matches.
	HasMore *bool    `json:"hasMore,omitempty"` // More results exist beyond Values.
}

// NewCompletion caps values at MaxCompletionValues and fills Total and HasMore.
func NewCompletion(values []string) Completion {
	total := len(values)
	hasMore := total > MaxCompletionValues
	if hasMore {
		values = values[:MaxCompletionValues]
	}
	if values == nil {
		values = []string{}
	}
	return Completion{Values: values, Total: &total, HasMore: &hasMore}
}

// CompleteResult defines the structure of a successful completion/complete response.
type CompleteResult struct {
	Completion Completion `json:"completion"`
}
