package llm

import "context"

// FragmentFunc receives each generated text fragment as it arrives. Returning
// an error aborts the stream; backends must propagate that error unchanged.
type FragmentFunc func(fragment string) error

// Provider is the streaming generation capability. contextPassages are the
// retrieved chunk contents the answer must be grounded on.
type Provider interface {
	GenerateStream(ctx context.Context, prompt string, contextPassages []string, systemInstruction string, onFragment FragmentFunc) error
}
