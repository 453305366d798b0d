package rag

// Turn is one question/answer exchange as the generation components see it,
// decoupled from the transcript store's row shape.
type Turn struct {
	Question string
	Answer   string
}

// LastN returns the trailing n turns of the history (all of it when shorter).
func LastN(turns []Turn, n int) []Turn {
	if n <= 0 || len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
