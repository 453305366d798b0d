package rag

import "testing"

func TestLastN(t *testing.T) {
	turns := []Turn{
		{Question: "one"},
		{Question: "two"},
		{Question: "three"},
	}

	if got := LastN(turns, 2); len(got) != 2 || got[0].Question != "two" {
		t.Errorf("LastN(3 turns, 2) = %+v", got)
	}
	if got := LastN(turns, 10); len(got) != 3 {
		t.Errorf("LastN(3 turns, 10) returned %d turns", len(got))
	}
	if got := LastN(nil, 5); got != nil {
		t.Errorf("LastN(nil, 5) = %+v, want nil", got)
	}
}
