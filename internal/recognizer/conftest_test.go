package recognizer

import "context"

type mockRecognizer struct {
	names []string
	err   error
}

func (m mockRecognizer) Recognize(context.Context, string) ([]string, error) {
	return m.names, m.err
}
