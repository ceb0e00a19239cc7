package extract

import (
	"context"
	"strings"
)

type mockRecognizer struct {
	places []string
	err    error
	calls  int
	text   string
}

func (m *mockRecognizer) Recognize(_ context.Context, text string) ([]string, error) {
	m.calls++
	m.text = text
	if m.err != nil {
		return nil, m.err
	}
	return m.places, nil
}

type mockCountries map[string]string

func (m mockCountries) ResolveCountry(name string) (string, bool) {
	code, ok := m[strings.ToLower(name)]
	return code, ok
}
