package mock

import "github.com/fwojciec/villages"

var _ villages.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of villages.Extractor.
type Extractor struct {
	ExtractFn func(html string) ([]*villages.Record, error)
}

func (e *Extractor) Extract(html string) ([]*villages.Record, error) {
	return e.ExtractFn(html)
}
