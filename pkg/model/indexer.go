package model

// indexer interface is design to give a unique index to a (site, model) candidate and vice versa.
// Indices follow the (site, model) enumeration order, so ascending index is the tie-break order.
type indexer interface {
	// Returns a unique index to a (site, model) candidate
	Index(site, model int) int
	// Returns the (site, model) candidate of an index
	Attributes(index int) (site int, model int)
	// Returns the number of candidates
	Candidates() int
}

func newIndexer(sites, models int) indexer {
	return &indexerImplementation{
		sites:  sites,
		models: models,
	}
}
