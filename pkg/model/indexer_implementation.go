package model

type indexerImplementation struct {
	sites  int
	models int
}

func (indexer *indexerImplementation) Index(site, model int) int {
	return model + indexer.models*site
}

func (indexer *indexerImplementation) Attributes(index int) (site, model int) {
	model = index % indexer.models
	site = index / indexer.models
	return site, model
}

func (indexer *indexerImplementation) Candidates() int {
	return indexer.sites * indexer.models
}
