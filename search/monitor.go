package search

import "github.com/graceworks/concord/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(term string)
	AfterCorpusLoad(translation string, verseCount int)
	AfterVectorize(dimension int)
	AfterRanking(hits []core.ScoredVerse)
	Finish(results []core.ScoredVerse)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                    {}
func (n *noopMonitor) AfterCorpusLoad(_ string, _ int)   {}
func (n *noopMonitor) AfterVectorize(_ int)              {}
func (n *noopMonitor) AfterRanking(_ []core.ScoredVerse) {}
func (n *noopMonitor) Finish(_ []core.ScoredVerse)       {}
