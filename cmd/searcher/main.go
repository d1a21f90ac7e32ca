// Copyright 2026 Graceworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/graceworks/concord"
	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/search"
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// stageMonitor prints each search stage to stderr when -v is set.
type stageMonitor struct{}

var _ search.SearchMonitor = (*stageMonitor)(nil)

func (m *stageMonitor) Start(term string) {
	fmt.Fprintf(os.Stderr, "searching for %q\n", term)
}

func (m *stageMonitor) AfterCorpusLoad(translation string, verseCount int) {
	fmt.Fprintf(os.Stderr, "corpus loaded: %s, %d verses\n", translation, verseCount)
}

func (m *stageMonitor) AfterVectorize(dimension int) {
	fmt.Fprintf(os.Stderr, "query vectorized at dimension %d\n", dimension)
}

func (m *stageMonitor) AfterRanking(hits []core.ScoredVerse) {
	fmt.Fprintf(os.Stderr, "ranked %d candidates\n", len(hits))
}

func (m *stageMonitor) Finish(results []core.ScoredVerse) {
	fmt.Fprintf(os.Stderr, "done, %d results\n", len(results))
}

func main() {
	dbPath := flag.String("db", "./data/corpus.db", "path to the corpus store")
	code := flag.String("translation", "", "return texts in this translation (default: corpus translation)")
	limit := flag.Int("limit", 5, "maximum number of results")
	verbose := flag.Bool("v", false, "print search stages to stderr")
	flag.Parse()

	engine, err := concord.NewEngine(*dbPath)
	if err != nil {
		panic(err)
	}
	defer engine.Close()
	searcher, err := engine.NewSearcher()
	if err != nil {
		panic(err)
	}

	term := "love"
	if flag.NArg() > 0 {
		term = strings.Join(flag.Args(), " ")
	}

	var monitor search.SearchMonitor
	if *verbose {
		monitor = &stageMonitor{}
	}

	ctx := context.Background()
	results, err := searcher.FindSimilarWithMonitor(ctx, term, *code, *limit, monitor)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s (%s) '%s' [%0.3f]\n", i, hit.Ref.String(), hit.Translation, hit.Text, hit.Score)
	}
}
