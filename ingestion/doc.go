// Package ingestion builds the persisted search corpus from translation
// documents.
//
// The Builder type flattens one translation document into deterministically
// ordered passages (books lexically, chapters and verses numerically), embeds
// the passage texts in batches, and replaces the stored corpus in a single
// save. Building is an explicit offline step; the search path never writes
// to the store.
package ingestion
