package core

import (
	"errors"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted record types. The record set is small and
// stable, so these are maintained by hand against the mus-go primitives.

// ErrTruncatedRecord indicates record bytes ended before the declared length.
var ErrTruncatedRecord = errors.New("truncated record data")

// IDMUS serializes ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return 0, n, err
	}
	return ID(num), n, nil
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// VerseRecordMUS serializes VerseRecord values.
var VerseRecordMUS = verseRecordMUS{}

type verseRecordMUS struct{}

func (verseRecordMUS) Marshal(v VerseRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Book, bs)
	n += varint.Int.Marshal(v.Chapter, bs[n:])
	n += varint.Int.Marshal(v.Verse, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += bytesMUS{}.Marshal(v.Embedding, bs[n:])
	return
}

func (verseRecordMUS) Unmarshal(bs []byte) (v VerseRecord, n int, err error) {
	var n1 int
	v.Book, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Chapter, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Verse, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Embedding, n1, err = bytesMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (verseRecordMUS) Size(v VerseRecord) (size int) {
	size = ord.String.Size(v.Book)
	size += varint.Int.Size(v.Chapter)
	size += varint.Int.Size(v.Verse)
	size += ord.String.Size(v.Text)
	size += bytesMUS{}.Size(v.Embedding)
	return
}

func (verseRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = bytesMUS{}.Skip(bs[n:])
	n += n1
	return
}

// bytesMUS serializes a raw byte slice with a varint length prefix.
type bytesMUS struct{}

func (bytesMUS) Marshal(v []byte, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	n += copy(bs[n:], v)
	return
}

func (bytesMUS) Unmarshal(bs []byte) (v []byte, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 || n+length > len(bs) {
		return nil, n, ErrTruncatedRecord
	}
	v = make([]byte, length)
	copy(v, bs[n:n+length])
	n += length
	return
}

func (bytesMUS) Size(v []byte) (size int) {
	return varint.Int.Size(len(v)) + len(v)
}

func (bytesMUS) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return n, err
	}
	if length < 0 || n+length > len(bs) {
		return n, ErrTruncatedRecord
	}
	return n + length, nil
}
