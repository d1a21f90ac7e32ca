package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "(John,3,16)",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "(The Song of the Three Holy Children,1,68)",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("(John,3,16)")
	id2 := IDFromContent("(John,3,17)")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestVerseRef_String(t *testing.T) {
	tests := []struct {
		name string
		ref  VerseRef
		want string
	}{
		{
			name: "single-word book",
			ref:  VerseRef{Book: "John", Chapter: 3, Verse: 16},
			want: "John 3:16",
		},
		{
			name: "book with spaces",
			ref:  VerseRef{Book: "1 Corinthians", Chapter: 13, Verse: 4},
			want: "1 Corinthians 13:4",
		},
		{
			name: "zero value",
			ref:  VerseRef{},
			want: " 0:0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ref.String()
			if got != tt.want {
				t.Errorf("VerseRef.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerseRef_Tuple(t *testing.T) {
	tests := []struct {
		name string
		ref  VerseRef
		want string
	}{
		{
			name: "basic reference",
			ref:  VerseRef{Book: "Romans", Chapter: 8, Verse: 28},
			want: "(Romans,8,28)",
		},
		{
			name: "empty reference",
			ref:  VerseRef{},
			want: "(,0,0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ref.Tuple()
			if got != tt.want {
				t.Errorf("VerseRef.Tuple() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerseRef_ID(t *testing.T) {
	ref := VerseRef{Book: "John", Chapter: 3, Verse: 16}

	if ref.ID() != ref.ID() {
		t.Errorf("VerseRef.ID() is not deterministic")
	}
	if ref.ID() != IDFromContent(ref.Tuple()) {
		t.Errorf("VerseRef.ID() does not match IDFromContent of the tuple")
	}

	other := VerseRef{Book: "John", Chapter: 3, Verse: 17}
	if ref.ID() == other.ID() {
		t.Errorf("VerseRef.ID() produced same ID for different references")
	}
}

func TestVerseRecord_Ref(t *testing.T) {
	record := VerseRecord{
		Book:    "Romans",
		Chapter: 8,
		Verse:   28,
		Text:    "And we know that to them that love God all things work together for good.",
	}

	want := VerseRef{Book: "Romans", Chapter: 8, Verse: 28}
	if record.Ref() != want {
		t.Errorf("VerseRecord.Ref() = %v, want %v", record.Ref(), want)
	}
}
