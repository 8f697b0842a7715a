package model

import "testing"

func TestParseSortField(t *testing.T) {
	cases := []struct {
		in   string
		want SortField
	}{
		{"", SortAlpha},
		{"default", SortAlpha},
		{"name", SortAlpha},
		{"ALPHA", SortAlpha},
		{"duration", SortDuration},
		{"added", SortInsertionDate},
		{"modified", SortLastModified},
		{"year", SortReleaseDate},
		{"size", SortFileSize},
		{"artist", SortArtist},
		{"album", SortAlbum},
		{"filename", SortFilename},
		{"track", SortTrackNumber},
		{"bogus", SortAlpha},
	}
	for _, tc := range cases {
		if got := ParseSortField(tc.in); got != tc.want {
			t.Errorf("ParseSortField(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMatchesFilter(t *testing.T) {
	cases := []struct {
		name   string
		filter string
		value  string
		want   bool
	}{
		{"empty filter matches all", "", "anything", true},
		{"case insensitive substring", "QUEEN", "a queen tribute", true},
		{"no match", "abba", "queen", false},
		{"empty value with filter", "q", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Query{Filter: tc.filter}
			if got := q.MatchesFilter(tc.value); got != tc.want {
				t.Errorf("MatchesFilter(%q) with filter %q = %v, want %v", tc.value, tc.filter, got, tc.want)
			}
		})
	}
}

func TestVideoMetadataHasAudioTags(t *testing.T) {
	cases := []struct {
		name string
		rec  VideoMetadata
		want bool
	}{
		{"all blank", VideoMetadata{}, false},
		{"whitespace only", VideoMetadata{Artist: "  ", Album: "\t"}, false},
		{"artist only", VideoMetadata{Artist: "Queen"}, true},
		{"album only", VideoMetadata{Album: "Opera"}, true},
		{"album artist only", VideoMetadata{AlbumArtist: "Queen"}, true},
		{"genre only", VideoMetadata{Genre: "Rock"}, true},
		{"track number alone is not a tag", VideoMetadata{TrackNumber: 3}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rec.HasAudioTags(); got != tc.want {
				t.Errorf("HasAudioTags() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVideoMetadataStaleFor(t *testing.T) {
	rec := VideoMetadata{LastModified: 100}
	if rec.StaleFor(100) {
		t.Error("record at the item's mtime should be fresh")
	}
	if !rec.StaleFor(101) {
		t.Error("record older than the item should be stale")
	}
	if rec.StaleFor(99) {
		t.Error("record newer than the item should be fresh")
	}
}
