package virtual

import (
	"testing"

	"MeldFM/model"
)

func video(id int64, title string, duration int64) *model.MediaItem {
	return &model.MediaItem{ID: id, Type: model.MediaTypeVideo, Title: title, Duration: duration}
}

func record(mediaID int64, artist, album string) *model.VideoMetadata {
	return &model.VideoMetadata{MediaID: mediaID, Artist: artist, Album: album}
}

func itemMap(items ...*model.MediaItem) map[int64]*model.MediaItem {
	m := make(map[int64]*model.MediaItem, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}

func TestSyntheticID(t *testing.T) {
	t.Run("negative and deterministic", func(t *testing.T) {
		a := SyntheticID("queen")
		b := SyntheticID("queen")
		if a >= 0 {
			t.Errorf("synthetic id should be negative, got %d", a)
		}
		if a != b {
			t.Errorf("same key should produce same id: %d != %d", a, b)
		}
	})

	t.Run("distinct keys differ", func(t *testing.T) {
		if SyntheticID("queen") == SyntheticID("abba") {
			t.Error("different keys should produce different ids")
		}
	})
}

func TestBuildArtists(t *testing.T) {
	t.Run("groups case insensitively", func(t *testing.T) {
		items := itemMap(video(1, "a", 100), video(2, "b", 100), video(3, "c", 100))
		records := []*model.VideoMetadata{
			record(1, "Queen", ""),
			record(2, "queen", ""),
			record(3, "ABBA", ""),
		}

		artists := BuildArtists(records, items, model.Query{})
		if len(artists) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(artists))
		}
		if artists[0].Name != "Queen" {
			t.Errorf("group name should keep first-encountered spelling, got %q", artists[0].Name)
		}
		if artists[0].EntityTrackCount() != 2 {
			t.Errorf("expected 2 members for Queen, got %d", artists[0].EntityTrackCount())
		}
	})

	t.Run("idempotent ids and membership", func(t *testing.T) {
		items := itemMap(video(1, "a", 100), video(2, "b", 100))
		records := []*model.VideoMetadata{record(1, "Queen", ""), record(2, "Queen", "")}

		first := BuildArtists(records, items, model.Query{})
		second := BuildArtists(records, items, model.Query{})
		if len(first) != 1 || len(second) != 1 {
			t.Fatalf("expected 1 artist in both runs, got %d and %d", len(first), len(second))
		}
		if first[0].ID != second[0].ID {
			t.Errorf("ids differ across runs: %d != %d", first[0].ID, second[0].ID)
		}
		if len(first[0].Tracks()) != len(second[0].Tracks()) {
			t.Error("membership differs across runs")
		}
	})

	t.Run("drops vanished members and empty groups", func(t *testing.T) {
		items := itemMap(video(1, "a", 100))
		records := []*model.VideoMetadata{
			record(1, "Queen", ""),
			record(2, "Queen", ""),  // item 2 deleted from the library
			record(99, "Ghost", ""), // entire group vanished
		}

		artists := BuildArtists(records, items, model.Query{})
		if len(artists) != 1 {
			t.Fatalf("expected 1 artist, got %d", len(artists))
		}
		if got := artists[0].EntityTrackCount(); got != 1 {
			t.Errorf("vanished member should be dropped, got %d members", got)
		}
	})

	t.Run("skips blank records", func(t *testing.T) {
		items := itemMap(video(1, "a", 100))
		records := []*model.VideoMetadata{{MediaID: 1}}

		if artists := BuildArtists(records, items, model.Query{}); len(artists) != 0 {
			t.Errorf("all-blank record should not group, got %d artists", len(artists))
		}
	})

	t.Run("filter matches substring case insensitively", func(t *testing.T) {
		items := itemMap(video(1, "a", 100), video(2, "b", 100))
		records := []*model.VideoMetadata{record(1, "Queen", ""), record(2, "ABBA", "")}

		artists := BuildArtists(records, items, model.Query{Filter: "uee"})
		if len(artists) != 1 || artists[0].Name != "Queen" {
			t.Fatalf("expected only Queen to match filter, got %v", artists)
		}
	})

	t.Run("artwork from first member that has one", func(t *testing.T) {
		v1 := video(1, "a", 100)
		v2 := video(2, "b", 100)
		v2.ArtworkURL = "http://art/2"
		v3 := video(3, "c", 100)
		v3.ArtworkURL = "http://art/3"
		records := []*model.VideoMetadata{
			record(1, "Queen", ""), record(2, "Queen", ""), record(3, "Queen", ""),
		}

		artists := BuildArtists(records, itemMap(v1, v2, v3), model.Query{})
		if len(artists) != 1 {
			t.Fatalf("expected 1 artist, got %d", len(artists))
		}
		if artists[0].Artwork != "http://art/2" {
			t.Errorf("expected artwork of first member that has one, got %q", artists[0].Artwork)
		}
	})
}

func TestBuildAlbums(t *testing.T) {
	t.Run("album artist preference order", func(t *testing.T) {
		items := itemMap(video(1, "a", 100), video(2, "b", 100))
		records := []*model.VideoMetadata{
			{MediaID: 1, Artist: "Freddie Mercury", Album: "Opera"},
			{MediaID: 2, Artist: "Brian May", AlbumArtist: "Queen", Album: "Opera"},
		}

		albums := BuildAlbums(records, items, model.Query{})
		if len(albums) != 1 {
			t.Fatalf("expected 1 album, got %d", len(albums))
		}
		if albums[0].Artist != "Queen" {
			t.Errorf("album artist tag should win, got %q", albums[0].Artist)
		}
	})

	t.Run("falls back to first artist", func(t *testing.T) {
		items := itemMap(video(1, "a", 100))
		records := []*model.VideoMetadata{{MediaID: 1, Artist: "Queen", Album: "Opera"}}

		albums := BuildAlbums(records, items, model.Query{})
		if albums[0].Artist != "Queen" {
			t.Errorf("expected artist fallback, got %q", albums[0].Artist)
		}
	})

	t.Run("release year is most frequent non-zero", func(t *testing.T) {
		items := itemMap(video(1, "a", 0), video(2, "b", 0), video(3, "c", 0), video(4, "d", 0))
		records := []*model.VideoMetadata{
			{MediaID: 1, Artist: "q", Album: "Opera", ReleaseYear: 0},
			{MediaID: 2, Artist: "q", Album: "Opera", ReleaseYear: 1975},
			{MediaID: 3, Artist: "q", Album: "Opera", ReleaseYear: 1976},
			{MediaID: 4, Artist: "q", Album: "Opera", ReleaseYear: 1975},
		}

		albums := BuildAlbums(records, items, model.Query{})
		if albums[0].ReleaseYear != 1975 {
			t.Errorf("expected modal year 1975, got %d", albums[0].ReleaseYear)
		}
	})

	t.Run("year ties go to first encountered", func(t *testing.T) {
		items := itemMap(video(1, "a", 0), video(2, "b", 0))
		records := []*model.VideoMetadata{
			{MediaID: 1, Artist: "q", Album: "Opera", ReleaseYear: 1980},
			{MediaID: 2, Artist: "q", Album: "Opera", ReleaseYear: 1975},
		}

		albums := BuildAlbums(records, items, model.Query{})
		if albums[0].ReleaseYear != 1980 {
			t.Errorf("tie should keep first-encountered year, got %d", albums[0].ReleaseYear)
		}
	})

	t.Run("total duration sums members", func(t *testing.T) {
		items := itemMap(video(1, "a", 120000), video(2, "b", 180000))
		records := []*model.VideoMetadata{
			{MediaID: 1, Artist: "q", Album: "Opera"},
			{MediaID: 2, Artist: "q", Album: "Opera"},
		}

		albums := BuildAlbums(records, items, model.Query{})
		if albums[0].Duration != 300000 {
			t.Errorf("expected summed duration 300000, got %d", albums[0].Duration)
		}
	})

	t.Run("same name different artist keeps distinct ids", func(t *testing.T) {
		a := NewAlbum("Greatest Hits", "Queen", "", 0, 0, nil)
		b := NewAlbum("Greatest Hits", "ABBA", "", 0, 0, nil)
		if a.ID == b.ID {
			t.Error("albums with different artists should not share an id")
		}
	})
}

func TestVirtualTrackAccess(t *testing.T) {
	videos := []*model.MediaItem{
		video(1, "Bohemian Rhapsody", 0),
		video(2, "Love of My Life", 0),
		video(3, "You're My Best Friend", 0),
	}
	artist := NewArtist("Queen", "", videos)

	t.Run("paged tracks slice membership", func(t *testing.T) {
		page := artist.PagedTracks(2, 1)
		if len(page) != 2 || page[0].ID != 2 {
			t.Fatalf("unexpected page: %v", page)
		}
	})

	t.Run("offset beyond bounds yields empty", func(t *testing.T) {
		if page := artist.PagedTracks(10, 5); len(page) != 0 {
			t.Errorf("expected empty page, got %d items", len(page))
		}
	})

	t.Run("search matches title substring", func(t *testing.T) {
		got := artist.SearchTracks("love", 10, 0)
		if len(got) != 1 || got[0].ID != 2 {
			t.Fatalf("unexpected search result: %v", got)
		}
		if n := artist.SearchTracksCount("love"); n != 1 {
			t.Errorf("expected count 1, got %d", n)
		}
	})

	t.Run("empty query counts all", func(t *testing.T) {
		if n := artist.SearchTracksCount(""); n != 3 {
			t.Errorf("expected count 3, got %d", n)
		}
	})
}
