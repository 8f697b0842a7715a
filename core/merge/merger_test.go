package merge

import (
	"testing"

	"MeldFM/core/virtual"
	"MeldFM/model"
)

func audioTrack(id int64, title string) *model.MediaItem {
	return &model.MediaItem{ID: id, Type: model.MediaTypeAudio, Title: title}
}

func videoTrack(id int64, title string) *model.MediaItem {
	return &model.MediaItem{ID: id, Type: model.MediaTypeVideo, Title: title}
}

func names(entities []model.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.EntityName()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMergeArtists(t *testing.T) {
	t.Run("virtual only appears", func(t *testing.T) {
		virtuals := []*virtual.Artist{
			virtual.NewArtist("Queen", "", []*model.MediaItem{videoTrack(1, "a")}),
		}
		merged := MergeArtists(nil, virtuals, model.Query{})
		if len(merged) != 1 {
			t.Fatalf("expected 1 artist, got %d", len(merged))
		}
		if !merged[0].Virtual() || merged[0].EntityName() != "Queen" {
			t.Errorf("expected virtual Queen, got %+v", merged[0])
		}
	})

	t.Run("native wins name collision", func(t *testing.T) {
		native := []*model.Artist{{ID: 7, Name: "Queen"}}
		virtuals := []*virtual.Artist{
			virtual.NewArtist("queen", "", []*model.MediaItem{videoTrack(1, "a")}),
			virtual.NewArtist("ABBA", "", []*model.MediaItem{videoTrack(2, "b")}),
		}
		merged := MergeArtists(native, virtuals, model.Query{})
		if len(merged) != 2 {
			t.Fatalf("expected 2 artists after dedup, got %d", len(merged))
		}
		for _, e := range merged {
			if e.EntityName() == "Queen" && e.Virtual() {
				t.Error("native entity should win the collision")
			}
		}
	})

	t.Run("different spellings are not coalesced", func(t *testing.T) {
		native := []*model.Artist{{ID: 7, Name: "The Beatles"}}
		virtuals := []*virtual.Artist{
			virtual.NewArtist("Beatles", "", []*model.MediaItem{videoTrack(1, "a")}),
		}
		merged := MergeArtists(native, virtuals, model.Query{})
		if len(merged) != 2 {
			t.Errorf("expected both spellings to survive, got %d entities", len(merged))
		}
	})

	t.Run("sorted ascending across origins", func(t *testing.T) {
		native := []*model.Artist{{ID: 7, Name: "bob"}}
		virtuals := []*virtual.Artist{
			virtual.NewArtist("alice", "", []*model.MediaItem{videoTrack(1, "a")}),
		}
		merged := MergeArtists(native, virtuals, model.Query{Sort: model.SortAlpha})
		if got := names(merged); !equalStrings(got, []string{"alice", "bob"}) {
			t.Errorf("expected [alice bob], got %v", got)
		}
	})

	t.Run("descending reverses whole merged order", func(t *testing.T) {
		native := []*model.Artist{{ID: 7, Name: "bob"}}
		virtuals := []*virtual.Artist{
			virtual.NewArtist("alice", "", []*model.MediaItem{videoTrack(1, "a")}),
			virtual.NewArtist("carol", "", []*model.MediaItem{videoTrack(2, "b")}),
		}
		merged := MergeArtists(native, virtuals, model.Query{Sort: model.SortAlpha, Desc: true})
		if got := names(merged); !equalStrings(got, []string{"carol", "bob", "alice"}) {
			t.Errorf("expected [carol bob alice], got %v", got)
		}
	})
}

func TestMergeAlbums(t *testing.T) {
	t.Run("sort by release date with name tie break", func(t *testing.T) {
		native := []*model.Album{
			{ID: 1, Name: "Zebra", ReleaseYear: 1970},
		}
		virtuals := []*virtual.Album{
			virtual.NewAlbum("Alpha", "x", "", 1980, 0, []*model.MediaItem{videoTrack(1, "a")}),
			virtual.NewAlbum("Beta", "y", "", 1970, 0, []*model.MediaItem{videoTrack(2, "b")}),
		}
		merged := MergeAlbums(native, virtuals, model.Query{Sort: model.SortReleaseDate})
		if got := names(merged); !equalStrings(got, []string{"Beta", "Zebra", "Alpha"}) {
			t.Errorf("expected [Beta Zebra Alpha], got %v", got)
		}
	})

	t.Run("dedup drops virtual album by name", func(t *testing.T) {
		native := []*model.Album{{ID: 1, Name: "Greatest Hits"}}
		virtuals := []*virtual.Album{
			virtual.NewAlbum("greatest hits", "Queen", "", 0, 0, []*model.MediaItem{videoTrack(1, "a")}),
		}
		merged := MergeAlbums(native, virtuals, model.Query{})
		if len(merged) != 1 || merged[0].Virtual() {
			t.Errorf("expected the native album only, got %v", names(merged))
		}
	})
}

func TestMergeTracks(t *testing.T) {
	recQueen := &model.VideoMetadata{MediaID: 2, Artist: "Queen"}
	lookup := func(id int64) *model.VideoMetadata {
		if id == 2 {
			return recQueen
		}
		return nil
	}

	t.Run("videos join natives and sort by title", func(t *testing.T) {
		native := []*model.MediaItem{audioTrack(1, "Bicycle Race")}
		videos := []*model.MediaItem{videoTrack(2, "Another One Bites the Dust")}
		merged := MergeTracks(native, videos, lookup, model.Query{})
		if len(merged) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(merged))
		}
		if merged[0].ID != 2 {
			t.Errorf("expected the video first alphabetically, got %d", merged[0].ID)
		}
	})

	t.Run("untagged videos still listed", func(t *testing.T) {
		videos := []*model.MediaItem{videoTrack(9, "home movie")}
		merged := MergeTracks(nil, videos, lookup, model.Query{})
		if len(merged) != 1 {
			t.Errorf("video without metadata should appear, got %d tracks", len(merged))
		}
	})

	t.Run("favorites flag filters videos", func(t *testing.T) {
		fav := videoTrack(2, "a")
		fav.Favorite = true
		videos := []*model.MediaItem{fav, videoTrack(3, "b")}
		merged := MergeTracks(nil, videos, lookup, model.Query{FavoritesOnly: true})
		if len(merged) != 1 || merged[0].ID != 2 {
			t.Errorf("expected only the favorited video, got %d tracks", len(merged))
		}
	})

	t.Run("missing videos excluded by default", func(t *testing.T) {
		gone := videoTrack(2, "a")
		gone.Missing = true
		merged := MergeTracks(nil, []*model.MediaItem{gone}, lookup, model.Query{})
		if len(merged) != 0 {
			t.Errorf("missing video should be hidden, got %d tracks", len(merged))
		}
		merged = MergeTracks(nil, []*model.MediaItem{gone}, lookup, model.Query{IncludeMissing: true})
		if len(merged) != 1 {
			t.Errorf("missing video should show when requested, got %d tracks", len(merged))
		}
	})

	t.Run("sort by effective artist", func(t *testing.T) {
		nat := audioTrack(1, "z side")
		nat.Artist = "ZZ Top"
		videos := []*model.MediaItem{videoTrack(2, "a side")}
		merged := MergeTracks([]*model.MediaItem{nat}, videos, lookup, model.Query{Sort: model.SortArtist})
		if merged[0].ID != 2 {
			t.Errorf("Queen should sort before ZZ Top, got id %d first", merged[0].ID)
		}
	})
}

func TestTracksForNativeParent(t *testing.T) {
	records := map[int64]*model.VideoMetadata{
		2: {MediaID: 2, Artist: "Queen"},
		3: {MediaID: 3, Artist: "ABBA"},
		4: {MediaID: 4, AlbumArtist: "Queen"},
	}
	lookup := func(id int64) *model.VideoMetadata { return records[id] }
	videos := []*model.MediaItem{videoTrack(2, "b"), videoTrack(3, "c"), videoTrack(4, "d")}

	t.Run("unions native tracks with matching videos", func(t *testing.T) {
		native := []*model.MediaItem{audioTrack(1, "a")}
		got := TracksForNativeParent(native, videos, lookup, ArtistScope("queen"), model.Query{})
		if len(got) != 3 {
			t.Fatalf("expected native track plus 2 matching videos, got %d", len(got))
		}
		for _, tr := range got {
			if tr.ID == 3 {
				t.Error("video tagged with a different artist should be excluded")
			}
		}
	})

	t.Run("album scope matches album tag", func(t *testing.T) {
		recs := map[int64]*model.VideoMetadata{
			2: {MediaID: 2, Album: "A Night at the Opera"},
		}
		lk := func(id int64) *model.VideoMetadata { return recs[id] }
		got := TracksForNativeParent(nil, []*model.MediaItem{videoTrack(2, "b")}, lk, AlbumScope("a night at the opera"), model.Query{})
		if len(got) != 1 {
			t.Errorf("expected 1 scoped track, got %d", len(got))
		}
	})

	t.Run("genre scope matches genre tag", func(t *testing.T) {
		recs := map[int64]*model.VideoMetadata{
			2: {MediaID: 2, Artist: "x", Genre: "Rock"},
			3: {MediaID: 3, Artist: "y", Genre: "Pop"},
		}
		lk := func(id int64) *model.VideoMetadata { return recs[id] }
		got := TracksForNativeParent(nil, []*model.MediaItem{videoTrack(2, "b"), videoTrack(3, "c")}, lk, GenreScope("rock"), model.Query{})
		if len(got) != 1 || got[0].ID != 2 {
			t.Errorf("expected only the rock video, got %d tracks", len(got))
		}
	})
}

func TestEffectiveFields(t *testing.T) {
	rec := &model.VideoMetadata{MediaID: 1, Artist: "Queen", Album: "Opera", Genre: "Rock"}

	t.Run("native tags win", func(t *testing.T) {
		item := &model.MediaItem{ID: 1, Artist: "ABBA"}
		if got := EffectiveArtist(item, rec); got != "ABBA" {
			t.Errorf("expected native artist, got %q", got)
		}
	})

	t.Run("record fills blanks", func(t *testing.T) {
		item := &model.MediaItem{ID: 1}
		if got := EffectiveArtist(item, rec); got != "Queen" {
			t.Errorf("expected record artist, got %q", got)
		}
		if got := EffectiveAlbum(item, rec); got != "Opera" {
			t.Errorf("expected record album, got %q", got)
		}
		if got := EffectiveGenre(item, rec); got != "Rock" {
			t.Errorf("expected record genre, got %q", got)
		}
	})

	t.Run("nil record yields empty", func(t *testing.T) {
		item := &model.MediaItem{ID: 1}
		if got := EffectiveArtist(item, nil); got != "" {
			t.Errorf("expected empty artist, got %q", got)
		}
	})
}
