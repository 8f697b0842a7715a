package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"MeldFM/core/library"
	"MeldFM/logger"
	"MeldFM/model"

	"github.com/gorilla/mux"
)

// APIHandler 处理音频浏览相关的API请求
type APIHandler struct {
	provider *library.Provider
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(provider *library.Provider) *APIHandler {
	return &APIHandler{provider: provider}
}

// parseQuery 从请求参数解析查询形状
func parseQuery(r *http.Request) model.Query {
	params := r.URL.Query()
	return model.Query{
		Filter:         params.Get("filter"),
		Sort:           model.ParseSortField(params.Get("sort")),
		Desc:           params.Get("desc") == "true",
		IncludeMissing: params.Get("includeMissing") == "true",
		FavoritesOnly:  params.Get("favorites") == "true",
	}
}

// parsePaging 解析 limit/offset，limit 缺省为 -1（完整结果）
func parsePaging(r *http.Request) (limit, offset int) {
	limit, offset = -1, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// HandleArtists 返回合并后的艺术家列表
func (h *APIHandler) HandleArtists(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	limit, offset := parsePaging(r)
	artists, err := h.provider.Artists(r.Context(), q, limit, offset)
	if err != nil {
		logger.Error("艺术家列表查询失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list artists")
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

// HandleArtistCount 返回合并后的艺术家总数
func (h *APIHandler) HandleArtistCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.provider.ArtistCount(r.Context(), parseQuery(r))
	if err != nil {
		logger.Error("艺术家计数查询失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to count artists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// HandleArtistTracks 返回某个艺术家（原生或虚拟）下的曲目
func (h *APIHandler) HandleArtistTracks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid artist id")
		return
	}
	q := parseQuery(r)
	limit, offset := parsePaging(r)
	tracks, err := h.provider.TracksOfArtist(r.Context(), id, q, limit, offset)
	if err != nil {
		logger.Error("艺术家曲目查询失败", logger.Int64("artistId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list artist tracks")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// HandleAlbums 返回合并后的专辑列表
func (h *APIHandler) HandleAlbums(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	limit, offset := parsePaging(r)
	albums, err := h.provider.Albums(r.Context(), q, limit, offset)
	if err != nil {
		logger.Error("专辑列表查询失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list albums")
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// HandleAlbumCount 返回合并后的专辑总数
func (h *APIHandler) HandleAlbumCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.provider.AlbumCount(r.Context(), parseQuery(r))
	if err != nil {
		logger.Error("专辑计数查询失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to count albums")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// HandleAlbumTracks 返回某张专辑（原生或虚拟）下的曲目
func (h *APIHandler) HandleAlbumTracks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid album id")
		return
	}
	q := parseQuery(r)
	limit, offset := parsePaging(r)
	tracks, err := h.provider.TracksOfAlbum(r.Context(), id, q, limit, offset)
	if err != nil {
		logger.Error("专辑曲目查询失败", logger.Int64("albumId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list album tracks")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// HandleTracks 返回合并后的完整曲目列表（音频 + 视频）
func (h *APIHandler) HandleTracks(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	limit, offset := parsePaging(r)
	tracks, err := h.provider.Tracks(r.Context(), q, limit, offset)
	if err != nil {
		logger.Error("曲目列表查询失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list tracks")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// HandleTrackCount 返回合并后的曲目总数
func (h *APIHandler) HandleTrackCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.provider.TrackCount(r.Context(), parseQuery(r))
	if err != nil {
		logger.Error("曲目计数查询失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to count tracks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// HandleGenreTracks 返回某个流派下的曲目
func (h *APIHandler) HandleGenreTracks(w http.ResponseWriter, r *http.Request) {
	genre := mux.Vars(r)["name"]
	q := parseQuery(r)
	limit, offset := parsePaging(r)
	tracks, err := h.provider.TracksOfGenre(r.Context(), genre, q, limit, offset)
	if err != nil {
		logger.Error("流派曲目查询失败", logger.String("genre", genre), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list genre tracks")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}
