package pagination

import "strconv"

// 1ページの上限。limitに何を渡されてもこれを超えない。
const MaxPageSize = 100

// Params は正規化済みのページング値。
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Meta は一覧レスポンスに付けるページング情報。
type Meta struct {
	CurrentPage     int   `json:"currentPage"`
	PageSize        int   `json:"pageSize"`
	Total           int64 `json:"total"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// Resolve はpage/limitクエリを安全な範囲に正規化する。
// 空文字や数値でない値はデフォルトに落とす（NaN相当を先に伝播させない）。
func Resolve(rawPage, rawLimit string, defaultLimit int) Params {
	page := parseOr(rawPage, 1)
	limit := parseOr(rawLimit, defaultLimit)

	//page >= 1
	if page < 1 {
		page = 1
	}

	//1 <= limit <= MaxPageSize
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// NewMeta は件数確定後のページング情報を組み立てる。
func NewMeta(p Params, total int64) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}

	return Meta{
		CurrentPage:     p.Page,
		PageSize:        p.Limit,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     p.Page < totalPages,
		HasPreviousPage: p.Page > 1,
	}
}

func parseOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
