package cqe

import "math"

const MaxPageSize = 100

// MaxPage keeps (page-1)*limit within int32 range.
const MaxPage = math.MaxInt32 / MaxPageSize

// PageReq is the shared page/limit query of list endpoints.
type PageReq struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize fills defaults: page 1, limit defaultLimit, limit capped at
// MaxPageSize, page capped at MaxPage.
func (r *PageReq) Normalize(defaultLimit int) {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Page > MaxPage {
		r.Page = MaxPage
	}
	if r.Limit <= 0 {
		r.Limit = defaultLimit
	}
	if r.Limit > MaxPageSize {
		r.Limit = MaxPageSize
	}
}

func (r *PageReq) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Pages returns ceil(total/limit).
func (r *PageReq) Pages(total int64) int {
	if r.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(r.Limit) - 1) / int64(r.Limit))
}
