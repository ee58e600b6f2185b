package repository

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// OffsetRequest selects a window of rows in insertion order. A zero Limit
// means DefaultLimit.
type OffsetRequest struct {
	Limit  int
	Offset int
}

// Normalized applies the default limit, the limit cap and a zero floor on
// the offset.
func (in OffsetRequest) Normalized() OffsetRequest {
	limit := in.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	return OffsetRequest{Limit: limit, Offset: offset}
}
