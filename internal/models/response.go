package models

// APIResponse is the envelope for every API reply.
type APIResponse struct {
	StatusCode int          `json:"statusCode"`
	Data       interface{}  `json:"data,omitempty"`
	Message    string       `json:"message"`
	Errors     []FieldError `json:"errors,omitempty"`
}

// NewSuccessResponse creates a success envelope
func NewSuccessResponse(statusCode int, data interface{}, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	}
}

// NewErrorResponse creates an error envelope
func NewErrorResponse(statusCode int, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewValidationErrorResponse creates an error envelope with field-level details
func NewValidationErrorResponse(statusCode int, message string, errs []FieldError) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
	}
}

const (
	DefaultPageSize int64 = 10
	MaxPageSize     int64 = 50
)

type Pagination struct {
	CurrentPage int64 `json:"currentPage"`
	PageSize    int64 `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Page wraps a result slice with its pagination metadata.
type Page struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// PageParams are validated pagination inputs: page >= 1, 1 <= size <= MaxPageSize.
type PageParams struct {
	Page int64
	Size int64
}

func (p PageParams) Skip() int64 {
	return (p.Page - 1) * p.Size
}

// NewPageParams clamps raw query values into valid bounds.
func NewPageParams(page, size int64) PageParams {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageParams{Page: page, Size: size}
}

func NewPage(data interface{}, params PageParams, totalCount int64) Page {
	totalPages := totalCount / params.Size
	if totalCount%params.Size != 0 {
		totalPages++
	}
	return Page{
		Data: data,
		Pagination: Pagination{
			CurrentPage: params.Page,
			PageSize:    params.Size,
			TotalItems:  totalCount,
			TotalPages:  totalPages,
			HasNextPage: params.Page*params.Size < totalCount,
			HasPrevPage: params.Page > 1,
		},
	}
}
