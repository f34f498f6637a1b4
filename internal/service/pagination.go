package service

import "github.com/adipala-ubp/surat-izin/internal/domain"

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

func clampPagination(page, pageSize int) (int, int) {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return page, pageSize
}

func paginated(data interface{}, total int64, page, pageSize int) *domain.PaginatedResponse {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
