package notifications

import "github.com/xyz-asif/whistleblow/internal/pkg/pagination"

// ValidateNotificationListQuery clamps paging and resolves the read filter
func ValidateNotificationListQuery(query *NotificationListQuery) *bool {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = pagination.DefaultLimit
	}
	if query.PerPage > pagination.MaxLimit {
		query.PerPage = pagination.MaxLimit
	}

	switch query.IsRead {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
