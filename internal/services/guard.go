package services

import "github.com/SAP-F-2025/marketplace-service/internal/models"

// ownerOrAdmin determines whether a principal may mutate a resource owned by
// ownerID. Admins may mutate anything; everyone else only their own resources.
func ownerOrAdmin(principal *models.User, ownerID string) bool {
	if principal == nil {
		return false
	}
	return principal.Role == models.RoleAdmin || principal.ID == ownerID
}

func isAdmin(principal *models.User) bool {
	return principal != nil && principal.Role == models.RoleAdmin
}
