// Package store implements the tenant-namespaced collection store: the
// namespacing scheme over the storage substrate, the demo seeder, schema
// validation, and the CRUD engine both access facades share.
package store

import "strings"

// KeyPrefix namespaces every collection key in the substrate.
const KeyPrefix = "voxboard"

// StorageKey maps (tenant, collection) to its substrate key.
func StorageKey(tenantID, collection string) string {
	return KeyPrefix + "_" + tenantID + "_" + collection
}

// TenantKeyPrefix returns the prefix shared by all of a tenant's keys.
// Logout removes every key carrying it.
func TenantKeyPrefix(tenantID string) string {
	return KeyPrefix + "_" + tenantID + "_"
}

// OwnsKey reports whether key belongs to the tenant's namespace.
func OwnsKey(tenantID, key string) bool {
	return strings.HasPrefix(key, TenantKeyPrefix(tenantID))
}
