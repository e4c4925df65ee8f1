package model

import "time"

// Tenant scopes all records to one organization.  The booking engine
// treats the tenant ID as an opaque partition key and copies it from
// the caller's token onto every record it writes; no filtering policy
// lives in this service.
type Tenant struct {
	ID        uint64    // tenants.id
	Name      string    // tenants.name
	CreatedAt time.Time // tenants.created_at
}
