// Package llsvc has services for interacting with the grammar registry
// backend, decoupled from the HTTP API that accesses it.
//
// Grounded on server/tunas/tunas.go: the Service-wraps-a-Store shape, with
// DB as the only field, carries over directly.
package llsvc

import (
	"github.com/dekarrin/ll1gen/server/dao"
)

// Service performs the grammar registry's business logic against a
// persistence store.
//
// The zero value is not ready to use; assign a valid dao.Store to DB first.
type Service struct {
	DB dao.Store

	// TokenSecret signs and validates login JWTs.
	TokenSecret []byte
}
