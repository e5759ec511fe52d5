package profile

import "context"

// Repository stores one free-form delivery/contact snapshot per customer.
// The payload is an open key-value map; callers own its shape.
type Repository interface {
	Get(ctx context.Context, customerID string) (map[string]interface{}, error)
	Put(ctx context.Context, customerID string, data map[string]interface{}) error
}
