// Package httpapi exposes the library service over HTTP. It owns the wire
// DTOs and their mapping to domain entities, the route table, and the
// translation of domain outcomes into status codes: business-rule violations
// and invalid input become 400, absent entities become 404, everything else
// is a 500.
package httpapi
