// Package handler is the HTTP layer between the router and the services.
//
// Every endpoint is a typed function wrapped by Handle, which binds and
// validates the request, calls the service and writes the JSON response.
package handler
