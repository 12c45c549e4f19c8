// Package api contains the HTTP handlers and routing for the operation
// surface: starting background operations, polling their status, and
// requesting cancellation. Handlers stay thin; business flow lives in the
// service layer.
package api
