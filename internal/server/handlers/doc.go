// Package handlers contains HTTP handlers for the birthday site and admin servers.
//
// This package provides handlers for:
//   - Photo listing endpoints (/api/photos, /api/gf-photos)
//   - The celebration plan endpoint
//   - Health and readiness endpoints (monitoring)
//   - Shared response helper functions
//
// Errors go through the foundation/errors HTTP adapter, except the listing
// endpoints, whose failure body is fixed to an empty image list.
package handlers
