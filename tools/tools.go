//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// golangci-lint - Lint aggregator
//   Install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@v1.64.8
//   Version: v1.64.8 (pinned 2025-04-01)
//   Docs: https://golangci-lint.run
//
// mockgen - Mock generation for the Requestor test doubles
//   Runs through `go generate ./internal/mocks` via `go run go.uber.org/mock/mockgen`,
//   so it needs no separate install; the module dependency pins its version.
