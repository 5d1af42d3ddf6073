// Package mocks provides test doubles for the SDK's transport seam.
//
// The hand-written Requestor double in requestor.go covers most tests; the
// go:generate directive below additionally produces a gomock-based mock for
// tests that want expectation-style assertions. To regenerate after interface
// changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for the Requestor interface from the client package.
// This creates MockRequestor with a Do method matching client.Requestor.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=requestor_mock.go github.com/vlm-run/vlmrun-go/client Requestor
