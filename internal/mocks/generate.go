// Package mocks provides gomock implementations of the ports used by the session
// manager and API wrappers.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	redirector := mocks.NewMockRedirector(ctrl)
//	redirector.EXPECT().RedirectToLogin(gomock.Any()).Times(1)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=redirector_mock.go github.com/zdaf-zdaf/group-platform/internal/ports Redirector
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notifier_mock.go github.com/zdaf-zdaf/group-platform/internal/ports Notifier
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_storage_mock.go github.com/zdaf-zdaf/group-platform/internal/ports SessionStorage
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=key_value_store_mock.go github.com/zdaf-zdaf/group-platform/internal/ports KeyValueStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=remote_auth_mock.go github.com/zdaf-zdaf/group-platform/internal/ports RemoteAuth
