package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/handler"
	"github.com/pkordes/trip-scout/internal/service"
)

// Test doubles for the servicer interfaces. Each method is a function field;
// set only the ones your test needs.

type mockPhotoServicer struct {
	importFn func(ctx context.Context, photos []domain.PhotoRecord) (int, error)
}

func (m *mockPhotoServicer) Import(ctx context.Context, photos []domain.PhotoRecord) (int, error) {
	return m.importFn(ctx, photos)
}

type mockScanServicer struct {
	scan func(ctx context.Context, req service.ScanRequest) (service.ScanResult, error)
}

func (m *mockScanServicer) Scan(ctx context.Context, req service.ScanRequest) (service.ScanResult, error) {
	return m.scan(ctx, req)
}

type mockTripServicer struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time checks against the handler interfaces.
var (
	_ handler.PhotoServicer  = (*mockPhotoServicer)(nil)
	_ handler.ScanServicer   = (*mockScanServicer)(nil)
	_ handler.TripServicer   = (*mockTripServicer)(nil)
	_ handler.ExportServicer = (*mockExportServicer)(nil)
)

// serverOpts bundles the optional dependencies for newTestRouter.
type serverOpts struct {
	photos  handler.PhotoServicer
	scans   handler.ScanServicer
	trips   handler.TripServicer
	export  handler.ExportServicer
	openapi []byte
}

// newTestRouter wires a Server with the given mocks into the chi router,
// mirroring how main.go wires it in production.
func newTestRouter(opts serverOpts) http.Handler {
	return handler.NewServer(opts.photos, opts.scans, opts.trips, opts.export, opts.openapi).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeBody[T any](t *testing.T, body *bytes.Buffer) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body.Bytes(), &v))
	return v
}
