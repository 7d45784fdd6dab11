package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// fakeRecordServer is an in-memory RecordService used through bufconn.
type fakeRecordServer struct {
	mu         sync.Mutex
	records    map[int64]models.Record
	nextID     int64
	uploads    []UploadRequest
	requestIDs []string
	failWith   error
}

func (f *fakeRecordServer) remember(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(common.RequestIDHeaderName); len(v) > 0 {
		f.requestIDs = append(f.requestIDs, v[0])
	}
}

func unary[Req any](method string, fn func(f *fakeRecordServer, ctx context.Context, req *Req) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
			f := srv.(*fakeRecordServer)
			var req Req
			if err := dec(&req); err != nil {
				return nil, err
			}
			f.mu.Lock()
			defer f.mu.Unlock()
			f.remember(ctx)
			if f.failWith != nil {
				return nil, f.failWith
			}
			return fn(f, ctx, &req)
		},
	}
}

var fakeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{
		unary("FetchAll", func(f *fakeRecordServer, _ context.Context, _ *Empty) (any, error) {
			out := &RecordsResponse{}
			for id := int64(1); id <= f.nextID; id++ {
				if r, ok := f.records[id]; ok {
					out.Records = append(out.Records, r)
				}
			}
			return out, nil
		}),
		unary("FetchOne", func(f *fakeRecordServer, _ context.Context, req *IDRequest) (any, error) {
			r, ok := f.records[req.ID]
			if !ok {
				return nil, status.Error(codes.NotFound, "no such record")
			}
			return &RecordResponse{Record: r}, nil
		}),
		unary("Create", func(f *fakeRecordServer, _ context.Context, req *SaveRequest) (any, error) {
			f.nextID++
			rec := req.Record
			rec.ID = f.nextID
			f.records[rec.ID] = rec
			return &RecordResponse{Record: rec}, nil
		}),
		unary("Update", func(f *fakeRecordServer, _ context.Context, req *SaveRequest) (any, error) {
			if _, ok := f.records[req.ID]; !ok {
				return nil, status.Error(codes.NotFound, "no such record")
			}
			rec := req.Record
			rec.ID = req.ID
			f.records[req.ID] = rec
			return &RecordResponse{Record: rec}, nil
		}),
		unary("Delete", func(f *fakeRecordServer, _ context.Context, req *IDRequest) (any, error) {
			if _, ok := f.records[req.ID]; !ok {
				return nil, status.Error(codes.NotFound, "no such record")
			}
			delete(f.records, req.ID)
			return &Empty{}, nil
		}),
		unary("UpdateStatus", func(f *fakeRecordServer, _ context.Context, req *StatusRequest) (any, error) {
			r, ok := f.records[req.ID]
			if !ok {
				return nil, status.Error(codes.NotFound, "no such record")
			}
			r.Active = req.Active
			f.records[req.ID] = r
			return &Empty{}, nil
		}),
		unary("UploadFile", func(f *fakeRecordServer, _ context.Context, req *UploadRequest) (any, error) {
			f.uploads = append(f.uploads, *req)
			return &UploadResponse{FilePath: "certificates/" + req.Name}, nil
		}),
		unary("FetchAttributeCatalog", func(f *fakeRecordServer, _ context.Context, _ *Empty) (any, error) {
			return &CatalogResponse{Attributes: []models.AttributeDefinition{
				{ID: 1, Name: "Blood group", ValueType: models.ValueChoice,
					AllowedValues: []models.AttributeValue{{ID: 1, Value: "A+"}}},
				{ID: 2, Name: "Shoe size", ValueType: models.ValueNumber},
			}}, nil
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func startServer(t *testing.T, servingStatus healthpb.HealthCheckResponse_ServingStatus) (*GRPCClient, *fakeRecordServer) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	fake := &fakeRecordServer{records: map[int64]models.Record{}}
	srv.RegisterService(&fakeServiceDesc, fake)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, servingStatus)
	healthpb.RegisterHealthServer(srv, hs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet",
		WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})),
		WithCallTimeout(5*time.Second),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, fake
}

func TestGRPCClient_CRUDRoundTrip(t *testing.T) {
	c, fake := startServer(t, healthpb.HealthCheckResponse_SERVING)
	ctx := context.Background()

	created, err := c.Create(ctx, &models.Record{Code: "E001", FirstName: "Jane", LastName: "Doe", Active: true,
		Certificates: []models.Certificate{{Name: "BSc", Issuer: "Uni", FilePath: "certificates/bsc.pdf"}}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := c.FetchOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
	require.Len(t, got.Certificates, 1)
	assert.Equal(t, "certificates/bsc.pdf", got.Certificates[0].FilePath)

	got.LastName = "Roe"
	updated, err := c.Update(ctx, got.ID, got)
	require.NoError(t, err)
	assert.Equal(t, "Roe", updated.LastName)

	require.NoError(t, c.UpdateStatus(ctx, got.ID, false))

	all, err := c.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	require.NoError(t, c.Delete(ctx, got.ID))
	all, err = c.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.NotEmpty(t, fake.requestIDs)
	assert.NotEqual(t, fake.requestIDs[0], fake.requestIDs[1], "request id must be unique per call")
}

func TestGRPCClient_NotFoundMapsToSentinel(t *testing.T) {
	c, _ := startServer(t, healthpb.HealthCheckResponse_SERVING)

	_, err := c.FetchOne(context.Background(), 404)
	require.ErrorIs(t, err, common.ErrNotFound)

	var te *TransportError
	assert.False(t, errors.As(err, &te), "not-found is not a transport error")
}

func TestGRPCClient_OtherErrorsAreTransportErrors(t *testing.T) {
	c, fake := startServer(t, healthpb.HealthCheckResponse_SERVING)
	fake.failWith = status.Error(codes.Internal, "db exploded")

	_, err := c.FetchAll(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "fetch all", te.Op)
	assert.Equal(t, codes.Internal, status.Code(te.Err))
}

func TestGRPCClient_UnavailableMapsToErrUnavailable(t *testing.T) {
	c, fake := startServer(t, healthpb.HealthCheckResponse_SERVING)
	fake.failWith = status.Error(codes.Unavailable, "down")

	err := c.Delete(context.Background(), 1)

	require.ErrorIs(t, err, ErrUnavailable)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "delete", te.Op)
}

func TestGRPCClient_UploadAndCatalog(t *testing.T) {
	c, fake := startServer(t, healthpb.HealthCheckResponse_SERVING)
	ctx := context.Background()

	path, err := c.UploadFile(ctx, []byte("%PDF-1.7"), FileMeta{Name: "bsc.pdf", ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "certificates/bsc.pdf", path)
	require.Len(t, fake.uploads, 1)
	assert.Equal(t, []byte("%PDF-1.7"), fake.uploads[0].Data)

	defs, err := c.FetchAttributeCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, models.ValueChoice, defs[0].ValueType)
	assert.Equal(t, []string{"A+"}, defs[0].Values())
}

func TestGRPCClient_Ping(t *testing.T) {
	c, _ := startServer(t, healthpb.HealthCheckResponse_SERVING)
	require.NoError(t, c.Ping(context.Background()))

	down, _ := startServer(t, healthpb.HealthCheckResponse_NOT_SERVING)
	err := down.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGRPCClient_UnreachableEndpoint(t *testing.T) {
	lis := bufconn.Listen(1 << 10)
	require.NoError(t, lis.Close())

	c, err := NewGRPCClient("passthrough:///bufnet",
		WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})),
	)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err = c.FetchAll(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
}
