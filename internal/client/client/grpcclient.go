package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/common"
	"github.com/krktechnologyandservices/GBV/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const defaultCallTimeout = 15 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	health      healthpb.HealthClient
	log         logging.Logger
	timeout     time.Duration
	dialOpts    []grpc.DialOption
}

type Option func(*GRPCClient)

// WithDialOptions appends extra dial options (used by tests for bufconn).
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) {
		c.dialOpts = append(c.dialOpts, opts...)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *GRPCClient) {
		c.log = l
	}
}

// WithCallTimeout bounds every unary call that has no earlier deadline.
func WithCallTimeout(d time.Duration) Option {
	return func(c *GRPCClient) {
		c.timeout = d
	}
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: defaultCallTimeout, log: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.initConn(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initConn() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.requestIDInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

// requestIDInterceptor tags every call with a fresh request id and logs
// its outcome at debug level.
func (s *GRPCClient) requestIDInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	id := uuid.NewString()
	ctx = metadata.AppendToOutgoingContext(ctx, common.RequestIDHeaderName, id)

	if _, ok := ctx.Deadline(); !ok && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := invoker(ctx, method, req, reply, cc, opts...)
	s.log.Debug(ctx, "rpc", "method", method, "request_id", id,
		"duration", time.Since(start), "code", status.Code(err).String())

	return err
}

func (s *GRPCClient) invoke(ctx context.Context, op, method string, req, resp any) error {
	err := s.conn.Invoke(ctx, method, req, resp, grpc.CallContentSubtype(codecName))
	if err != nil {
		return s.mapError(op, err)
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) FetchAll(ctx context.Context) ([]models.Record, error) {
	var resp RecordsResponse
	if err := s.invoke(ctx, "fetch all", MethodFetchAll, &Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (s *GRPCClient) FetchOne(ctx context.Context, id int64) (*models.Record, error) {
	var resp RecordResponse
	if err := s.invoke(ctx, "fetch one", MethodFetchOne, &IDRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Record, nil
}

func (s *GRPCClient) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	var resp RecordResponse
	if err := s.invoke(ctx, "create", MethodCreate, &SaveRequest{Record: *rec}, &resp); err != nil {
		return nil, err
	}
	return &resp.Record, nil
}

func (s *GRPCClient) Update(ctx context.Context, id int64, rec *models.Record) (*models.Record, error) {
	var resp RecordResponse
	if err := s.invoke(ctx, "update", MethodUpdate, &SaveRequest{ID: id, Record: *rec}, &resp); err != nil {
		return nil, err
	}
	return &resp.Record, nil
}

func (s *GRPCClient) Delete(ctx context.Context, id int64) error {
	return s.invoke(ctx, "delete", MethodDelete, &IDRequest{ID: id}, &Empty{})
}

func (s *GRPCClient) UpdateStatus(ctx context.Context, id int64, active bool) error {
	return s.invoke(ctx, "update status", MethodUpdateStatus, &StatusRequest{ID: id, Active: active}, &Empty{})
}

func (s *GRPCClient) UploadFile(ctx context.Context, data []byte, meta FileMeta) (string, error) {
	req := &UploadRequest{Name: meta.Name, ContentType: meta.ContentType, Data: data}

	var resp UploadResponse
	if err := s.invoke(ctx, "upload file", MethodUploadFile, req, &resp); err != nil {
		return "", err
	}
	return resp.FilePath, nil
}

func (s *GRPCClient) FetchAttributeCatalog(ctx context.Context) ([]models.AttributeDefinition, error) {
	var resp CatalogResponse
	if err := s.invoke(ctx, "fetch attribute catalog", MethodFetchAttributeCatalog, &Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Attributes, nil
}

// Ping asks the standard health service whether RecordService is serving.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return s.mapError("ping", err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return &TransportError{Op: "ping", Err: ErrUnavailable}
	}

	return nil
}

func (s *GRPCClient) mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	case codes.Unavailable, codes.DeadlineExceeded:
		return &TransportError{Op: op, Err: ErrUnavailable}
	default:
		return &TransportError{Op: op, Err: err}
	}
}
