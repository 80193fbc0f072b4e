package rpc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"time"

	"github.com/RowanDark/xorcrack/internal/history"
	"github.com/RowanDark/xorcrack/internal/xorcrack"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server implements CrackerServer on top of the xorcrack package.
type Server struct {
	printable bool
	keyRange  xorcrack.KeyLengthRange
	logger    *slog.Logger
	history   *history.Store
}

type Option func(*Server)

// WithPrintable sets the printable default used when a request omits it.
func WithPrintable(printable bool) Option {
	return func(s *Server) {
		s.printable = printable
	}
}

// WithKeyLengthRange sets the repeating-key search bounds used when a request
// omits them.
func WithKeyLengthRange(r xorcrack.KeyLengthRange) Option {
	return func(s *Server) {
		s.keyRange = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistory records every completed analysis in store.
func WithHistory(store *history.Store) Option {
	return func(s *Server) {
		s.history = store
	}
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		printable: true,
		keyRange:  xorcrack.DefaultKeyLengthRange,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Crack(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ciphertext, err := bytesField(req, "ciphertext")
	if err != nil {
		return nil, err
	}
	printable, err := boolField(req, "printable", s.printable)
	if err != nil {
		return nil, err
	}

	res := xorcrack.Crack(ciphertext, printable)
	s.record(ctx, history.KindSingle, ciphertext, []byte{res.Key}, res)
	return newResponse(resultFields(res))
}

func (s *Server) Detect(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	candidates, err := bytesListField(req, "candidates")
	if err != nil {
		return nil, err
	}
	printable, err := boolField(req, "printable", s.printable)
	if err != nil {
		return nil, err
	}

	det, err := xorcrack.Detect(candidates, printable)
	if err != nil {
		if errors.Is(err, xorcrack.ErrNoCandidates) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	s.record(ctx, history.KindDetect, det.Input, []byte{det.Key}, det.Result)

	fields := resultFields(det.Result)
	fields["index"] = det.Index
	return newResponse(fields)
}

func (s *Server) CrackRepeatingKey(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ciphertext, err := bytesField(req, "ciphertext")
	if err != nil {
		return nil, err
	}
	r := s.keyRange
	if r.Min, err = intField(req, "min_key_length", r.Min); err != nil {
		return nil, err
	}
	if r.Max, err = intField(req, "max_key_length", r.Max); err != nil {
		return nil, err
	}

	key, ok := xorcrack.CrackRepeatingKeyRange(ciphertext, r)
	fields := map[string]any{"found": ok}
	var plaintext []byte
	if ok {
		plaintext = xorcrack.XORRepeating(ciphertext, key)
		fields["key"] = base64.StdEncoding.EncodeToString(key)
		fields["plaintext"] = base64.StdEncoding.EncodeToString(plaintext)
	}
	if s.history != nil {
		s.recordEntry(ctx, history.Entry{
			Kind:       history.KindRepeating,
			Digest:     history.Digest(ciphertext),
			InputBytes: len(ciphertext),
			Key:        key,
			Plaintext:  string(plaintext),
			Found:      ok,
		})
	}
	return newResponse(fields)
}

func (s *Server) record(ctx context.Context, kind history.Kind, input, key []byte, res xorcrack.Result) {
	if s.history == nil {
		return
	}
	entry := history.Entry{
		Kind:       kind,
		Digest:     history.Digest(input),
		InputBytes: len(input),
		Found:      res.Found(),
	}
	if entry.Found {
		entry.Key = key
		entry.Plaintext = res.Text
		entry.Score = res.Score
	}
	s.recordEntry(ctx, entry)
}

func (s *Server) recordEntry(ctx context.Context, entry history.Entry) {
	requestID, _ := RequestIDFromContext(ctx)
	saved, err := s.history.Record(ctx, entry)
	if err != nil {
		s.logger.WarnContext(ctx, "record history", "request_id", requestID, "kind", string(entry.Kind), "error", err)
		return
	}
	s.logger.DebugContext(ctx, "recorded analysis", "request_id", requestID, "id", saved.ID, "kind", string(saved.Kind))
}

// Serve runs srv on lis until ctx is cancelled, then stops gracefully.
func Serve(ctx context.Context, lis net.Listener, srv *Server) error {
	if srv == nil {
		return errors.New("server cannot be nil")
	}
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor(srv.logger)))
	RegisterCrackerServer(gs, srv)

	// Stop the gRPC server once the provided context is cancelled.
	go func() {
		<-ctx.Done()

		done := make(chan struct{})
		go func() {
			gs.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			gs.Stop()
		}
	}()

	srv.logger.Info("serving", "addr", lis.Addr().String())
	if err := gs.Serve(lis); err != nil {
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
	return nil
}

func resultFields(res xorcrack.Result) map[string]any {
	fields := map[string]any{"found": res.Found()}
	if res.Found() {
		fields["key"] = base64.StdEncoding.EncodeToString([]byte{res.Key})
		fields["plaintext"] = base64.StdEncoding.EncodeToString(res.Plaintext)
		fields["score"] = res.Score
	}
	return fields
}

func newResponse(fields map[string]any) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func bytesField(req *structpb.Struct, name string) ([]byte, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	return decodeBytes(v, name)
}

func bytesListField(req *structpb.Struct, name string) ([][]byte, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "field %q must be a list", name)
	}
	out := make([][]byte, 0, len(list.ListValue.GetValues()))
	for i, item := range list.ListValue.GetValues() {
		b, err := decodeBytes(item, fmt.Sprintf("%s[%d]", name, i))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeBytes(v *structpb.Value, name string) ([]byte, error) {
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "field %q must be a base64 string", name)
	}
	b, err := base64.StdEncoding.DecodeString(s.StringValue)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "field %q: %v", name, err)
	}
	return b, nil
}

func boolField(req *structpb.Struct, name string, def bool) (bool, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return def, nil
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, status.Errorf(codes.InvalidArgument, "field %q must be a bool", name)
	}
	return b.BoolValue, nil
}

func intField(req *structpb.Struct, name string, def int) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.IsInf(n.NumberValue, 0) {
		return 0, status.Errorf(codes.InvalidArgument, "field %q must be an integer", name)
	}
	if n.NumberValue < math.MinInt32 || n.NumberValue > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "field %q is out of range", name)
	}
	return int(n.NumberValue), nil
}
