package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"math"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/xorcrack/internal/history"
	"github.com/RowanDark/xorcrack/internal/xorcrack"
)

const (
	baconHex      = "1b37373331363f78151b7f2b783431333d78397828372d363c78373e783a393b3736"
	terminatorKey = "Terminator X: Bring the noise"
)

// nonViable has no key byte that makes both bytes printable.
var nonViable = []byte{0x00, 0x80}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

// lastLine returns the most recent log record.
func (b *lockedBuffer) lastLine() string {
	lines := b.lines()
	return lines[len(lines)-1]
}

// find returns the first log record with the given message.
func (b *lockedBuffer) find(msg string) (string, bool) {
	for _, line := range b.lines() {
		if gjson.Get(line, "msg").String() == msg {
			return line, true
		}
	}
	return "", false
}

type harness struct {
	conn   *grpc.ClientConn
	client *Client
	logs   *lockedBuffer
}

func startServer(t *testing.T, opts ...Option) *harness {
	t.Helper()

	logs := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	srv := NewServer(append([]Option{WithLogger(logger)}, opts...)...)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(ctx, lis, srv)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Error("server did not shut down after context cancellation")
		}
	})

	return &harness{conn: conn, client: NewClient(conn), logs: logs}
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func loadVigenere(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "xorcrack", "testdata", "vigenere.txt"))
	require.NoError(t, err)
	ct, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	require.NoError(t, err)
	return ct
}

func TestCrack(t *testing.T) {
	h := startServer(t)

	res, err := h.client.Crack(context.Background(), mustHex(t, baconHex), true)
	require.NoError(t, err)
	assert.True(t, res.Found())
	assert.Equal(t, byte(88), res.Key)
	assert.Equal(t, "Cooking MC's like a pound of bacon", res.Text)
	assert.Greater(t, res.Score, 0.0)
}

func TestCrackNotFound(t *testing.T) {
	h := startServer(t)

	res, err := h.client.Crack(context.Background(), nonViable, true)
	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.True(t, math.IsInf(res.Score, 1))
}

func TestCrackInvalidArgument(t *testing.T) {
	h := startServer(t)

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"missing ciphertext", map[string]any{}},
		{"bad base64", map[string]any{"ciphertext": "not base64!"}},
		{"wrong type", map[string]any{"ciphertext": 12}},
		{"bad printable", map[string]any{"ciphertext": "AA==", "printable": "yes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := structpb.NewStruct(tt.fields)
			require.NoError(t, err)
			err = h.conn.Invoke(context.Background(), MethodCrack, req, new(structpb.Struct))
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestDetect(t *testing.T) {
	h := startServer(t)

	candidates := [][]byte{nonViable, mustHex(t, baconHex), []byte("\x7f\x7f\x7f")}
	det, err := h.client.Detect(context.Background(), candidates, true)
	require.NoError(t, err)
	assert.Equal(t, 1, det.Index)
	assert.Equal(t, byte(88), det.Key)
	assert.Equal(t, candidates[1], det.Input)
	assert.True(t, det.Found())
}

func TestDetectNothingViable(t *testing.T) {
	h := startServer(t)

	det, err := h.client.Detect(context.Background(), [][]byte{nonViable, nonViable}, true)
	require.NoError(t, err)
	assert.Equal(t, 0, det.Index)
	assert.False(t, det.Found())
}

func TestDetectEmpty(t *testing.T) {
	h := startServer(t)

	_, err := h.client.Detect(context.Background(), nil, true)
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCrackRepeatingKey(t *testing.T) {
	h := startServer(t)
	ciphertext := loadVigenere(t)

	key, ok, err := h.client.CrackRepeatingKey(context.Background(), ciphertext, xorcrack.DefaultKeyLengthRange)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, terminatorKey, string(key))

	key, ok, err = h.client.CrackRepeatingKey(context.Background(), ciphertext, xorcrack.KeyLengthRange{Min: 2, Max: 28})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, key)
}

func TestCrackRepeatingKeyShortInput(t *testing.T) {
	h := startServer(t)

	_, ok, err := h.client.CrackRepeatingKey(context.Background(), []byte("abc"), xorcrack.DefaultKeyLengthRange)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCrackRepeatingKeyBadRange(t *testing.T) {
	h := startServer(t)

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"fractional min", map[string]any{"min_key_length": 2.5}},
		{"huge max", map[string]any{"max_key_length": 1e19}},
		{"huge negative min", map[string]any{"min_key_length": -1e19}},
		{"just past int32", map[string]any{"max_key_length": float64(math.MaxInt32) + 1}},
		{"string max", map[string]any{"max_key_length": "40"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fields["ciphertext"] = "AAAA"
			req, err := structpb.NewStruct(tt.fields)
			require.NoError(t, err)
			err = h.conn.Invoke(context.Background(), MethodCrackRepeatingKey, req, new(structpb.Struct))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestCrackRepeatingKeyLargeMaxIsClamped(t *testing.T) {
	h := startServer(t)
	ciphertext := loadVigenere(t)

	for _, limit := range []float64{40, 1e9, math.MaxInt32} {
		req, err := structpb.NewStruct(map[string]any{
			"ciphertext":     base64.StdEncoding.EncodeToString(ciphertext),
			"max_key_length": limit,
		})
		require.NoError(t, err)

		out := new(structpb.Struct)
		require.NoError(t, h.conn.Invoke(context.Background(), MethodCrackRepeatingKey, req, out))
		require.True(t, out.GetFields()["found"].GetBoolValue(), "max_key_length %v", limit)

		key, err := base64.StdEncoding.DecodeString(out.GetFields()["key"].GetStringValue())
		require.NoError(t, err)
		assert.Equal(t, terminatorKey, string(key))
	}
}

func TestRequestIDHeaderAndLog(t *testing.T) {
	h := startServer(t)

	req, err := structpb.NewStruct(map[string]any{
		"ciphertext": base64.StdEncoding.EncodeToString(mustHex(t, baconHex)),
	})
	require.NoError(t, err)

	var header metadata.MD
	err = h.conn.Invoke(context.Background(), MethodCrack, req, new(structpb.Struct), grpc.Header(&header))
	require.NoError(t, err)

	ids := header.Get(RequestIDHeader)
	require.Len(t, ids, 1)
	assert.NotEmpty(t, ids[0])

	line := h.logs.lastLine()
	require.True(t, gjson.Valid(line), "log line %q", line)
	assert.Equal(t, "rpc call", gjson.Get(line, "msg").String())
	assert.Equal(t, MethodCrack, gjson.Get(line, "method").String())
	assert.Equal(t, "OK", gjson.Get(line, "code").String())
	assert.Equal(t, ids[0], gjson.Get(line, "request_id").String())
}

func TestRequestIDPropagated(t *testing.T) {
	h := startServer(t)

	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-123")
	var header metadata.MD
	_, err := h.client.Crack(ctx, mustHex(t, baconHex), true, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"req-123"}, header.Get(RequestIDHeader))
}

func TestFailedCallLoggedAsWarning(t *testing.T) {
	h := startServer(t)

	_, err := h.client.Detect(context.Background(), nil, true)
	require.Error(t, err)

	line := h.logs.lastLine()
	assert.Equal(t, "WARN", gjson.Get(line, "level").String())
	assert.Equal(t, "InvalidArgument", gjson.Get(line, "code").String())
}

func TestHistoryRecording(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	h := startServer(t, WithHistory(store))
	ciphertext := mustHex(t, baconHex)

	_, err = h.client.Crack(context.Background(), ciphertext, true)
	require.NoError(t, err)
	_, _, err = h.client.CrackRepeatingKey(context.Background(), []byte("abc"), xorcrack.DefaultKeyLengthRange)
	require.NoError(t, err)

	entries, err := store.FindByDigest(context.Background(), history.Digest(ciphertext))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.KindSingle, entries[0].Kind)
	assert.Equal(t, []byte{88}, entries[0].Key)
	assert.True(t, entries[0].Found)

	all, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHistoryFailureLogsRequestID(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	h := startServer(t, WithHistory(store))

	var header metadata.MD
	_, err = h.client.Crack(context.Background(), mustHex(t, baconHex), true, grpc.Header(&header))
	require.NoError(t, err, "history failures never fail the call")

	line, ok := h.logs.find("record history")
	require.True(t, ok, "expected a record history warning")
	assert.Equal(t, "WARN", gjson.Get(line, "level").String())
	assert.Equal(t, header.Get(RequestIDHeader)[0], gjson.Get(line, "request_id").String())
	assert.Equal(t, string(history.KindSingle), gjson.Get(line, "kind").String())
}

func TestLoggingInterceptorWithoutTransport(t *testing.T) {
	logs := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	interceptor := LoggingInterceptor(logger)

	var seen string
	handler := func(ctx context.Context, req any) (any, error) {
		seen, _ = RequestIDFromContext(ctx)
		return req, nil
	}
	_, err := interceptor(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: MethodCrack}, handler)
	require.NoError(t, err)
	require.NotEmpty(t, seen)

	line, ok := logs.find("set request id header")
	require.True(t, ok, "expected the header failure to be logged")
	assert.Equal(t, "DEBUG", gjson.Get(line, "level").String())
	assert.Equal(t, seen, gjson.Get(line, "request_id").String())

	call, ok := logs.find("rpc call")
	require.True(t, ok)
	assert.Equal(t, seen, gjson.Get(call, "request_id").String())
}

func TestRequestIDFromContextMissing(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestServeNilServer(t *testing.T) {
	assert.Error(t, Serve(context.Background(), bufconn.Listen(1024), nil))
}
