package objectstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contrato-facil/internal/config"
)

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

type recordedRequest struct {
	method string
	path   string
	body   string
	ctype  string
}

func newFakeS3(t *testing.T) (*MinioStore, *[]recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			body:   string(body),
			ctype:  r.Header.Get("Content-Type"),
		})
		mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	store, err := NewMinio(config.ObjectStorage{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "payments",
	})
	require.NoError(t, err)
	return store, &reqs
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		suffix   string
	}{
		{name: "keeps extension", filename: "recibo.PNG", suffix: ".png"},
		{name: "no extension", filename: "recibo", suffix: ""},
		{name: "windows path", filename: `C:\docs\talao.pdf`, suffix: ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ObjectName("u1", tt.filename)
			assert.True(t, strings.HasPrefix(got, "proofs/u1/"), got)
			assert.True(t, strings.HasSuffix(got, tt.suffix), got)
			assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(got, "proofs/u1/"), tt.suffix), 36)
		})
	}
	assert.NotEqual(t, ObjectName("u1", "a.png"), ObjectName("u1", "a.png"))
}

func TestMinioStore_UploadPaymentProof(t *testing.T) {
	store, reqs := newFakeS3(t)

	ref, err := store.UploadPaymentProof(context.Background(), Proof{
		UserID:      "u1",
		Filename:    "recibo.png",
		ContentType: "image/png",
		Size:        5,
		Body:        strings.NewReader("bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "payments/proofs/u1/"), ref)
	assert.True(t, strings.HasSuffix(ref, ".png"), ref)

	require.NotEmpty(t, *reqs)
	last := (*reqs)[len(*reqs)-1]
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/"+ref, last.path)
	assert.Equal(t, "image/png", last.ctype)
	assert.Contains(t, last.body, "bytes")
}

func TestMinioStore_EnsureBucketExisting(t *testing.T) {
	store, reqs := newFakeS3(t)

	require.NoError(t, store.EnsureBucket(context.Background()))
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodHead, (*reqs)[0].method)
	assert.Equal(t, "/payments", strings.TrimSuffix((*reqs)[0].path, "/"))
}

func TestMinioStore_CanceledContext(t *testing.T) {
	store, _ := newFakeS3(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.UploadPaymentProof(ctx, Proof{
		UserID: "u1", Filename: "a.png", Size: 1, Body: strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "objectstore.UploadPaymentProof")
}

func TestStub_UploadPaymentProof(t *testing.T) {
	tests := []struct {
		name    string
		ctx     func() context.Context
		body    io.Reader
		want    string
		wantErr bool
	}{
		{
			name: "returns opaque reference",
			ctx:  context.Background,
			body: strings.NewReader("proof"),
			want: StubReference,
		},
		{
			name: "nil body",
			ctx:  context.Background,
			want: StubReference,
		},
		{
			name:    "read failure",
			ctx:     context.Background,
			body:    errorReader{},
			wantErr: true,
		},
		{
			name: "canceled context",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			body:    strings.NewReader("proof"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStub().UploadPaymentProof(tt.ctx(), Proof{UserID: "u1", Body: tt.body})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
