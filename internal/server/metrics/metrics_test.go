package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// counter returns the value of clinic_rpc_requests_total for the label pair,
// or -1 when the series does not exist.
func counter(t *testing.T, m *Metrics, method, code string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "clinic_rpc_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["method"] == method && labels["code"] == code {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return -1
}

func TestUnaryInterceptor_CountsByCode(t *testing.T) {
	m := New()
	icpt := m.UnaryInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/clinic.v1.ClinicService/Ping"}

	ok := func(context.Context, any) (any, error) { return "pong", nil }
	denied := func(context.Context, any) (any, error) {
		return nil, status.Error(codes.PermissionDenied, "no")
	}

	resp, err := icpt(context.Background(), nil, info, ok)
	require.NoError(t, err)
	assert.Equal(t, "pong", resp)
	_, err = icpt(context.Background(), nil, info, ok)
	require.NoError(t, err)
	_, err = icpt(context.Background(), nil, info, denied)
	require.Error(t, err)

	assert.Equal(t, 2.0, counter(t, m, info.FullMethod, "OK"))
	assert.Equal(t, 1.0, counter(t, m, info.FullMethod, "PermissionDenied"))
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.Observe("/clinic.v1.ClinicService/Login", "OK", 10*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `clinic_rpc_requests_total{code="OK",method="/clinic.v1.ClinicService/Login"} 1`), text)
	assert.Contains(t, text, "clinic_rpc_request_duration_seconds_bucket")
	assert.Contains(t, text, "go_goroutines")
}

func TestRegistryIsPrivate(t *testing.T) {
	a, b := New(), New()
	a.Observe("m", "OK", time.Millisecond)

	assert.Equal(t, 1.0, counter(t, a, "m", "OK"))
	assert.Equal(t, -1.0, counter(t, b, "m", "OK"))
	assert.NotSame(t, a.Registry(), b.Registry())
}
