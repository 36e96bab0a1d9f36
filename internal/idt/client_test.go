package idt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"idt-crispr-bot/internal/model"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

type failingToken struct{ err error }

func (f failingToken) Token(context.Context) (string, error) { return "", f.err }

type captured struct {
	path string
	auth string
	body map[string]any
}

func designServer(t *testing.T, status int, resp string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got.body))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDesignCustomAddsFastaHeader(t *testing.T) {
	var got captured
	srv := designServer(t, http.StatusOK, `{"Guides":[]}`, &got)
	c := NewClient(srv.URL+"/restapi/v1/", staticToken("abc"), time.Second, zaptest.NewLogger(t))

	out, err := c.DesignCustom(context.Background(), "  ACGTACGT  ", model.Mouse, 5)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Guides": []any{}}, out)
	assert.Equal(t, "/restapi/v1/CRISPR/Design/CRISPRCustom", got.path)
	assert.Equal(t, "Bearer abc", got.auth)
	assert.Equal(t, "FASTA", got.body["InputMode"])
	assert.Equal(t, "mouse", got.body["Species"])
	assert.Equal(t, ">target_region\nACGTACGT", got.body["InputSequences"])
	assert.EqualValues(t, 5, got.body["ResultCount"])
}

func TestDesignCustomKeepsExistingHeader(t *testing.T) {
	assert.Equal(t, ">exon2\nACGT", EnsureFASTA(">exon2\nACGT\n"))
}

func TestCheckSequenceUppercases(t *testing.T) {
	var got captured
	srv := designServer(t, http.StatusOK, `[{"OnTargetScore":70}]`, &got)
	c := NewClient(srv.URL, staticToken("abc"), time.Second, nil)

	_, err := c.CheckSequence(context.Background(), " acgtacgtacgtacgtacgt ", model.Human)
	require.NoError(t, err)
	assert.Equal(t, "/CRISPR/Design/CRISPRSequenceChecker", got.path)
	assert.Equal(t, []any{"ACGTACGTACGTACGTACGT"}, got.body["Sequences"])
}

func TestLookupPredesigned(t *testing.T) {
	var got captured
	srv := designServer(t, http.StatusOK, `{"Results":[]}`, &got)
	c := NewClient(srv.URL, staticToken("abc"), time.Second, nil)

	_, err := c.LookupPredesigned(context.Background(), " tnnt2", model.Rat, 3)
	require.NoError(t, err)
	assert.Equal(t, "/CRISPR/Design/CRISPRPredesign", got.path)
	assert.Equal(t, "TNNT2", got.body["GeneSymbolOrAccession"])
	assert.Equal(t, "rat", got.body["Species"])
	assert.EqualValues(t, 3, got.body["ResultCount"])
}

func TestRemoteAPIError(t *testing.T) {
	var got captured
	long := strings.Repeat("x", 500)
	srv := designServer(t, http.StatusUnprocessableEntity, long, &got)
	c := NewClient(srv.URL, staticToken("abc"), time.Second, nil)

	_, err := c.LookupPredesigned(context.Background(), "BRCA1", model.Human, 5)
	var apiErr *RemoteAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Len(t, apiErr.Excerpt(), ExcerptLimit)
}

func TestConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := NewClient(url, staticToken("abc"), time.Second, nil)

	_, err := c.CheckSequence(context.Background(), "ACGTACGTACGTACGTACGT", model.Human)
	var connErr *ConnectivityError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "checker", connErr.Operation)
}

func TestTimeoutIsConnectivityError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)
	c := NewClient(srv.URL, staticToken("abc"), 50*time.Millisecond, nil)

	_, err := c.DesignCustom(context.Background(), "ACGT", model.Human, 5)
	var connErr *ConnectivityError
	require.True(t, errors.As(err, &connErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenFailurePropagates(t *testing.T) {
	authErr := &AuthError{StatusCode: http.StatusUnauthorized}
	c := NewClient("http://127.0.0.1:1", failingToken{err: authErr}, time.Second, nil)

	_, err := c.DesignCustom(context.Background(), "ACGT", model.Human, 5)
	assert.Same(t, authErr, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "🧬🧬", Truncate("🧬🧬🧬", 2))
}
