package idt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"idt-crispr-bot/internal/metrics"
	"idt-crispr-bot/internal/model"
)

const (
	DefaultBaseURL  = "https://www.idtdna.com/restapi/v1"
	DefaultTokenURL = "https://www.idtdna.com/Identityserver/connect/token"

	customPath    = "/CRISPR/Design/CRISPRCustom"
	checkerPath   = "/CRISPR/Design/CRISPRSequenceChecker"
	predesignPath = "/CRISPR/Design/CRISPRPredesign"

	fastaHeader = ">target_region"
)

// TokenProvider supplies bearer tokens. *TokenSource implements it.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Client calls the CRISPR design endpoints. It holds no mutable state and can
// be shared between concurrent commands.
type Client struct {
	baseURL string
	tokens  TokenProvider
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.http = c }
}

func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(cl *Client) { cl.metrics = m }
}

func NewClient(baseURL string, tokens TokenProvider, timeout time.Duration, logger *zap.Logger, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
		timeout: timeout,
		log:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DesignCustom designs guides for a target region. A FASTA header is added
// when the sequence has none.
func (c *Client) DesignCustom(ctx context.Context, sequence string, species model.Species, maxResults int) (any, error) {
	fasta := EnsureFASTA(sequence)
	payload := map[string]any{
		"InputMode":      "FASTA",
		"Species":        species,
		"InputSequences": fasta,
		"ResultCount":    maxResults,
	}
	c.log.Info("idt custom design", zap.Stringer("species", species), zap.Int("input_len", len(fasta)))
	return c.post(ctx, "custom", customPath, payload)
}

// CheckSequence scores one protospacer.
func (c *Client) CheckSequence(ctx context.Context, sequence string, species model.Species) (any, error) {
	seq := strings.ToUpper(strings.TrimSpace(sequence))
	payload := map[string]any{
		"Species":   species,
		"Sequences": []string{seq},
	}
	c.log.Info("idt sequence check", zap.Stringer("species", species), zap.String("sequence", seq))
	return c.post(ctx, "checker", checkerPath, payload)
}

// LookupPredesigned fetches curated guides for a gene symbol or accession.
func (c *Client) LookupPredesigned(ctx context.Context, geneSymbol string, species model.Species, maxResults int) (any, error) {
	gene := strings.ToUpper(strings.TrimSpace(geneSymbol))
	payload := map[string]any{
		"Species":               species,
		"GeneSymbolOrAccession": gene,
		"ResultCount":           maxResults,
	}
	c.log.Info("idt predesign lookup", zap.String("gene", gene), zap.Stringer("species", species))
	return c.post(ctx, "predesign", predesignPath, payload)
}

func (c *Client) post(ctx context.Context, op, path string, payload any) (any, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(cctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	c.metrics.ObserveRequest(op, time.Since(start))
	if err != nil {
		return nil, &ConnectivityError{Operation: op, Err: err}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &ConnectivityError{Operation: op, Err: fmt.Errorf("read body: %w", err)}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &RemoteAPIError{Operation: op, StatusCode: res.StatusCode, Body: string(body)}
	}
	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	return out, nil
}

// EnsureFASTA prefixes a header line when s does not start with one.
func EnsureFASTA(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, ">") {
		return s
	}
	return fastaHeader + "\n" + s
}
