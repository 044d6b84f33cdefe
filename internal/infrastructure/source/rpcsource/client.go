// Package rpcsource reads legacy invoices through the legacy server's JSON-RPC endpoint.
package rpcsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/morrillo/blo-migration/internal/infrastructure/telemetry"
)

const (
	endpointPath    = "/jsonrpc"
	maxResponseSize = 64 << 20

	serviceCommon = "common"
	serviceObject = "object"
)

// ErrTransport marks failures to reach the endpoint or to read a well-formed reply
var ErrTransport = errors.New("rpc transport failure")

// RPCError is an error reply returned by the legacy server
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data"`
}

func (e *RPCError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, e.Data.Message)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Client issues JSON-RPC 2.0 "call" requests against one legacy server
type Client struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Int64
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + endpointPath,
		httpClient: httpClient,
	}
}

// Endpoint returns the URL requests are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call invokes service.method with args and decodes the result into out.
// Transport problems wrap ErrTransport; server faults are returned as *RPCError.
func (c *Client) Call(ctx context.Context, service, method string, args []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("marshal %s.%s request: %w", service, method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: HTTP %d", ErrTransport, resp.StatusCode)
	}

	var reply rpcResponse
	if err := json.Unmarshal(raw, &reply); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if reply.Error != nil {
		return reply.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return fmt.Errorf("decode %s.%s result: %w", service, method, err)
	}
	return nil
}

// Authenticate returns the session uid for the credentials, or 0 when they are refused
func (c *Client) Authenticate(ctx context.Context, db, user, password string) (int64, error) {
	var uid odooInt
	if err := c.Call(ctx, serviceCommon, "authenticate", []any{db, user, password, map[string]any{}}, &uid); err != nil {
		return 0, err
	}
	return int64(uid), nil
}

// ExecuteKw runs model.method through the object service with the given session
func (c *Client) ExecuteKw(ctx context.Context, s Session, model, method string, args []any, kwargs map[string]any, out any) error {
	ctx, span := telemetry.StartSpan(ctx, "rpc "+model+"."+method,
		telemetry.WithAttribute(telemetry.SpanAttrRPCModel, model),
		telemetry.WithAttribute(telemetry.SpanAttrRPCMethod, method),
	)
	defer span.End()

	if kwargs == nil {
		kwargs = map[string]any{}
	}
	err := c.Call(ctx, serviceObject, "execute_kw", []any{s.DB, s.UID, s.Password, model, method, args, kwargs}, out)
	if err != nil {
		telemetry.RecordError(span, err)
	}
	return err
}

// Session holds the credentials of an authenticated connection
type Session struct {
	DB       string
	UID      int64
	Password string
}
