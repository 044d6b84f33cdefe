package rpcsource

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeLegacyServer answers JSON-RPC calls from canned handlers keyed by
// "service.method" or, for execute_kw, "model.method".
type fakeLegacyServer struct {
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]func(args []json.RawMessage) (any, *RPCError)
	calls    []string
}

func newFakeLegacyServer(t *testing.T) (*fakeLegacyServer, *httptest.Server) {
	t.Helper()
	fake := &fakeLegacyServer{t: t, handlers: map[string]func([]json.RawMessage) (any, *RPCError){}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, srv
}

func (f *fakeLegacyServer) handle(key string, h func(args []json.RawMessage) (any, *RPCError)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[key] = h
}

func (f *fakeLegacyServer) respond(key string, result any) {
	f.handle(key, func([]json.RawMessage) (any, *RPCError) { return result, nil })
}

func (f *fakeLegacyServer) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeLegacyServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != endpointPath || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req struct {
		ID     int64 `json:"id"`
		Params struct {
			Service string            `json:"service"`
			Method  string            `json:"method"`
			Args    []json.RawMessage `json:"args"`
		} `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := req.Params.Service + "." + req.Params.Method
	args := req.Params.Args
	if key == "object.execute_kw" && len(args) >= 5 {
		var model, method string
		_ = json.Unmarshal(args[3], &model)
		_ = json.Unmarshal(args[4], &method)
		key = model + "." + method
		args = args[5:]
	}

	f.mu.Lock()
	f.calls = append(f.calls, key)
	h, ok := f.handlers[key]
	f.mu.Unlock()

	reply := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		reply["error"] = RPCError{Code: 200, Message: "Odoo Server Error"}
	} else if result, rpcErr := h(args); rpcErr != nil {
		reply["error"] = rpcErr
	} else {
		reply["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reply)
}
