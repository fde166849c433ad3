package ton

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"ton-sc-viewer/internal/tvm"
)

func testAddr() *address.Address {
	data := make([]byte, 32)
	data[31] = 0x2a
	return address.NewAddress(0, 0, data)
}

func TestParseAddress(t *testing.T) {
	addr := testAddr()
	raw := "0:" + strings.Repeat("0", 62) + "2a"

	tests := []struct {
		name	string
		in	string
		wantErr	bool
	}{
		{name: "user friendly", in: addr.String()},
		{name: "with spaces", in: "  " + addr.String() + "\n"},
		{name: "raw", in: raw},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "not-an-address", wantErr: true},
		{name: "short raw", in: "0:abcd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, addr.Data(), got.Data())
			assert.Equal(t, int32(0), got.Workchain())
		})
	}
}

func newToncenter(t *testing.T, handler http.HandlerFunc) *ToncenterClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewToncenterClient(ToncenterOptions{
		Endpoint:	srv.URL,
		APIKey:		"secret",
		Timeout:	5 * time.Second,
	})
}

func TestToncenterRunGetMethod(t *testing.T) {
	owner := testAddr()
	ownerBOC := base64.StdEncoding.EncodeToString(cell.BeginCell().MustStoreAddr(owner).EndCell().ToBOC())

	var gotReq rpcRequest
	client := newToncenter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))

		fmt.Fprintf(w, `{"ok":true,"result":{"@type":"smc.runResult","gas_used":1234,"exit_code":0,"stack":[
			["num","0xff"],
			["num","-0x1"],
			["cell",{"bytes":%q,"object":{}}],
			["list",{"@type":"tvm.list","elements":[
				{"@type":"tvm.stackEntryTuple","tuple":{"@type":"tvm.tuple","elements":[
					{"@type":"tvm.stackEntryNumber","number":{"@type":"tvm.numberDecimal","number":"77"}},
					{"@type":"tvm.stackEntryCell","cell":{"@type":"tvm.cell","bytes":%q}}
				]}}
			]}],
			["null"],
			["cont",{}]
		]}}`, ownerBOC, ownerBOC)
	})

	res, err := client.RunGetMethod(context.Background(), owner, "get_storage_info")
	require.NoError(t, err)

	assert.Equal(t, "runGetMethod", gotReq.Method)
	assert.Equal(t, "get_storage_info", gotReq.Params.Method)
	assert.Equal(t, owner.String(), gotReq.Params.Address)

	assert.Equal(t, int64(1234), res.GasUsed)
	require.Len(t, res.Stack, 6)

	assert.Equal(t, int64(255), res.Stack[0].(tvm.Int).V.Int64())
	assert.Equal(t, int64(-1), res.Stack[1].(tvm.Int).V.Int64())

	c, ok := res.Stack[2].(tvm.Cell)
	require.True(t, ok)
	loaded, err := c.C.BeginParse().LoadAddr()
	require.NoError(t, err)
	assert.Equal(t, owner.String(), loaded.String())

	list, ok := res.Stack[3].(tvm.Tuple)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	inner, ok := list.Items[0].(tvm.Tuple)
	require.True(t, ok)
	require.Len(t, inner.Items, 2)
	assert.Equal(t, int64(77), inner.Items[0].(tvm.Int).V.Int64())
	assert.Equal(t, tvm.KindCell, inner.Items[1].Kind())

	assert.Equal(t, tvm.KindNull, res.Stack[4].Kind())
	assert.Equal(t, tvm.Unsupported{Tag: "cont"}, res.Stack[5])
}

func TestToncenterErrors(t *testing.T) {
	tests := []struct {
		name	string
		status	int
		body	string
		is	error
		msg	string
	}{
		{name: "not ok", status: 500, body: `{"ok":false,"error":"LITE_SERVER_UNKNOWN","code":500}`, msg: "LITE_SERVER_UNKNOWN"},
		{name: "exit code", status: 200, body: `{"ok":true,"result":{"gas_used":0,"exit_code":-13,"stack":[]}}`, is: ErrExitCode},
		{name: "bad json", status: 502, body: `<html>bad gateway</html>`, msg: "http 502"},
		{name: "no result", status: 200, body: `{"ok":true}`, msg: "empty result"},
		{name: "bad number", status: 200, body: `{"ok":true,"result":{"exit_code":0,"stack":[["num","zz"]]}}`, msg: "bad number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newToncenter(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := client.RunGetMethod(context.Background(), testAddr(), "get_providers")
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestToncenterExitCodeOne(t *testing.T) {
	client := newToncenter(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"result":{"gas_used":10,"exit_code":1,"stack":[["num","0x0"]]}}`)
	})

	res, err := client.RunGetMethod(context.Background(), testAddr(), "get_providers")
	require.NoError(t, err)
	assert.Equal(t, int32(1), res.ExitCode)
	assert.Len(t, res.Stack, 1)
}

func TestToncenterThrottle(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.WriteString(w, `{"ok":true,"result":{"exit_code":0,"stack":[]}}`)
	}))
	defer srv.Close()

	client := NewToncenterClient(ToncenterOptions{
		Endpoint:	srv.URL,
		MinInterval:	time.Hour,
	})

	_, err := client.RunGetMethod(context.Background(), testAddr(), "get_providers")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.RunGetMethod(ctx, testAddr(), "get_providers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
	assert.Equal(t, int32(1), calls.Load())
}
