package ton

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/xssnick/tonutils-go/address"
	"golang.org/x/time/rate"
)

const DefaultToncenterURL = "https://toncenter.com/api/v2/jsonRPC"

type ToncenterOptions struct {
	Endpoint	string
	APIKey		string
	Timeout		time.Duration
	// MinInterval is the minimal pause between two calls. The public
	// endpoint allows about one request per second without a key.
	MinInterval	time.Duration
}

// ToncenterClient runs get methods through the toncenter v2 JSON-RPC API.
type ToncenterClient struct {
	http		*fasthttp.Client
	endpoint	string
	apiKey		string
	timeout		time.Duration
	limiter		*rate.Limiter
	seq		atomic.Int64
}

var _ Client = (*ToncenterClient)(nil)

func NewToncenterClient(opts ToncenterOptions) *ToncenterClient {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultToncenterURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	return &ToncenterClient{
		http: &fasthttp.Client{
			Name:			"ton-sc-viewer",
			ReadTimeout:		opts.Timeout,
			WriteTimeout:		opts.Timeout,
			MaxIdleConnDuration:	time.Minute,
		},
		endpoint:	opts.Endpoint,
		apiKey:		opts.APIKey,
		timeout:	opts.Timeout,
		limiter:	rate.NewLimiter(limit, 1),
	}
}

type rpcRequest struct {
	ID	int64		`json:"id"`
	JSONRPC	string		`json:"jsonrpc"`
	Method	string		`json:"method"`
	Params	runGetParams	`json:"params"`
}

type runGetParams struct {
	Address	string	`json:"address"`
	Method	string	`json:"method"`
	Stack	[]any	`json:"stack"`
}

type rpcResponse struct {
	OK	bool		`json:"ok"`
	Result	*runGetResult	`json:"result"`
	Error	string		`json:"error"`
	Code	int		`json:"code"`
}

type runGetResult struct {
	GasUsed		int64			`json:"gas_used"`
	Stack		[]json.RawMessage	`json:"stack"`
	ExitCode	int32			`json:"exit_code"`
}

func (c *ToncenterClient) RunGetMethod(ctx context.Context, addr *address.Address, method string) (*MethodResult, error) {
	if addr == nil {
		return nil, errors.New("nil address")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(rpcRequest{
		ID:		c.seq.Add(1),
		JSONRPC:	"2.0",
		Method:		"runGetMethod",
		Params: runGetParams{
			Address:	addr.String(),
			Method:		method,
			Stack:		[]any{},
		},
	})
	if err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("toncenter request: %w", err)
	}

	var rpc rpcResponse
	if err := json.Unmarshal(resp.Body(), &rpc); err != nil {
		return nil, fmt.Errorf("toncenter response (http %d): %w", resp.StatusCode(), err)
	}
	if !rpc.OK {
		if rpc.Error == "" {
			rpc.Error = fmt.Sprintf("http %d", resp.StatusCode())
		}
		return nil, fmt.Errorf("toncenter: %s", rpc.Error)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("toncenter: http %d", resp.StatusCode())
	}
	if rpc.Result == nil {
		return nil, errors.New("toncenter: empty result")
	}
	if rpc.Result.ExitCode != 0 && rpc.Result.ExitCode != 1 {
		return nil, exitCodeError(method, rpc.Result.ExitCode)
	}

	stack, err := parseToncenterStack(rpc.Result.Stack)
	if err != nil {
		return nil, fmt.Errorf("toncenter stack: %w", err)
	}

	return &MethodResult{
		GasUsed:	rpc.Result.GasUsed,
		ExitCode:	rpc.Result.ExitCode,
		Stack:		stack,
	}, nil
}
