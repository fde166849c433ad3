package fetcher

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"ton-sc-viewer/internal/contract"
	"ton-sc-viewer/internal/ton"
	"ton-sc-viewer/internal/tvm"
)

type fakeClient struct {
	mu	sync.Mutex
	calls	[]string
	results	map[string]*ton.MethodResult
	errs	map[string]error
	gate	chan struct{}
}

func (c *fakeClient) RunGetMethod(ctx context.Context, addr *address.Address, method string) (*ton.MethodResult, error) {
	c.mu.Lock()
	c.calls = append(c.calls, method)
	gate := c.gate
	c.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err := c.errs[method]; err != nil {
		return nil, err
	}
	return c.results[method], nil
}

func (c *fakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

var contractAddr = address.NewAddress(0, 0, make([]byte, 32)).String()

func newFakeClient() *fakeClient {
	owner := address.NewAddress(0, 0, make([]byte, 32))
	return &fakeClient{
		results: map[string]*ton.MethodResult{
			contract.MethodStorageInfo: {Stack: []tvm.Value{
				tvm.NewInt(1),
				tvm.NewInt(4096),
				tvm.NewInt(128),
				tvm.Cell{C: cell.BeginCell().MustStoreAddr(owner).EndCell()},
				tvm.NewInt(2),
			}},
			contract.MethodProviders: {Stack: []tvm.Value{
				tvm.Tuple{Items: []tvm.Value{
					tvm.Tuple{Items: []tvm.Value{
						tvm.Int{V: new(big.Int).SetBytes([]byte{0xca, 0xfe})},
						tvm.NewInt(10),
						tvm.NewInt(3600),
						tvm.NewInt(1700000000),
						tvm.NewInt(2048),
						tvm.NewInt(77),
					}},
				}},
				tvm.NewInt(1500000000),
			}},
		},
		errs:	map[string]error{},
	}
}

func TestFetchFullInfo(t *testing.T) {
	client := newFakeClient()
	f := New(client)

	full, err := f.FetchFullInfo(context.Background(), "  "+contractAddr+" ")
	require.NoError(t, err)

	assert.Equal(t, []string{contract.MethodStorageInfo, contract.MethodProviders}, client.Calls())
	assert.Equal(t, "4096", full.Info.FileSize)
	assert.Equal(t, uint64(128), full.Info.ChunkSize)
	require.Len(t, full.Providers.Providers, 1)
	assert.Equal(t, "77", full.Providers.Providers[0].Nonce)
	assert.Equal(t, "1500000000", full.Providers.Balance)
}

func TestFetchInvalidAddress(t *testing.T) {
	client := newFakeClient()
	f := New(client, WithRegistry(NewTTLRegistry(time.Minute)))

	_, err := f.FetchFullInfo(context.Background(), "definitely-not-an-address")
	require.ErrorIs(t, err, contract.ErrInvalidAddress)
	assert.Empty(t, client.Calls())
}

func TestFetchShortCircuit(t *testing.T) {
	client := newFakeClient()
	client.errs[contract.MethodStorageInfo] = errors.New("connection refused")
	f := New(client)

	_, err := f.FetchFullInfo(context.Background(), contractAddr)
	require.ErrorIs(t, err, contract.ErrTransportFailure)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, []string{contract.MethodStorageInfo}, client.Calls())
}

func TestFetchNilReply(t *testing.T) {
	client := newFakeClient()
	client.results[contract.MethodProviders] = nil
	f := New(client)

	_, err := f.FetchFullInfo(context.Background(), contractAddr)
	assert.ErrorIs(t, err, contract.ErrTransportFailure)
}

func TestFetchDecodeFailure(t *testing.T) {
	client := newFakeClient()
	client.results[contract.MethodStorageInfo] = &ton.MethodResult{Stack: []tvm.Value{tvm.NewInt(1)}}
	f := New(client)

	_, err := f.FetchFullInfo(context.Background(), contractAddr)
	require.ErrorIs(t, err, contract.ErrDecodeFailure)
	assert.Equal(t, []string{contract.MethodStorageInfo}, client.Calls())
}

func TestFetchParallel(t *testing.T) {
	client := newFakeClient()
	client.errs[contract.MethodStorageInfo] = errors.New("info down")
	client.errs[contract.MethodProviders] = errors.New("providers down")
	f := New(client, WithParallel(true))

	for i := 0; i < 5; i++ {
		_, err := f.FetchFullInfo(context.Background(), contractAddr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "info down")
	}
	assert.Len(t, client.Calls(), 10)

	client = newFakeClient()
	f = New(client, WithParallel(true))
	full, err := f.FetchFullInfo(context.Background(), contractAddr)
	require.NoError(t, err)
	assert.Len(t, full.Providers.Providers, 1)
	assert.ElementsMatch(t, []string{contract.MethodStorageInfo, contract.MethodProviders}, client.Calls())
}

func TestFetchCoalescing(t *testing.T) {
	client := newFakeClient()
	client.gate = make(chan struct{})
	f := New(client, WithRegistry(NewTTLRegistry(time.Minute)))

	var wg sync.WaitGroup
	results := make([]*contract.StorageContractFull, 2)
	fetch := func(i int) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.FetchFullInfo(context.Background(), contractAddr)
			assert.NoError(t, err)
			results[i] = res
		}()
	}

	// second caller starts only once the first one is inside the network call
	fetch(0)
	require.Eventually(t, func() bool { return len(client.Calls()) == 1 }, time.Second, time.Millisecond)
	fetch(1)

	close(client.gate)
	wg.Wait()

	assert.Len(t, client.Calls(), 2, "one pair of network calls")
	assert.Same(t, results[0], results[1])
}

func TestFetchCallTimeout(t *testing.T) {
	client := &blockingClient{}
	f := New(client, WithCallTimeout(10*time.Millisecond))

	_, err := f.FetchFullInfo(context.Background(), contractAddr)
	require.ErrorIs(t, err, contract.ErrTransportFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type blockingClient struct{}

func (blockingClient) RunGetMethod(ctx context.Context, _ *address.Address, _ string) (*ton.MethodResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
