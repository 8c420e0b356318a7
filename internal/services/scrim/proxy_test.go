package scrim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scrimworks/scrimbot/internal/chat"
)

func TestProxyFetchMemoizes(t *testing.T) {
	calls := 0
	p := NewProxy(func(ctx context.Context) (string, error) {
		calls++
		return "value", nil
	}, nil, nil)

	v, ok := p.Fetch(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	p.Fetch(context.Background())
	p.Fetch(context.Background())
	assert.Equal(t, 1, calls)
}

func TestProxyFetchFailureRetries(t *testing.T) {
	calls := 0
	p := NewProxy(func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("temporarily down")
		}
		return "value", nil
	}, nil, nil)

	_, ok := p.Fetch(context.Background())
	assert.False(t, ok)

	v, ok := p.Fetch(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "value", v)
	assert.Equal(t, 2, calls)
}

func TestProxyOnFetchRunsOnce(t *testing.T) {
	hooked := 0
	p := NewProxy(func(ctx context.Context) (int, error) {
		return 42, nil
	}, func(ctx context.Context, v int) {
		hooked += v
	}, nil)

	p.Fetch(context.Background())
	p.Fetch(context.Background())
	assert.Equal(t, 42, hooked)
}

func TestProxyClassifierSeesFetchErrors(t *testing.T) {
	var classified []error
	fatal := &chat.Error{Code: chat.CodeUnknownMessage, Op: "fetch", Err: errors.New("gone")}

	p := NewProxy(func(ctx context.Context) (string, error) {
		return "", fatal
	}, nil, func(err error) bool {
		classified = append(classified, err)
		return chat.IsFatal(err)
	})

	p.Fetch(context.Background())
	// Fatal classification silences the proxy: later errors are dropped
	p.Fetch(context.Background())

	assert.Len(t, classified, 1)
	assert.ErrorIs(t, classified[0], fatal)
}

func TestProxyWaitClassifiesCallbackErrors(t *testing.T) {
	var classified []error
	p := NewProxy(func(ctx context.Context) (string, error) {
		return "value", nil
	}, nil, func(err error) bool {
		classified = append(classified, err)
		return false
	})

	bang := errors.New("bang")
	ok := p.Wait(context.Background(), func(ctx context.Context, v string) error {
		return bang
	})
	assert.False(t, ok)
	assert.Len(t, classified, 1)
	assert.ErrorIs(t, classified[0], bang)

	ok = p.Wait(context.Background(), func(ctx context.Context, v string) error {
		assert.Equal(t, "value", v)
		return nil
	})
	assert.True(t, ok)
}

func TestProxyMap(t *testing.T) {
	p := NewProxy(func(ctx context.Context) (string, error) {
		return "value", nil
	}, nil, nil)

	n, ok := Map(context.Background(), p, func(v string) int { return len(v) })
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	broken := NewProxy(func(ctx context.Context) (string, error) {
		return "", errors.New("down")
	}, nil, nil)

	_, ok = Map(context.Background(), broken, func(v string) int { return len(v) })
	assert.False(t, ok)
}

func TestProxyWaitSkipsWhenAbsent(t *testing.T) {
	p := NewProxy(func(ctx context.Context) (string, error) {
		return "", errors.New("down")
	}, nil, nil)

	ran := false
	ok := p.Wait(context.Background(), func(ctx context.Context, v string) error {
		ran = true
		return nil
	})
	assert.False(t, ok)
	assert.False(t, ran)
}

func TestProxySetAndClear(t *testing.T) {
	calls := 0
	p := NewProxy(func(ctx context.Context) (string, error) {
		calls++
		return "fetched", nil
	}, nil, nil)

	p.Set("assigned")
	v, ok := p.Fetch(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "assigned", v)
	assert.Equal(t, 0, calls)

	p.Clear()
	v, ok = p.Fetch(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "fetched", v)
	assert.Equal(t, 1, calls)
}

func TestProxyFetchWithInstallsFetcher(t *testing.T) {
	p := NewProxy[string](nil, nil, nil)

	_, ok := p.Fetch(context.Background())
	assert.False(t, ok)

	v, ok := p.FetchWith(context.Background(), func(ctx context.Context) (string, error) {
		return "late", nil
	})
	assert.True(t, ok)
	assert.Equal(t, "late", v)
}

func TestProxySilenceSwallowsErrors(t *testing.T) {
	classified := 0
	p := NewProxy(func(ctx context.Context) (string, error) {
		return "", errors.New("down")
	}, nil, func(err error) bool {
		classified++
		return false
	})

	p.Silence()
	p.Fetch(context.Background())
	assert.Equal(t, 0, classified)
}
