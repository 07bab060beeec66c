package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryTransient, "transient"},
		{CategoryPermanent, "permanent"},
		{CategoryUserCode, "user_code"},
		{CategoryFramework, "framework"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.String())
		})
	}
}

func TestCategory_TextRoundTrip(t *testing.T) {
	for _, cat := range []Category{CategoryTransient, CategoryPermanent, CategoryUserCode, CategoryFramework} {
		text, err := cat.MarshalText()
		require.NoError(t, err)

		var got Category
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, cat, got)
		assert.True(t, cat.Valid())
	}

	_, err := Category(42).MarshalText()
	assert.Error(t, err)
	assert.False(t, Category(42).Valid())
	assert.False(t, Category(-1).Valid())

	var c Category
	assert.Error(t, c.UnmarshalText([]byte("nope")))
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil error", nil, CategoryPermanent},
		{"timeout", &TimeoutError{Operation: "load", Duration: "30s"}, CategoryTransient},
		{"deadline", context.DeadlineExceeded, CategoryTransient},
		{"cancelled", context.Canceled, CategoryPermanent},
		{"user code", &UserCodeError{StepKey: "s1", Err: errors.New("boom")}, CategoryUserCode},
		{"resource", &ResourceInitError{Resource: "db", Err: errors.New("refused")}, CategoryFramework},
		{"categorized", Transient(errors.New("x"), "fetch"), CategoryTransient},
		{"wrapped categorized", fmt.Errorf("outer: %w", Permanent(errors.New("x"), "")), CategoryPermanent},
		{"unknown", errors.New("unknown"), CategoryPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&TimeoutError{}))
	assert.False(t, IsRetryable(&UserCodeError{Err: errors.New("x")}))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestCategorizedError_Error(t *testing.T) {
	err := &CategorizedError{Err: errors.New("boom"), Category: CategoryTransient, Retries: 2, Context: "fetch"}
	assert.Equal(t, "fetch: boom (category: transient, attempts: 2)", err.Error())
	assert.ErrorIs(t, err, err.Err)

	bare := &CategorizedError{Err: errors.New("boom"), Category: CategoryPermanent}
	assert.Equal(t, "boom (category: permanent, attempts: 0)", bare.Error())
}

func TestFromError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, FromError(nil))
	})

	t.Run("cause chain", func(t *testing.T) {
		root := errors.New("connection refused")
		err := &ResourceInitError{Resource: "warehouse", Err: root}

		info := FromError(err)
		require.NotNil(t, info)
		assert.Equal(t, "initialize resource warehouse: connection refused", info.Message)
		assert.Equal(t, "*errors.ResourceInitError", info.ClassName)
		assert.NotEmpty(t, info.Stack)

		require.NotNil(t, info.Cause)
		assert.Equal(t, "connection refused", info.Cause.Message)
		assert.Empty(t, info.Cause.Stack)
		assert.Nil(t, info.Cause.Cause)
	})

	t.Run("survives json", func(t *testing.T) {
		info := FromError(fmt.Errorf("wrap: %w", errors.New("inner")))

		data, err := json.Marshal(info)
		require.NoError(t, err)

		var decoded SerializableErrorInfo
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, *info, decoded)
	})
}

func TestFromPanic(t *testing.T) {
	info := FromPanic("bad state", []byte("goroutine 1\nmain.go:10\n"))
	assert.Equal(t, "panic: bad state", info.Message)
	assert.Equal(t, []string{"goroutine 1", "main.go:10"}, info.Stack)
	assert.Equal(t, "string", info.ClassName)
}

func TestSerializableErrorInfo_String(t *testing.T) {
	info := &SerializableErrorInfo{
		Message: "outer",
		Stack:   []string{"frame"},
		Cause:   &SerializableErrorInfo{Message: "inner"},
	}
	assert.Equal(t, "outer\nframe\ncaused by: inner", info.String())

	var nilInfo *SerializableErrorInfo
	assert.Equal(t, "", nilInfo.String())
}

func TestWithRetryContext(t *testing.T) {
	fast := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, BackoffFactor: 2}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		result := WithRetryContext(context.Background(), fast, func(_ context.Context, attempt int) (string, error) {
			if attempt < 3 {
				return "", &TimeoutError{Operation: "op", Duration: "1ms"}
			}
			return "ok", nil
		})
		require.NoError(t, result.Err)
		assert.Equal(t, "ok", result.Value)
		assert.Equal(t, 3, result.Attempts)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		result := WithRetryContext(context.Background(), fast, func(_ context.Context, _ int) (int, error) {
			calls++
			return 0, boom
		})
		assert.ErrorIs(t, result.Err, boom)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, result.Attempts)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		result := WithRetryContext(context.Background(), fast, func(_ context.Context, _ int) (int, error) {
			return 0, &TimeoutError{Operation: "op"}
		})
		var timeoutErr *TimeoutError
		assert.ErrorAs(t, result.Err, &timeoutErr)
		assert.Equal(t, 3, result.Attempts)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result := WithRetryContext(ctx, fast, func(_ context.Context, _ int) (int, error) {
			return 1, nil
		})
		assert.ErrorIs(t, result.Err, context.Canceled)
		assert.Equal(t, 0, result.Attempts)
	})

	t.Run("zero attempts runs once", func(t *testing.T) {
		result := WithRetryContext(context.Background(), RetryConfig{}, func(_ context.Context, _ int) (int, error) {
			return 7, nil
		})
		require.NoError(t, result.Err)
		assert.Equal(t, 7, result.Value)
	})
}
