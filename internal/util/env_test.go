package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github/chapool/eth-relay/internal/util"
)

func TestGetEnvAsStringArr(t *testing.T) {
	t.Setenv("TEST_RPC_URLS", " http://a:8545 ,, http://b:8545 ")
	assert.Equal(t, []string{"http://a:8545", "http://b:8545"}, util.GetEnvAsStringArr("TEST_RPC_URLS", nil))

	assert.Equal(t, []string{"x"}, util.GetEnvAsStringArr("TEST_RPC_URLS_UNSET", []string{"x"}))

	t.Setenv("TEST_PIPES", "a|b")
	assert.Equal(t, []string{"a", "b"}, util.GetEnvAsStringArr("TEST_PIPES", nil, "|"))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, util.GetEnvAsDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "120")
	assert.Equal(t, 2*time.Minute, util.GetEnvAsDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "soon")
	assert.Equal(t, time.Second, util.GetEnvAsDuration("TEST_DURATION", time.Second))

	assert.Equal(t, time.Second, util.GetEnvAsDuration("TEST_DURATION_UNSET", time.Second))
}

func TestGetEnvAsNumbers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BROKEN", "x")

	assert.Equal(t, 42, util.GetEnvAsInt("TEST_INT", 1))
	assert.Equal(t, int64(42), util.GetEnvAsInt64("TEST_INT", 1))
	assert.True(t, util.GetEnvAsBool("TEST_BOOL", false))

	assert.Equal(t, 1, util.GetEnvAsInt("TEST_BROKEN", 1))
	assert.Equal(t, int64(1), util.GetEnvAsInt64("TEST_BROKEN", 1))
	assert.False(t, util.GetEnvAsBool("TEST_BROKEN", false))
}

func TestRunningInTest(t *testing.T) {
	assert.True(t, util.RunningInTest())
}
