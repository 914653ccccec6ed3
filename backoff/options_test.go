package backoff

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hedisam/backoffactor/actor"
	"github.com/hedisam/backoffactor/sysmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*actor.Actor) {}

func TestOptionsValidate(t *testing.T) {
	valid := OnFailure(noop, "worker", time.Second, time.Minute, 0.2)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{"nil child fn", OnStop(nil, "worker", time.Second, time.Minute, 0), "ChildFn"},
		{"empty child name", OnStop(noop, "", time.Second, time.Minute, 0), "ChildName"},
		{"empty name", valid.SetName(""), "Name"},
		{"zero min backoff", OnStop(noop, "worker", 0, time.Minute, 0), "MinBackoff"},
		{"max below min", OnStop(noop, "worker", time.Minute, time.Second, 0), "MaxBackoff"},
		{"negative random factor", OnStop(noop, "worker", time.Second, time.Minute, -0.1), "RandomFactor"},
		{"random factor above one", OnStop(noop, "worker", time.Second, time.Minute, 1.1), "RandomFactor"},
		{"nan random factor", OnStop(noop, "worker", time.Second, time.Minute, math.NaN()), "RandomFactor"},
		{"negative reset backoff", valid.SetAutoReset(-time.Second), "Reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOptions))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestOptionsBuilders(t *testing.T) {
	base := OnStop(noop, "worker", time.Second, time.Minute, 0)
	assert.Equal(t, AutoReset{ResetBackoff: time.Second}, base.Reset)
	assert.Equal(t, sysmsg.Stop, base.Decider(nil))
	assert.NotEmpty(t, base.Name)

	opts := base.SetManualReset().SetName("sup").SetChildArgs(1, "two")
	assert.Equal(t, ManualReset{}, opts.Reset)
	assert.Equal(t, "sup", opts.Name)
	assert.Equal(t, []interface{}{1, "two"}, opts.ChildArgs)
	// builders work on copies
	assert.Equal(t, AutoReset{ResetBackoff: time.Second}, base.Reset)

	failure := OnFailure(noop, "worker", time.Second, time.Minute, 0)
	assert.Equal(t, sysmsg.Restart, failure.Decider(nil))
	assert.Equal(t, sysmsg.Stop, failure.SetDefaultStoppingStrategy().Decider(nil))
}

func TestOptionsDefaults(t *testing.T) {
	opts := OnStop(noop, "worker", time.Second, time.Minute, 0).SetAutoReset(0)
	opts.Decider = nil
	opts = opts.withDefaults()

	assert.Equal(t, AutoReset{ResetBackoff: time.Second}, opts.Reset)
	assert.Equal(t, sysmsg.Stop, opts.Decider(nil))
	assert.NotNil(t, opts.Rand)
	assert.NotNil(t, opts.DeadLetters)
	assert.Equal(t, TimerScheduler{}, opts.Scheduler)
}

func TestStartRejectsInvalidOptions(t *testing.T) {
	ref, err := Start(OnFailure(noop, "worker", time.Minute, time.Second, 0))
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Nil(t, ref)
}
