package usage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantq/internal/usage"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, usage.Config{ResetDay: 1}.Validate())
	assert.NoError(t, usage.Config{DefaultLimit: 500, ResetDay: 31, ResetHour: 23}.Validate())

	invalid := map[string]usage.Config{
		"day zero":       {ResetDay: 0},
		"day 32":         {ResetDay: 32},
		"negative hour":  {ResetDay: 1, ResetHour: -1},
		"hour 24":        {ResetDay: 1, ResetHour: 24},
		"negative limit": {DefaultLimit: -5, ResetDay: 1},
	}
	for name, cfg := range invalid {
		assert.ErrorIs(t, cfg.Validate(), usage.ErrInvalidConfig, name)
	}
}
