package strategy

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractsDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Parsed{}.Contracts())
	assert.Equal(t, 3, Parsed{PositionSizing: Contracts(3)}.Contracts())
}

func TestFirstStopLoss(t *testing.T) {
	t.Parallel()

	exits := []ExitCondition{
		{Type: TakeProfit, Unit: Ticks, Value: 40},
		{Type: StopLoss, Unit: Ticks, Value: 16},
		{Type: StopLoss, Unit: Dollars, Value: 500},
	}

	ec, ok := FirstStopLoss(exits)
	require.True(t, ok)
	assert.Equal(t, Ticks, ec.Unit)
	assert.Equal(t, 16.0, ec.Value)

	_, ok = FirstStopLoss(exits[:1])
	assert.False(t, ok)

	_, ok = Parsed{}.StopLoss()
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		p      Parsed
		errMsg string
	}{
		{name: "empty is fine", p: Parsed{}},
		{
			name:   "zero contracts",
			p:      Parsed{PositionSizing: Contracts(0)},
			errMsg: "maxContracts must be positive",
		},
		{
			name:   "missing type",
			p:      Parsed{ExitConditions: []ExitCondition{{Value: 1}}},
			errMsg: "exitConditions[0].type is required",
		},
		{
			name:   "bad stop unit",
			p:      Parsed{ExitConditions: []ExitCondition{{Type: StopLoss, Unit: "points", Value: 4}}},
			errMsg: "unit must be 'ticks' or 'dollars'",
		},
		{
			name:   "negative value",
			p:      Parsed{ExitConditions: []ExitCondition{{Type: StopLoss, Unit: Ticks, Value: -4}}},
			errMsg: "must not be negative",
		},
		{
			name:   "infinite stop",
			p:      Parsed{ExitConditions: []ExitCondition{{Type: StopLoss, Unit: Ticks, Value: math.Inf(1)}}},
			errMsg: "exitConditions[0].value must be a finite number",
		},
		{
			name:   "NaN exit value",
			p:      Parsed{ExitConditions: []ExitCondition{{Type: TakeProfit, Unit: Ticks, Value: 8}, {Type: StopLoss, Unit: Dollars, Value: math.NaN()}}},
			errMsg: "exitConditions[1].value must be a finite number",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.p.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "orb.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
name: opening range breakout
positionSizing:
  maxContracts: 2
exitConditions:
  - type: stop_loss
    unit: ticks
    value: 16
  - type: take_profit
    unit: ticks
    value: 32
`), 0o644))

	p, err := LoadFromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "opening range breakout", p.Name)
	assert.Equal(t, 2, p.Contracts())
	require.Len(t, p.ExitConditions, 2)

	jsonPath := filepath.Join(dir, "orb.json")
	require.NoError(t, os.WriteFile(jsonPath,
		[]byte(`{"exitConditions":[{"type":"stop_loss","unit":"dollars","value":250}]}`), 0o644))

	p, err = LoadFromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Contracts())
	sl, ok := p.StopLoss()
	require.True(t, ok)
	assert.Equal(t, Dollars, sl.Unit)

	_, err = LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileRejectsNonFiniteValues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, v := range []string{".inf", "-.inf", ".nan"} {
		path := filepath.Join(dir, "stop"+v+".yaml")
		require.NoError(t, os.WriteFile(path, []byte("exitConditions:\n  - type: stop_loss\n    unit: ticks\n    value: "+v+"\n"), 0o644))

		_, err := LoadFromFile(path)
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "must be a finite number", v)
	}
}
