package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeslotConfig_Derivations(t *testing.T) {
	cfg := TimeslotConfig{
		Wednesday: {"13:00": nil, "09:00": {{ID: "p1", Name: "Jane"}}},
		Monday:    {"18:00": nil, "09:00": nil},
		Sunday:    {},
	}

	assert.Equal(t, []DayName{Monday, Wednesday}, cfg.ActiveDays())
	assert.Equal(t, []string{"09:00", "13:00", "18:00"}, cfg.PredefinedTimes())
	assert.Equal(t, []string{"09:00", "18:00"}, cfg.TimesFor(Monday))
	assert.False(t, cfg.IsActive(Sunday))
	assert.Equal(t, "Jane", cfg.Profiles(Wednesday, "09:00")[0].Name)
	assert.Nil(t, cfg.Profiles(Monday, "09:00"))
}

func TestTimeslotConfig_RoundTrip(t *testing.T) {
	cfg := TimeslotConfig{
		Monday:   {"09:00": {}, "13:00": {{ID: "p1", Name: "Jane", AvatarURL: "https://img/j"}}},
		Thursday: {"17:30": {}},
	}

	data, err := MarshalTimeslots(cfg)
	require.NoError(t, err)

	back, err := UnmarshalTimeslots(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.ActiveDays(), back.ActiveDays())
	assert.Equal(t, cfg.PredefinedTimes(), back.PredefinedTimes())
	assert.Equal(t, cfg.Profiles(Monday, "13:00"), back.Profiles(Monday, "13:00"))
}

func TestUnmarshalTimeslots_Rejects(t *testing.T) {
	_, err := UnmarshalTimeslots([]byte(`{"Funday": {"09:00": []}}`))
	assert.Error(t, err)

	_, err = UnmarshalTimeslots([]byte(`{"Monday": {"9am": []}}`))
	assert.Error(t, err)

	cfg, err := UnmarshalTimeslots(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.ActiveDays())
}

func TestFromLegacy(t *testing.T) {
	cfg, err := FromLegacy([]string{"09:00", "14:00"}, []string{"monday", "Fri"})
	require.NoError(t, err)
	assert.Equal(t, []DayName{Monday, Friday}, cfg.ActiveDays())
	assert.Equal(t, []string{"09:00", "14:00"}, cfg.TimesFor(Friday))

	_, err = FromLegacy([]string{"25:00"}, []string{"Monday"})
	assert.Error(t, err)
}

func TestTimeslotConfig_CloneIsDeep(t *testing.T) {
	cfg := TimeslotConfig{Monday: {"09:00": {{ID: "p1"}}}}
	clone := cfg.Clone()
	clone[Monday]["09:00"][0].ID = "changed"
	clone[Monday]["10:00"] = nil

	assert.Equal(t, "p1", cfg[Monday]["09:00"][0].ID)
	assert.Len(t, cfg[Monday], 1)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	for _, bad := range []string{"7:45", "24:00", "12:60", "", "1200"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
