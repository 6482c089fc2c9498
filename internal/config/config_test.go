package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 10, cfg.Reservations.SlotCapacity)
	assert.Equal(t, 12, cfg.Reservations.MaxPartySize)
	assert.Equal(t, "12:00", cfg.Reservations.Slots[0])
	assert.Equal(t, "22:30", cfg.Reservations.Slots[len(cfg.Reservations.Slots)-1])
	assert.Equal(t, 45*time.Minute, cfg.Pricing.DeliveryETA)
	assert.Equal(t, 20*time.Minute, cfg.Pricing.TakeawayETA)
	assert.Equal(t, "Rs.", cfg.Pricing.Currency)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  addr: ":9090"
database:
  driver: memory
  query_timeout: 2s
pricing:
  tax_percent: 16
  total_tolerance: 0.5
reservations:
  slot_capacity: 6
  slots: ["19:00", "20:00"]
`)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "16", cfg.Pricing.TaxPercent.String())
	assert.Equal(t, "0.5", cfg.Pricing.TotalTolerance.String())
	assert.Equal(t, 6, cfg.Reservations.SlotCapacity)
	assert.Equal(t, []string{"19:00", "20:00"}, cfg.Reservations.Slots)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 12, cfg.Reservations.MaxPartySize, "unset fields keep defaults")
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, "config.yaml", `
database:
  driver: sqlite
reservations:
  slot_capacity: 0
  slots: ["7pm"]
  location: Mars/Olympus
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "slot_capacity")
	assert.Contains(t, err.Error(), `invalid time "7pm"`)
	assert.Contains(t, err.Error(), "reservations.location")
}

func TestDefault_RequestTimeoutFitsWriteTimeout(t *testing.T) {
	cfg := Default()
	assert.Less(t, cfg.Server.RequestTimeout, cfg.Server.WriteTimeout)
	require.NoError(t, cfg.Validate())

	cfg.Server.RequestTimeout = cfg.Server.WriteTimeout
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.request_timeout")
}

func TestLoad_ShippedConfigIsValid(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	cfg, err := Load(filepath.Join("..", "..", "config.yaml"))
	require.NoError(t, err)
	assert.Less(t, cfg.Server.RequestTimeout, cfg.Server.WriteTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestReservationLocation(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "Asia/Karachi", cfg.ReservationLocation().String())
}

func TestLoadFixtures(t *testing.T) {
	builtin, err := LoadFixtures("")
	require.NoError(t, err)
	assert.Len(t, builtin.Highlights, 4)
	require.NotNil(t, builtin.Deal)
	assert.Len(t, builtin.Hours, 7)

	path := writeFile(t, "fixtures.yaml", `
deal:
  title: Weekend BBQ
  original_price: 3000
  deal_price: 2500
  items: [Seekh Kebab, Naan]
default_images:
  avatar: https://example.com/avatar.png
`)
	f, err := LoadFixtures(path)
	require.NoError(t, err)
	require.NotNil(t, f.Deal)
	assert.Equal(t, "Weekend BBQ", f.Deal.Title)
	assert.Equal(t, "2500", f.Deal.DealPrice.String())
	assert.Equal(t, "https://example.com/avatar.png", f.DefaultImages.Avatar)
	assert.Equal(t, builtin.DefaultImages.Deal, f.DefaultImages.Deal, "missing images come from the built-in set")
	assert.Equal(t, builtin.DefaultImages.CategoryImage("bbq"), f.DefaultImages.CategoryImage("bbq"))
	assert.Equal(t, builtin.DefaultImages.CategoryImage("default"), f.DefaultImages.CategoryImage("unknown-slug"))
}
