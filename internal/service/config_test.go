package service_test

import (
	"testing"

	"github.com/chuthree/brew-guide/internal/service"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, found, err := service.GetConfig(db, service.ConfigStatsGranularity); err != nil || found {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}

	if err := service.SetConfig(db, service.ConfigStatsGranularity, "month"); err != nil {
		t.Fatalf("set config: %v", err)
	}
	if err := service.SetConfig(db, service.ConfigStatsPeriod, "2026-02"); err != nil {
		t.Fatalf("set config: %v", err)
	}
	if err := service.SetConfig(db, service.ConfigStatsGranularity, "year"); err != nil {
		t.Fatalf("overwrite config: %v", err)
	}

	value, found, err := service.GetConfig(db, service.ConfigStatsGranularity)
	if err != nil || !found {
		t.Fatalf("get config: found=%v err=%v", found, err)
	}
	if value != "year" {
		t.Fatalf("expected overwritten value, got %q", value)
	}

	all, err := service.ListConfig(db)
	if err != nil {
		t.Fatalf("list config: %v", err)
	}
	if len(all) != 2 || all[service.ConfigStatsPeriod] != "2026-02" {
		t.Fatalf("unexpected config map %v", all)
	}

	if err := service.SetConfig(db, "  ", "x"); err == nil {
		t.Fatalf("expected error for blank key")
	}
}
