package service_test

import (
	"testing"
	"time"

	"github.com/chuthree/brew-guide/internal/service"
)

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	src := newTestDB(t)
	defer src.Close()

	beanID, err := service.CreateBean(src, service.CreateBeanInput{
		Name: "Kenya AA", Category: "filter", CapacityG: 250, RemainingG: -1, Price: 75, RoastDate: "2026-02-01",
	})
	if err != nil {
		t.Fatalf("create bean: %v", err)
	}
	if _, err := service.LogBrew(src, service.LogBrewInput{
		BeanID:   beanID,
		Dose:     "15g",
		Method:   "v60",
		Rating:   5,
		BrewedAt: time.Date(2026, 2, 10, 8, 0, 0, 0, time.Local),
	}); err != nil {
		t.Fatalf("log brew: %v", err)
	}

	data, err := service.ExportDataSnapshot(src)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data.Beans) != 1 || len(data.Records) != 1 {
		t.Fatalf("unexpected export sizes: %d beans, %d records", len(data.Beans), len(data.Records))
	}

	dst := newTestDB(t)
	defer dst.Close()
	report, err := service.ImportDataSnapshot(dst, data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.BeansInserted != 1 || report.RecordsInserted != 1 {
		t.Fatalf("unexpected import report %+v", report)
	}

	// Importing the same snapshot again skips existing ids.
	report, err = service.ImportDataSnapshot(dst, data)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if report.BeansInserted != 0 || report.BeansSkipped != 1 || report.RecordsSkipped != 1 {
		t.Fatalf("expected idempotent import, got %+v", report)
	}

	beans, err := service.LoadAllBeans(dst)
	if err != nil {
		t.Fatalf("load beans: %v", err)
	}
	if len(beans) != 1 || beans[0].Name != "Kenya AA" || beans[0].RoastDate != "2026-02-01" {
		t.Fatalf("unexpected imported beans %+v", beans)
	}
	records, err := service.LoadAllRecords(dst)
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 1 || records[0].Dose != "15g" || records[0].BeanName != "Kenya AA" {
		t.Fatalf("unexpected imported records %+v", records)
	}
}

func TestImportRejectsInvalidData(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.ImportDataSnapshot(db, nil); err == nil {
		t.Fatalf("expected error importing nil snapshot")
	}

	bad := &service.ExportData{
		Beans: []service.ExportBean{{Name: "X", Category: "latte"}},
	}
	if _, err := service.ImportDataSnapshot(db, bad); err == nil {
		t.Fatalf("expected error for invalid category")
	}

	badRecord := &service.ExportData{
		Records: []service.ExportRecord{{Source: "brew", BrewedAt: "not-a-time"}},
	}
	if _, err := service.ImportDataSnapshot(db, badRecord); err == nil {
		t.Fatalf("expected error for invalid brewed_at")
	}
}
