package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/koga-04/diet-app/internal/config"
	"github.com/koga-04/diet-app/internal/model"
	"github.com/koga-04/diet-app/internal/service"
)

func TestAdviseNeedsAtLeastOneRecord(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	gen := &stubGenerator{responses: []string{"eat more vegetables"}}
	_, err := service.Advise(context.Background(), sqldb, gen, &config.Profile{}, service.AdviceInput{})
	if err == nil {
		t.Fatalf("expected error with no records")
	}
	if gen.calls != 0 {
		t.Fatalf("no generate call should happen without records")
	}
}

func TestAdviseEmbedsProfileAndRecords(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	if _, err := service.CreateMeal(sqldb, service.CreateMealInput{
		Date: "2026-03-10", Category: "breakfast", Label: "natto rice",
		Nutrients: model.Nutrients{Calories: model.Float(350)},
	}); err != nil {
		t.Fatalf("seed meal: %v", err)
	}

	gen := &stubGenerator{responses: []string{"Looks balanced overall."}}
	profile := &config.Profile{Dislikes: []string{"raw tomato"}}

	out, err := service.Advise(context.Background(), sqldb, gen, profile, service.AdviceInput{
		Question: "am I eating enough protein?",
	})
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	if out != "Looks balanced overall." {
		t.Fatalf("unexpected advice %q", out)
	}
	prompt := gen.prompts[0]
	for _, want := range []string{"natto rice", "raw tomato", "am I eating enough protein?"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q:\n%s", want, prompt)
		}
	}
}

func TestAdviseRangeWithNoRecordsFails(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	if _, err := service.CreateMeal(sqldb, service.CreateMealInput{
		Date: "2026-03-10", Category: "lunch", Label: "udon",
	}); err != nil {
		t.Fatalf("seed meal: %v", err)
	}

	gen := &stubGenerator{responses: []string{"advice"}}
	_, err := service.Advise(context.Background(), sqldb, gen, &config.Profile{}, service.AdviceInput{
		FromDate: "2020-01-01",
		ToDate:   "2020-01-31",
	})
	if err == nil {
		t.Fatalf("expected error for a period with no records")
	}
}
