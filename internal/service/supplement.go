package service

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/koga-04/diet-app/internal/model"
)

// SupplementPreset is a fixed supplement with known nutrient content.
type SupplementPreset struct {
	Key       string
	Label     string
	Nutrients model.Nutrients
}

var supplementPresets = map[string]SupplementPreset{
	"multivitamin": {
		Key:   "multivitamin",
		Label: "Supplement: multivitamin & mineral",
		Nutrients: model.Nutrients{
			Calories:      model.Float(5),
			Protein:       model.Float(0.02),
			Carbohydrates: model.Float(0.6),
			Fat:           model.Float(0.05),
			VitaminD:      model.Float(10.0),
			Salt:          model.Float(0),
			Zinc:          model.Float(6.0),
			FolicAcid:     model.Float(240),
		},
	},
	"folic-acid": {
		Key:   "folic-acid",
		Label: "Supplement: folic acid",
		Nutrients: model.Nutrients{
			Calories:      model.Float(1),
			Protein:       model.Float(0),
			Carbohydrates: model.Float(0.23),
			Fat:           model.Float(0.004),
			VitaminD:      model.Float(0),
			Salt:          model.Float(0),
			Zinc:          model.Float(0),
			FolicAcid:     model.Float(480),
		},
	},
	"vitamin-d": {
		Key:   "vitamin-d",
		Label: "Supplement: vitamin D",
		Nutrients: model.Nutrients{
			Calories:      model.Float(1),
			Protein:       model.Float(0),
			Carbohydrates: model.Float(0),
			Fat:           model.Float(0.12),
			VitaminD:      model.Float(30.0),
			Salt:          model.Float(0),
			Zinc:          model.Float(0),
			FolicAcid:     model.Float(0),
		},
	},
	"zinc": {
		Key:   "zinc",
		Label: "Supplement: zinc",
		Nutrients: model.Nutrients{
			Calories:      model.Float(1),
			Protein:       model.Float(0),
			Carbohydrates: model.Float(0.17),
			Fat:           model.Float(0.005),
			VitaminD:      model.Float(0),
			Salt:          model.Float(0),
			Zinc:          model.Float(14.0),
			FolicAcid:     model.Float(0),
		},
	},
}

// SupplementPresets lists the known presets in stable order.
func SupplementPresets() []SupplementPreset {
	keys := make([]string, 0, len(supplementPresets))
	for k := range supplementPresets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]SupplementPreset, 0, len(keys))
	for _, k := range keys {
		out = append(out, supplementPresets[k])
	}
	return out
}

// LogSupplement records one dose of a preset supplement on the given date.
func LogSupplement(sqldb *sql.DB, date, presetKey string) (int64, error) {
	preset, ok := supplementPresets[presetKey]
	if !ok {
		return 0, fmt.Errorf("unknown supplement preset %q", presetKey)
	}
	return CreateMeal(sqldb, CreateMealInput{
		Date:      date,
		Category:  model.CategorySupplement,
		Label:     preset.Label,
		Nutrients: preset.Nutrients,
	})
}

// LogHydration records a hydration entry. The amount is carried in the
// label; the nutrient values are true zeros, not absent.
func LogHydration(sqldb *sql.DB, date string, amountML int) (int64, error) {
	if amountML <= 0 {
		return 0, fmt.Errorf("hydration amount must be > 0 ml")
	}
	return CreateMeal(sqldb, CreateMealInput{
		Date:     date,
		Category: model.CategoryHydration,
		Label:    fmt.Sprintf("%d ml", amountML),
		Nutrients: model.Nutrients{
			Calories: model.Float(0), Protein: model.Float(0),
			Carbohydrates: model.Float(0), Fat: model.Float(0),
			VitaminD: model.Float(0), Salt: model.Float(0),
			Zinc: model.Float(0), FolicAcid: model.Float(0),
		},
	})
}
