package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/koga-04/diet-app/internal/llm"
	"github.com/koga-04/diet-app/internal/model"
	"github.com/koga-04/diet-app/internal/planner"
)

// MealProposal is the model's nutrient estimate for a photographed or
// described meal, awaiting user confirmation or correction.
type MealProposal struct {
	FoodName  string            `json:"foodName"`
	Calories  float64           `json:"calories"`
	Nutrients ProposedNutrients `json:"nutrients"`
}

type ProposedNutrients struct {
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	VitaminD      float64 `json:"vitaminD"`
	Salt          float64 `json:"salt"`
	Zinc          float64 `json:"zinc"`
	FolicAcid     float64 `json:"folic_acid"`
}

// ToNutrients converts a proposal into record measures. Proposed values
// are always present; the model estimates every field.
func (p *MealProposal) ToNutrients() model.Nutrients {
	return model.Nutrients{
		Calories:      model.Float(p.Calories),
		Protein:       model.Float(p.Nutrients.Protein),
		Carbohydrates: model.Float(p.Nutrients.Carbohydrates),
		Fat:           model.Float(p.Nutrients.Fat),
		VitaminD:      model.Float(p.Nutrients.VitaminD),
		Salt:          model.Float(p.Nutrients.Salt),
		Zinc:          model.Float(p.Nutrients.Zinc),
		FolicAcid:     model.Float(p.Nutrients.FolicAcid),
	}
}

// Analyzer asks the model to estimate nutrients from a meal photo or a
// free-text description.
type Analyzer struct {
	Gen planner.Generator
}

const analyzeContract = `Respond with exactly one JSON object, no explanations and no code fences:
{
    "foodName": "dish name",
    "calories": 123.0,
    "nutrients": {
        "protein": 12.3, "carbohydrates": 12.3, "fat": 12.3,
        "vitaminD": 1.2, "salt": 1.2, "zinc": 1.5, "folic_acid": 20.0
    }
}
Units: calories kcal, protein/carbohydrates/fat/salt g, vitaminD/folic_acid mcg, zinc mg.`

func (a *Analyzer) AnalyzeImage(ctx context.Context, image []byte) (*MealProposal, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image data is required")
	}
	prompt := "You are a nutrition expert. Analyze this meal photo. Identify the dish and estimate the total calories and nutrients.\n" + analyzeContract
	return a.run(ctx, prompt, image)
}

func (a *Analyzer) AnalyzeText(ctx context.Context, description string) (*MealProposal, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("meal description is required")
	}
	prompt := fmt.Sprintf("You are a nutrition expert. Estimate the calories and nutrients of this meal: %s\n%s", description, analyzeContract)
	return a.run(ctx, prompt, nil)
}

// Repropose sends the previous estimate back with the user's correction
// and asks for a revised one.
func (a *Analyzer) Repropose(ctx context.Context, previous *MealProposal, correction string) (*MealProposal, error) {
	correction = strings.TrimSpace(correction)
	if correction == "" {
		return nil, fmt.Errorf("correction text is required")
	}
	prev, err := json.Marshal(previous)
	if err != nil {
		return nil, fmt.Errorf("marshal previous proposal: %w", err)
	}
	prompt := fmt.Sprintf(`You are a nutrition expert. Your previous estimate for a meal was:
%s

The user corrected it: %s

Produce a revised estimate.
%s`, prev, correction, analyzeContract)
	return a.run(ctx, prompt, nil)
}

func (a *Analyzer) run(ctx context.Context, prompt string, image []byte) (*MealProposal, error) {
	out, err := a.Gen.Generate(ctx, prompt, image)
	if err != nil {
		return nil, fmt.Errorf("analyze meal: %w", err)
	}
	raw := llm.ExtractJSON(out)
	if raw == "" {
		return nil, fmt.Errorf("analysis returned no usable estimate")
	}
	var proposal MealProposal
	if err := json.Unmarshal([]byte(raw), &proposal); err != nil {
		return nil, fmt.Errorf("analysis returned no usable estimate: %w", err)
	}
	if strings.TrimSpace(proposal.FoodName) == "" {
		return nil, fmt.Errorf("analysis returned no dish name")
	}
	return &proposal, nil
}
