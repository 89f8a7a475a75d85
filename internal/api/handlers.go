package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/koga-04/diet-app/internal/logger"
	"github.com/koga-04/diet-app/internal/model"
	"github.com/koga-04/diet-app/internal/query"
	"github.com/koga-04/diet-app/internal/service"
)

// maxRequestBodySize caps POST bodies; an analysis image in base64 is the
// largest payload we accept.
const maxRequestBodySize = 8 << 20

type nutrientsPayload struct {
	Calories      *float64 `json:"calories,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	VitaminD      *float64 `json:"vitamin_d,omitempty"`
	Salt          *float64 `json:"salt,omitempty"`
	Zinc          *float64 `json:"zinc,omitempty"`
	FolicAcid     *float64 `json:"folic_acid,omitempty"`
}

func (p nutrientsPayload) toModel() model.Nutrients {
	return model.Nutrients{
		Calories:      p.Calories,
		Protein:       p.Protein,
		Carbohydrates: p.Carbohydrates,
		Fat:           p.Fat,
		VitaminD:      p.VitaminD,
		Salt:          p.Salt,
		Zinc:          p.Zinc,
		FolicAcid:     p.FolicAcid,
	}
}

func nutrientsFromModel(n model.Nutrients) nutrientsPayload {
	return nutrientsPayload{
		Calories:      n.Calories,
		Protein:       n.Protein,
		Carbohydrates: n.Carbohydrates,
		Fat:           n.Fat,
		VitaminD:      n.VitaminD,
		Salt:          n.Salt,
		Zinc:          n.Zinc,
		FolicAcid:     n.FolicAcid,
	}
}

type mealPayload struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Label    string `json:"label"`
	nutrientsPayload
	Favorite  bool   `json:"favorite"`
	CreatedAt string `json:"created_at"`
}

func mealFromModel(m model.MealRecord) mealPayload {
	return mealPayload{
		ID:               m.ID,
		Date:             m.Date,
		Category:         m.Category,
		Label:            m.Label,
		nutrientsPayload: nutrientsFromModel(m.Nutrients),
		Favorite:         m.Favorite,
		CreatedAt:        m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// --- Meal handlers ---

func (s *Server) listMeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	meals, err := service.ListMeals(s.db, service.MealFilter{
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
		Category: q.Get("category"),
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]mealPayload, 0, len(meals))
	for _, m := range meals {
		out = append(out, mealFromModel(m))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) createMeal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date     string `json:"date"`
		Category string `json:"category"`
		Label    string `json:"label"`
		nutrientsPayload
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := service.CreateMeal(s.db, service.CreateMealInput{
		Date:      req.Date,
		Category:  req.Category,
		Label:     req.Label,
		Nutrients: req.toModel(),
	})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) deleteMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := service.DeleteMeal(s.db, id); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Favorite bool `json:"favorite"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := service.SetMealFavorite(s.db, id, req.Favorite); err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Supplement and hydration handlers ---

func (s *Server) listSupplementPresets(w http.ResponseWriter, r *http.Request) {
	type presetPayload struct {
		Key   string `json:"key"`
		Label string `json:"label"`
		nutrientsPayload
	}
	presets := service.SupplementPresets()
	out := make([]presetPayload, 0, len(presets))
	for _, p := range presets {
		out = append(out, presetPayload{
			Key:              p.Key,
			Label:            p.Label,
			nutrientsPayload: nutrientsFromModel(p.Nutrients),
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) logSupplement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   string `json:"date"`
		Preset string `json:"preset"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := service.LogSupplement(s.db, req.Date, req.Preset)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) logHydration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date     string `json:"date"`
		AmountML int    `json:"amount_ml"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := service.LogHydration(s.db, req.Date, req.AmountML)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// --- Exercise handlers ---

type exercisePayload struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Label       string  `json:"label"`
	DurationMin float64 `json:"duration_min"`
	CreatedAt   string  `json:"created_at"`
}

func (s *Server) listExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := service.ListExercises(s.db, service.ExerciseFilter{
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]exercisePayload, 0, len(records))
	for _, e := range records {
		out = append(out, exercisePayload{
			ID:          e.ID,
			Date:        e.Date,
			Category:    e.Category,
			Label:       e.Label,
			DurationMin: e.DurationMin,
			CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) createExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string  `json:"date"`
		Category    string  `json:"category"`
		Label       string  `json:"label"`
		DurationMin float64 `json:"duration_min"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := service.CreateExercise(s.db, service.CreateExerciseInput{
		Date:        req.Date,
		Category:    req.Category,
		Label:       req.Label,
		DurationMin: req.DurationMin,
	})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) deleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := service.DeleteExercise(s.db, id); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Question and advice handlers ---

type askResponse struct {
	Columns     []string `json:"columns,omitempty"`
	Rows        [][]any  `json:"rows,omitempty"`
	Description string   `json:"description,omitempty"`
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		Mode     string `json:"mode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.asker.Ask(r.Context(), s.db, req.Question, service.AskMode(req.Mode))
	if err != nil {
		var rejected *query.RejectedError
		if errors.As(err, &rejected) {
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": rejected.Reason,
				"rule":  rejected.Rule,
			})
			return
		}
		// The wrapped cause is for the log only; the client gets a fixed
		// generic message.
		logger.Error("ask failed", zap.Error(err), zap.NamedError("cause", errors.Unwrap(err)))
		respondWithError(w, http.StatusInternalServerError, "query execution failed")
		return
	}
	respondWithJSON(w, http.StatusOK, askResponse{
		Columns:     res.Columns,
		Rows:        res.Rows,
		Description: res.Description,
	})
}

func (s *Server) advise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		From     string `json:"from"`
		To       string `json:"to"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := service.Advise(r.Context(), s.db, s.gen, s.profile, service.AdviceInput{
		Question: req.Question,
		FromDate: req.From,
		ToDate:   req.To,
	})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"advice": out})
}

// --- Analysis session handlers ---

type sessionPayload struct {
	ID       string                `json:"id"`
	State    service.SessionState  `json:"state"`
	Proposal *service.MealProposal `json:"proposal,omitempty"`
	Date     string                `json:"date"`
	Category string                `json:"category"`
}

func sessionFromService(sess *service.Session) sessionPayload {
	return sessionPayload{
		ID:       sess.ID,
		State:    sess.State,
		Proposal: sess.Proposal,
		Date:     sess.Date,
		Category: sess.Category,
	}
}

func (s *Server) startAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string `json:"date"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Image       string `json:"image"` // base64
	}
	if !decodeBody(w, r, &req) {
		return
	}
	var image []byte
	if req.Image != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "image must be base64 encoded")
			return
		}
		image = decoded
	}
	sess, err := s.sessions.Propose(r.Context(), req.Date, req.Category, req.Description, image)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, sessionFromService(sess))
}

func (s *Server) correctAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Feedback string `json:"feedback"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.sessions.Correct(r.Context(), chi.URLParam(r, "id"), req.Feedback)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, sessionFromService(sess))
}

func (s *Server) confirmAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessions.Confirm(s.db, chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) discardAnalysis(w http.ResponseWriter, r *http.Request) {
	s.sessions.Discard(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
