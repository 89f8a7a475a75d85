package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SessionState is the analysis workflow state. A proposal moves
// propose -> confirm|correct -> commit|re-propose; every transition is
// checked so a stale client cannot confirm what was never proposed.
type SessionState string

const (
	StateIdle                 SessionState = "idle"
	StateAwaitingConfirmation SessionState = "awaiting_confirmation"
	StateAwaitingCorrection   SessionState = "awaiting_correction"
)

// Session carries one in-progress analysis from proposal to commit.
type Session struct {
	ID       string
	State    SessionState
	Proposal *MealProposal
	Date     string
	Category string
}

// SessionManager tracks live analysis sessions for the HTTP surface.
type SessionManager struct {
	mu       sync.Mutex
	analyzer *Analyzer
	sessions map[string]*Session
}

func NewSessionManager(analyzer *Analyzer) *SessionManager {
	return &SessionManager{
		analyzer: analyzer,
		sessions: make(map[string]*Session),
	}
}

// Propose starts a session from an image or a text description and leaves
// it awaiting confirmation.
func (m *SessionManager) Propose(ctx context.Context, date, category, description string, image []byte) (*Session, error) {
	var (
		proposal *MealProposal
		err      error
	)
	if len(image) > 0 {
		proposal, err = m.analyzer.AnalyzeImage(ctx, image)
	} else {
		proposal, err = m.analyzer.AnalyzeText(ctx, description)
	}
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:       uuid.NewString(),
		State:    StateAwaitingConfirmation,
		Proposal: proposal,
		Date:     date,
		Category: category,
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess, nil
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("analysis session %q not found", id)
	}
	return sess, nil
}

// Correct sends user feedback to the model and re-proposes. Only a session
// awaiting confirmation can be corrected.
func (m *SessionManager) Correct(ctx context.Context, id, feedback string) (*Session, error) {
	sess, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	if sess.State != StateAwaitingConfirmation {
		state := sess.State
		m.mu.Unlock()
		return nil, fmt.Errorf("session %q is %s, cannot correct", id, state)
	}
	sess.State = StateAwaitingCorrection
	m.mu.Unlock()

	revised, err := m.analyzer.Repropose(ctx, sess.Proposal, feedback)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// The previous proposal stays on the table.
		sess.State = StateAwaitingConfirmation
		return nil, err
	}
	sess.Proposal = revised
	sess.State = StateAwaitingConfirmation
	return sess, nil
}

// Confirm commits the accepted proposal as a meal record and closes the
// session.
func (m *SessionManager) Confirm(sqldb *sql.DB, id string) (int64, error) {
	sess, err := m.Get(id)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	if sess.State != StateAwaitingConfirmation {
		state := sess.State
		m.mu.Unlock()
		return 0, fmt.Errorf("session %q is %s, cannot confirm", id, state)
	}
	proposal := sess.Proposal
	date, category := sess.Date, sess.Category
	m.mu.Unlock()

	recordID, err := CreateMeal(sqldb, CreateMealInput{
		Date:      date,
		Category:  category,
		Label:     proposal.FoodName,
		Nutrients: proposal.ToNutrients(),
	})
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	sess.State = StateIdle
	delete(m.sessions, id)
	m.mu.Unlock()
	return recordID, nil
}

// Discard drops a session without committing.
func (m *SessionManager) Discard(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
