// Package form tracks whether the record form is adding a new vacation or
// editing an existing one, and submits it.
package form

import (
	"context"

	"vacation-planner/internal/models"
)

// Mode is the form's current purpose.
type Mode int

const (
	ModeInsert Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "insert"
}

// State is the form's session state. It is a value: transitions return a new State.
type State struct {
	Mode     Mode
	TargetID string
	Open     bool
}

// Recorder is the part of the vacation service the form writes through.
type Recorder interface {
	Create(ctx context.Context, input models.RecordInput) (models.VacationRecord, error)
	Update(ctx context.Context, id string, input models.RecordInput) (models.VacationRecord, error)
}

// OpenNew opens an empty form for a new record, leaving edit mode.
func (s State) OpenNew() State {
	return State{Mode: ModeInsert, Open: true}
}

// BeginEdit opens the form for the record with the given id.
func (s State) BeginEdit(id string) State {
	return State{Mode: ModeEdit, TargetID: id, Open: true}
}

// Reset closes the form and returns it to insert mode.
func (s State) Reset() State {
	return State{Mode: ModeInsert}
}

// Editing reports whether the form targets an existing record.
func (s State) Editing() bool {
	return s.Mode == ModeEdit && s.TargetID != ""
}

// Submit validates input and creates or updates a record depending on the
// state. On success the returned state is reset; on any error the state is
// returned unchanged so the form stays open for another attempt.
func Submit(ctx context.Context, r Recorder, s State, input models.RecordInput) (State, models.VacationRecord, error) {
	input, err := input.Validate()
	if err != nil {
		return s, models.VacationRecord{}, err
	}

	var record models.VacationRecord
	if s.Editing() {
		record, err = r.Update(ctx, s.TargetID, input)
	} else {
		record, err = r.Create(ctx, input)
	}
	if err != nil {
		return s, models.VacationRecord{}, err
	}

	return s.Reset(), record, nil
}
