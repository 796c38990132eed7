// Package sync holds the bookkeeping types shared by every entity
// synchronization service: the per-run result report and the numero/ano
// composite key used to address remote records before their numeric id
// is known locally.
package sync

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// MessageNotFound is the detail message recorded when a remote lookup
// returns no record for a key.
const MessageNotFound = "not found"

// Detail is the per-item outcome inside a Result.
type Detail struct {
	Identifier string `json:"identifier"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
}

// Result aggregates one synchronization run. It is created fresh per
// call, returned to the caller and logged; it is never persisted.
type Result struct {
	RunID          string   `json:"run_id"`
	TotalProcessed int      `json:"total_processed"`
	Successful     int      `json:"successful"`
	Failed         int      `json:"failed"`
	Details        []Detail `json:"details,omitempty"`
}

func NewResult() *Result {
	return &Result{RunID: uuid.NewString()}
}

func (r *Result) AddSuccess(identifier string) {
	r.TotalProcessed++
	r.Successful++
	r.Details = append(r.Details, Detail{Identifier: identifier, Status: StatusSuccess})
}

func (r *Result) AddFailure(identifier, message string) {
	r.TotalProcessed++
	r.Failed++
	r.Details = append(r.Details, Detail{Identifier: identifier, Status: StatusFailed, Message: message})
}

// AddBatch records a whole-batch outcome: count successes, or mark every
// item failed with the same message when the atomic batch write failed.
func (r *Result) AddBatch(identifiers []string, err error) {
	if err == nil {
		for _, id := range identifiers {
			r.AddSuccess(id)
		}
		return
	}
	for _, id := range identifiers {
		r.AddFailure(id, err.Error())
	}
}

// Merge folds the counters and details of another run into this one.
// Used by SyncMany, which accumulates one SyncOne result per key.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.TotalProcessed += other.TotalProcessed
	r.Successful += other.Successful
	r.Failed += other.Failed
	r.Details = append(r.Details, other.Details...)
}

// NumeroAno is the human-facing composite key ("number/year") SIPAC
// uses to look up a record before its remote numeric id is known.
type NumeroAno struct {
	Numero int `json:"numero"`
	Ano    int `json:"ano"`
}

func (k NumeroAno) String() string {
	return fmt.Sprintf("%d/%d", k.Numero, k.Ano)
}

func (k NumeroAno) IsZero() bool {
	return k.Numero == 0 && k.Ano == 0
}

// ParseNumeroAno parses a "number/year" string such as "123/2024".
func ParseNumeroAno(s string) (NumeroAno, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return NumeroAno{}, fmt.Errorf("invalid numero/ano key %q", s)
	}

	numero, errN := strconv.Atoi(parts[0])
	ano, errA := strconv.Atoi(parts[1])
	if errN != nil || errA != nil {
		return NumeroAno{}, fmt.Errorf("invalid numero/ano key %q", s)
	}

	return NumeroAno{Numero: numero, Ano: ano}, nil
}
