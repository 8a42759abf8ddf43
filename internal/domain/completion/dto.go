package completion

import (
	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/transaction"
)

// ModuleCompletedRequest is sent by the catalog source when a module is finished
type ModuleCompletedRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	ModuleID  string `json:"module_id" validate:"required,max=100"`
}

// CourseCompletedRequest is sent by the catalog source when a course is finished
type CourseCompletedRequest struct {
	StudentID         string `json:"student_id" validate:"required,uuid"`
	CourseID          string `json:"course_id" validate:"required,max=100"`
	CompletionCredits int64  `json:"completion_credits" validate:"gte=0,max=1000000000"`
}

type GrantResponse struct {
	Account     account.AccountResponse          `json:"account"`
	Transaction *transaction.TransactionResponse `json:"transaction,omitempty"`
	Duplicate   bool                             `json:"duplicate"`
}

func GrantResponseFromEntity(g *Grant) GrantResponse {
	resp := GrantResponse{
		Account:   account.AccountResponseFromEntity(g.Account),
		Duplicate: g.Duplicate,
	}
	if g.Transaction != nil {
		t := transaction.TransactionResponseFromEntity(g.Transaction)
		resp.Transaction = &t
	}
	return resp
}
