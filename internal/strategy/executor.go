package strategy

import (
	"context"

	"rule-one/internal/dto"
)

type ProcessorName string

// SeedProcessor inserts placeholder stock rows for one ticker group.
type SeedProcessor interface {
	Execute(ctx context.Context) (dto.BatchResult, error)
	GetName() ProcessorName
	Info() dto.ProcessorInfo
}
