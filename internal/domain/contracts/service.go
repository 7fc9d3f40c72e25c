package contracts

import (
	"context"
	"fmt"
	"time"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/core/tx"
	"stocklink/internal/core/types"
	"stocklink/internal/domain"
	"stocklink/pkg/logger"
	"stocklink/pkg/numerator"
)

const numberPrefix = "PC"

// Field selects which line quantity a delta set targets.
type Field string

const (
	// FieldPicked - deltas are increments to the picked quantity
	FieldPicked Field = "picked"
	// FieldFinished - deltas are absolute values that replace the
	// finished quantity (upstream production reports totals, not deltas)
	FieldFinished Field = "finished"
)

// LineDelta addresses one contract line by its number.
// For FieldPicked, Qty is a signed increment; for FieldFinished it is the
// new absolute value.
type LineDelta struct {
	LineNo int            `json:"lineNo"`
	Qty    types.Quantity `json:"qty"`
}

// Service provides business operations for purchase contracts.
type Service struct {
	repo      Repository
	names     SupplierNames
	numerator *numerator.Service
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Contract]
}

// NewService creates a new contract service.
func NewService(repo Repository, names SupplierNames, num *numerator.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		names:     names,
		numerator: num,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Contract](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Contract] {
	return s.hooks
}

// Create creates a new purchase contract with its lines.
func (s *Service) Create(ctx context.Context, contract *Contract) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, contract); err != nil {
		return err
	}

	if err := contract.Validate(ctx); err != nil {
		return err
	}

	if contract.SupplierName == "" {
		name, err := s.names.SupplierName(ctx, contract.SupplierID)
		if err != nil {
			return fmt.Errorf("resolve supplier name: %w", err)
		}
		contract.SupplierName = name
	}

	if contract.Number == "" {
		cfg := numerator.DefaultConfig(numberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, numerator.DefaultOptions(), time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		contract.Number = number
	}

	for i := range contract.Lines {
		contract.Lines[i].ContractID = contract.ID
	}
	contract.Reaggregate()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, contract); err != nil {
			return fmt.Errorf("create contract: %w", err)
		}
		if err := s.repo.SaveLines(ctx, contract.ID, contract.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, contract); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "contract created",
		"id", contract.ID,
		"number", contract.Number,
		"lines", len(contract.Lines))

	return nil
}

// GetByID retrieves a contract with lines.
func (s *Service) GetByID(ctx context.Context, contractID id.ID) (*Contract, error) {
	contract, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	contract.Lines = lines

	return contract, nil
}

// List retrieves contracts with filtering and pagination.
func (s *Service) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Contract], error) {
	if f.Limit <= 0 {
		f.Limit = domain.DefaultListFilter().Limit
	}
	return s.repo.List(ctx, f)
}

// ApplyLineDeltas applies a set of quantity deltas to contract lines in a
// single transaction, all-or-nothing.
//
// Every delta is validated against its line before any line is mutated; a
// violation rejects the whole set with LINE_OVERFLOW naming the offending
// line and SKU. After a successful apply the contract aggregates are
// recomputed and the shipment status rederived, unless the contract is in
// a terminal state (SETTLED/CANCELLED), which is never overwritten.
func (s *Service) ApplyLineDeltas(ctx context.Context, contractID id.ID, field Field, deltas []LineDelta) (*Contract, error) {
	if field != FieldPicked && field != FieldFinished {
		return nil, apperror.NewValidation("unknown quantity field").
			WithDetail("field", string(field))
	}
	if len(deltas) == 0 {
		return nil, apperror.NewValidation("at least one line delta is required")
	}

	var contract *Contract
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		contract, err = s.repo.GetForUpdate(ctx, contractID)
		if err != nil {
			return err
		}

		lines, err := s.repo.GetLines(ctx, contractID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		contract.Lines = lines

		// Phase 1: validate the whole set against current line state.
		next := make(map[int]types.Quantity, len(deltas))
		for _, d := range deltas {
			line := contract.LineByNo(d.LineNo)
			if line == nil {
				return apperror.NewNotFound("ContractLine", d.LineNo).
					WithDetail("contract_id", contractID.String())
			}

			var resulting types.Quantity
			switch field {
			case FieldPicked:
				current := line.PickedQty
				if prev, ok := next[d.LineNo]; ok {
					current = prev
				}
				resulting = current.Add(d.Qty)
			case FieldFinished:
				resulting = d.Qty
			}

			if resulting.IsNegative() || resulting > line.OrderedQty {
				return apperror.NewLineOverflow(
					line.LineNo, line.SKUCode,
					line.OrderedQty.Float64(), resulting.Float64(),
				)
			}
			next[d.LineNo] = resulting
		}

		// Phase 2: apply, re-aggregate, persist.
		changed := make([]Line, 0, len(next))
		for lineNo, value := range next {
			line := contract.LineByNo(lineNo)
			switch field {
			case FieldPicked:
				line.PickedQty = value
			case FieldFinished:
				line.FinishedQty = value
			}
			changed = append(changed, *line)
		}

		if err := s.repo.UpdateLineQuantities(ctx, changed); err != nil {
			return fmt.Errorf("update lines: %w", err)
		}

		contract.Reaggregate()
		contract.Touch()
		if err := s.repo.Update(ctx, contract); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}

		logger.Info(ctx, "line deltas applied",
			"contract_id", contract.ID,
			"field", string(field),
			"lines", len(deltas),
			"status", contract.Status)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return contract, nil
}

// Settle moves the contract to the terminal SETTLED state.
func (s *Service) Settle(ctx context.Context, contractID id.ID) error {
	return s.setTerminal(ctx, contractID, StatusSettled)
}

// Cancel moves the contract to the terminal CANCELLED state.
func (s *Service) Cancel(ctx context.Context, contractID id.ID) error {
	return s.setTerminal(ctx, contractID, StatusCancelled)
}

func (s *Service) setTerminal(ctx context.Context, contractID id.ID, status Status) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		contract, err := s.repo.GetForUpdate(ctx, contractID)
		if err != nil {
			return err
		}

		if contract.Status.Terminal() {
			if contract.Status == status {
				return nil
			}
			return apperror.NewConflict("contract is already in a terminal state").
				WithDetail("status", string(contract.Status))
		}

		contract.Status = status
		contract.Touch()
		if err := s.repo.Update(ctx, contract); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}

		logger.Info(ctx, "contract state changed",
			"contract_id", contract.ID,
			"status", status)

		return nil
	})
}
