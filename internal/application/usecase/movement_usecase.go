package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

// MovementUseCase registro de movimientos de stock, incluida mercadería en tránsito.
type MovementUseCase struct {
	repo     repository.MovementRepository
	products repository.ProductRepository
	lots     repository.LotRepository
	units    repository.UnitRepository
	now      func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	repo repository.MovementRepository,
	products repository.ProductRepository,
	lots repository.LotRepository,
	units repository.UnitRepository,
) *MovementUseCase {
	return &MovementUseCase{repo: repo, products: products, lots: lots, units: units, now: time.Now}
}

// Create registra un movimiento a nombre de quien invoca. Una salida exige lote.
func (uc *MovementUseCase) Create(ctx context.Context, caller Caller, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !caller.canSee(product.UnitID) {
		return nil, domain.ErrNotFound
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.Type == entity.MovementTypeOUT && in.LotID == "" {
		return nil, fmt.Errorf("%w: el lote es obligatorio para una salida", domain.ErrInvalidInput)
	}
	expected, err := parseDay(in.ExpectedDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.MovementStatusInTransit
	}
	now := uc.now()
	m := &entity.StockMovement{
		ID:           uuid.New().String(),
		ProductID:    product.ID,
		Type:         in.Type,
		Status:       status,
		Quantity:     in.Quantity,
		ExpectedDate: expected,
		Notes:        in.Notes,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
		ProductCode:  product.Code,
		ProductName:  product.Name,
	}
	if in.LotID != "" {
		lot, err := uc.lots.GetByID(ctx, in.LotID)
		if err != nil {
			return nil, err
		}
		if lot == nil || lot.ProductID != product.ID {
			return nil, fmt.Errorf("%w: el lote no pertenece al producto", domain.ErrInvalidInput)
		}
		m.LotID, m.LotNumber = &lot.ID, lot.LotNumber
	}
	if m.OriginUnitID, err = uc.unitRef(ctx, in.OriginUnitID); err != nil {
		return nil, err
	}
	if m.DestinationUnitID, err = uc.unitRef(ctx, in.DestinationUnitID); err != nil {
		return nil, err
	}
	if id := caller.UserID(); id != "" {
		m.UserID = &id
	}
	if status == entity.MovementStatusReceived {
		day := today(uc.now)
		m.EffectiveDate = &day
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMovementResponse(m), nil
}

func (uc *MovementUseCase) unitRef(ctx context.Context, id string) (*string, error) {
	if id == "" {
		return nil, nil
	}
	unit, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrUnitNotFound
	}
	return &unit.ID, nil
}

func (uc *MovementUseCase) visible(caller Caller, m *entity.StockMovement, productUnit string) bool {
	if caller.canSee(productUnit) {
		return true
	}
	if m.OriginUnitID != nil && caller.canSee(*m.OriginUnitID) {
		return true
	}
	return m.DestinationUnitID != nil && caller.canSee(*m.DestinationUnitID)
}

func (uc *MovementUseCase) find(ctx context.Context, caller Caller, id string) (*entity.StockMovement, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.products.GetByID(ctx, m.ProductID)
	if err != nil {
		return nil, err
	}
	unitID := ""
	if product != nil {
		unitID = product.UnitID
	}
	if !uc.visible(caller, m, unitID) {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// GetByID devuelve un movimiento visible.
func (uc *MovementUseCase) GetByID(ctx context.Context, caller Caller, id string) (*dto.MovementResponse, error) {
	m, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toMovementResponse(m), nil
}

// UpdateStatus solo un movimiento en tránsito puede pasar a recibido o cancelado.
func (uc *MovementUseCase) UpdateStatus(ctx context.Context, caller Caller, id string, in dto.UpdateMovementStatusRequest) (*dto.MovementResponse, error) {
	m, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if m.Status == in.Status {
		return toMovementResponse(m), nil
	}
	if m.Status != entity.MovementStatusInTransit {
		return nil, fmt.Errorf("%w: el movimiento ya está %s", domain.ErrConflict, m.Status)
	}
	effective, err := parseDay(in.EffectiveDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if effective == nil && in.Status == entity.MovementStatusReceived {
		day := today(uc.now)
		effective = &day
	}
	if err := uc.repo.UpdateStatus(ctx, m.ID, in.Status, effective); err != nil {
		return nil, err
	}
	m.Status = in.Status
	if effective != nil {
		m.EffectiveDate = effective
	}
	return toMovementResponse(m), nil
}

// List lista movimientos de las unidades visibles, más recientes primero.
func (uc *MovementUseCase) List(ctx context.Context, caller Caller, in dto.MovementFilter) ([]dto.MovementResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.MovementFilter{
		UnitIDs:   caller.scope(),
		ProductID: in.ProductID,
		Type:      in.Type,
		Status:    in.Status,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		ProductCode:       m.ProductCode,
		ProductName:       m.ProductName,
		LotID:             m.LotID,
		LotNumber:         m.LotNumber,
		Type:              m.Type,
		Status:            m.Status,
		Quantity:          m.Quantity,
		OriginUnitID:      m.OriginUnitID,
		DestinationUnitID: m.DestinationUnitID,
		ExpectedDate:      m.ExpectedDate,
		EffectiveDate:     m.EffectiveDate,
		Notes:             m.Notes,
		UserID:            m.UserID,
		CreatedAt:         m.CreatedAt,
	}
}
